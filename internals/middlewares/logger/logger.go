package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware mencatat tiap request beserta role pemanggilnya;
// akses endpoint nilai perlu bisa ditelusuri per role.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${ip} role=${locals:userRole} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
