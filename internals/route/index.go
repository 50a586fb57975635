package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"praklinik_backend/internals/helpers/mailer"

	academicRoute "praklinik_backend/internals/features/academics/route"
	praklinikRoute "praklinik_backend/internals/features/praklinik/route"
	userRoute "praklinik_backend/internals/features/users/route"
)

// SetupRoutes merangkai seluruh route aplikasi di bawah prefix /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Context())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"status": "degraded", "database": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up"})
	})

	api := app.Group("/api")
	mail := mailer.New()

	userRoute.UserRoutes(api, db, mail)
	academicRoute.AcademicRoutes(api, db)
	praklinikRoute.PraklinikRoutes(api, db)
}
