package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"praklinik_backend/internals/configs"
	"praklinik_backend/internals/databases"
	"praklinik_backend/internals/middlewares"
	"praklinik_backend/internals/route"

	helper "praklinik_backend/internals/helpers"
)

func main() {
	configs.LoadEnv()

	databases.ConnectDB()
	databases.TunePool()

	app := fiber.New(fiber.Config{
		AppName:      "Pra Klinik Backend",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})

	middlewares.SetupMiddlewares(app)
	route.SetupRoutes(app, databases.DB)

	// graceful shutdown: tunggu in-flight request selesai dulu
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Menerima sinyal shutdown...")
		if err := app.Shutdown(); err != nil {
			log.Printf("[ERROR] Shutdown tidak mulus: %v", err)
		}
	}()

	port := configs.GetEnv("PORT", "3000")
	log.Printf("🚀 Server jalan di port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("❌ Server berhenti: %v", err)
	}
}
