package main

import (
	"log"

	"lingala/config"
	"lingala/database"
	authRoutes "lingala/routers/authRoutes"
	courseRoutes "lingala/routers/courseRoutes"
	lessonRoutes "lingala/routers/lessonRoutes"
	progressRoutes "lingala/routers/progressRoutes"
	subscriptionRoutes "lingala/routers/subscriptionRoutes"
	"lingala/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Stripe-Signature",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	lessonRoutes.SetupLessonRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	subscriptionRoutes.SetupSubscriptionRoutes(app)

	utils.InitializeSubscriptionScheduler()
	utils.InitializeTranscodeScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
