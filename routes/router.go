package routes

import (
	"errors"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	applogger "github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the HTTP application with every route registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "Skill Tutor",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     25 * 1024 * 1024,
		ErrorHandler:  errorHandler,
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.Config("CORS_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		MaxAge:       86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next:       func(*fiber.Ctx) bool { return config.Config("APP_ENV") == "test" },
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   config.Config("TIME_ZONE"),
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return utils.OK(c, nil, "Welcome to the Skill Tutor API")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return utils.OK(c, fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	AuthRoutes(api)
	UserRoutes(api)
	PublicRoutes(api)
	CourseRoutes(api)
	TutorRoutes(api)
	EnrollmentRoutes(api)
	BookingRoutes(api)
	PaymentRoutes(api)
	ReviewRoutes(api)
	ReviewRequestRoutes(api)
	DashboardRoutes(api)
	UploadRoutes(api)
	AdminRoutes(api)
	RealtimeRoutes(api)

	app.Use(func(c *fiber.Ctx) error {
		return utils.Fail(c, fiber.StatusNotFound, "Route not found")
	})
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		applogger.Report(err, map[string]interface{}{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		})
		return utils.Fail(c, code, "Internal server error")
	}
	return utils.Fail(c, code, err.Error())
}
