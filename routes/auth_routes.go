package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)
	auth.Get("/me", middleware.Protected(), handlers.GetMe)
}
