package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(api fiber.Router) {
	users := api.Group("/users", middleware.Protected())
	users.Get("/me", handlers.GetMe)
	users.Put("/me", handlers.UpdateMe)
	users.Put("/me/password", handlers.ChangePassword)
}
