package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(api fiber.Router) {
	api.Get("/categories", handlers.ListCategories)
	api.Get("/currency/rate", handlers.GetConversionRate)

	api.Get("/tutors", handlers.ListTutors)
	api.Get("/tutors/:tutorId", handlers.GetTutor)
	api.Get("/tutors/:tutorId/reviews", handlers.GetTutorPublicReviews)
}
