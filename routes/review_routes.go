package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReviewRoutes(api fiber.Router) {
	reviews := api.Group("/reviews", middleware.Protected())
	reviews.Post("", middleware.LearnerRequired(), handlers.CreateReview)
	reviews.Get("/me", middleware.LearnerRequired(), handlers.GetMyReviews)
	reviews.Delete("/:reviewId", handlers.DeleteReview)
}
