package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReviewRequestRoutes(api fiber.Router) {
	requests := api.Group("/review-requests", middleware.Protected())
	requests.Post("", middleware.TutorRequired(), handlers.CreateReviewRequest)
	requests.Get("/sent", middleware.TutorRequired(), handlers.GetSentReviewRequests)
	requests.Get("/received", middleware.LearnerRequired(), handlers.GetReceivedReviewRequests)
	requests.Get("/:requestId", handlers.GetReviewRequest)
	requests.Post("/:requestId/respond", middleware.LearnerRequired(), handlers.RespondToReviewRequest)
	requests.Delete("/:requestId", middleware.TutorRequired(), handlers.DeleteReviewRequest)
}
