package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func EnrollmentRoutes(api fiber.Router) {
	enrollments := api.Group("/enrollments", middleware.Protected(), middleware.LearnerRequired())
	enrollments.Post("", handlers.CreateEnrollment)
	enrollments.Get("/me", handlers.GetMyEnrollments)
	enrollments.Post("/:enrollmentId/cancel", handlers.CancelEnrollment)
}
