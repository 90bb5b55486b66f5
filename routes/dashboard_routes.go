package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(api fiber.Router) {
	dashboard := api.Group("/dashboard", middleware.Protected())
	dashboard.Get("/learner", middleware.LearnerRequired(), handlers.GetLearnerDashboard)
	dashboard.Get("/tutor", middleware.TutorRequired(), handlers.GetTutorDashboard)
}
