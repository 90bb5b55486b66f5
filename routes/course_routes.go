package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(api fiber.Router) {
	courses := api.Group("/courses")
	courses.Get("", handlers.ListCourses)
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Get("/:courseId/resources", middleware.Protected(), handlers.ListResources)
}
