package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(api fiber.Router) {
	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard", handlers.GetAdminDashboard)

	users := admin.Group("/users")
	users.Get("", handlers.AdminListUsers)
	users.Get("/:userId", handlers.AdminGetUser)
	users.Patch("/:userId/status", handlers.AdminSetUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	categories := admin.Group("/categories")
	categories.Post("", handlers.CreateCategory)
	categories.Put("/:categoryId", handlers.UpdateCategory)
	categories.Delete("/:categoryId", handlers.DeleteCategory)

	admin.Get("/payments", handlers.AdminListPayments)
	admin.Post("/payments/:paymentId/refund", handlers.AdminRefundPayment)

	admin.Patch("/reviews/:reviewId/status", handlers.AdminSetReviewStatus)
}
