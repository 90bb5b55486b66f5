package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router) {
	bookings := api.Group("/bookings", middleware.Protected(), middleware.LearnerRequired())
	bookings.Post("", handlers.CreateBooking)
	bookings.Get("/me", handlers.GetMyBookings)
	bookings.Post("/:bookingId/cancel", handlers.CancelBooking)
}
