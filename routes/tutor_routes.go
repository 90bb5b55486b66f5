package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

// TutorRoutes registers the tutor's own workspace. Guards are attached per
// route: a group middleware on "/tutor" would also match "/tutors".
func TutorRoutes(api fiber.Router) {
	auth, tutorOnly := middleware.Protected(), middleware.TutorRequired()
	tutor := api.Group("/tutor")

	tutor.Get("/profile", auth, tutorOnly, handlers.GetMyTutorProfile)
	tutor.Put("/profile", auth, tutorOnly, handlers.UpdateMyTutorProfile)

	tutor.Get("/courses", auth, tutorOnly, handlers.ListMyCourses)
	tutor.Post("/courses", auth, tutorOnly, handlers.CreateCourse)
	tutor.Put("/courses/:courseId", auth, tutorOnly, handlers.UpdateCourse)
	tutor.Delete("/courses/:courseId", auth, tutorOnly, handlers.DeleteCourse)
	tutor.Post("/courses/:courseId/resources", auth, tutorOnly, handlers.UploadResource)

	tutor.Get("/enrollments", auth, tutorOnly, handlers.GetTutorEnrollments)
	tutor.Patch("/enrollments/:enrollmentId/progress", auth, tutorOnly, handlers.UpdateEnrollmentProgress)

	tutor.Get("/bookings", auth, tutorOnly, handlers.GetTutorBookings)
	tutor.Patch("/bookings/:bookingId/status", auth, tutorOnly, handlers.UpdateBookingStatus)
	tutor.Post("/bookings/:bookingId/complete", auth, tutorOnly, handlers.CompleteBooking)

	tutor.Get("/payments", auth, tutorOnly, handlers.GetTutorPayments)
	tutor.Get("/reviews", auth, tutorOnly, handlers.GetReceivedReviews)
}
