package routes

import (
	"github.com/anjiri1684/skill_tutor/handlers"
	"github.com/anjiri1684/skill_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(api fiber.Router) {
	api.Post("/payments/webhook", middleware.CallbackSecret("MPESA_CALLBACK_SECRET"), handlers.MpesaWebhook)

	auth, learnerOnly := middleware.Protected(), middleware.LearnerRequired()
	payments := api.Group("/payments")
	payments.Post("", auth, learnerOnly, handlers.CreatePayment)
	payments.Get("/me", auth, learnerOnly, handlers.GetMyPayments)
	payments.Post("/paypal/:paymentId/order", auth, learnerOnly, handlers.CreatePayPalOrder)
	payments.Post("/paypal/capture", auth, learnerOnly, handlers.CapturePayPalOrder)
}
