package handlers

import (
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/payments"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/anjiri1684/skill_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	BookingID        *string `json:"booking_id" validate:"omitempty,uuid"`
	EnrollmentID     *string `json:"enrollment_id" validate:"omitempty,uuid"`
	Method           string  `json:"method" validate:"required,oneof=card paypal mpesa"`
	MpesaPhoneNumber string  `json:"mpesa_phone_number" validate:"required_if=Method mpesa"`
}

type CapturePayPalRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// paymentSettled tells the learner and tutor about a payment that reached a final state.
func paymentSettled(p *models.Payment) {
	event := "payment." + p.Status
	websocket.Notify(p.LearnerID, event, p)
	websocket.Notify(p.TutorID, event, p)

	if p.Status != models.PaymentCompleted {
		return
	}
	var learner models.User
	if err := database.DB.First(&learner, "id = ?", p.LearnerID).Error; err != nil {
		logger.Log.Warnw("Receipt not sent", "payment_id", p.ID, "error", err)
		return
	}
	subject, body := notifications.PaymentReceiptEmail(learner.FullName, p.Amount, p.Currency, p.Method)
	go notifications.SendEmail(learner.FullName, learner.Email, subject, body)
}

func CreatePayment(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req CreatePaymentRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	bookingID, err := parseOptionalUUID(req.BookingID)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid booking_id format")
	}
	enrollmentID, err := parseOptionalUUID(req.EnrollmentID)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid enrollment_id format")
	}
	if (bookingID == nil) == (enrollmentID == nil) {
		return utils.Fail(c, fiber.StatusBadRequest, "Provide exactly one of booking_id or enrollment_id")
	}

	payment, err := services.CreatePayment(learnerID, services.CreatePaymentInput{
		BookingID:    bookingID,
		EnrollmentID: enrollmentID,
		Method:       req.Method,
		MpesaPhone:   req.MpesaPhoneNumber,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	if payment.Status == models.PaymentCompleted {
		paymentSettled(payment)
	}
	return utils.Created(c, payment, "Payment created")
}

func CreatePayPalOrder(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	paymentID, ok, err := paramID(c, "paymentId")
	if !ok {
		return err
	}

	order, err := services.CreatePayPalOrderForPayment(paymentID, learnerID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, order, "PayPal order created")
}

func CapturePayPalOrder(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req CapturePayPalRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	payment, err := services.CapturePayPalPayment(req.OrderID, learnerID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	paymentSettled(payment)
	return utils.OK(c, payment, "Payment completed")
}

// MpesaWebhook receives the STK push result. KCB expects a 200 whatever the outcome.
func MpesaWebhook(c *fiber.Ctx) error {
	var cb payments.StkCallback
	if err := c.BodyParser(&cb); err != nil {
		logger.Log.Warnw("Unreadable M-Pesa callback", "error", err)
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse callback")
	}

	payment, err := services.HandleStkCallback(cb)
	if err != nil {
		logger.Log.Warnw("M-Pesa callback not applied",
			"merchant_request_id", cb.Body.StkCallback.MerchantRequestID, "error", err)
		return utils.OK(c, nil, "Callback received")
	}
	if payment.Status != models.PaymentPending {
		paymentSettled(payment)
	}
	return utils.OK(c, nil, "Callback received")
}

func GetMyPayments(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var list []models.Payment
	if err := database.DB.Where("learner_id = ?", learnerID).Order("created_at DESC").Find(&list).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list payments")
	}
	return utils.OK(c, list)
}

func GetTutorPayments(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var list []models.Payment
	if err := database.DB.Preload("Learner").Where("tutor_id = ?", tutorID).Order("created_at DESC").Find(&list).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list payments")
	}

	var gross, net float64
	for _, p := range list {
		if p.Status == models.PaymentCompleted {
			gross += p.Amount
			net += services.TutorShare(p.Amount)
		}
	}
	return utils.OK(c, fiber.Map{
		"payments":     list,
		"total_gross":  gross,
		"total_earned": net,
	})
}

func AdminListPayments(c *fiber.Ctx) error {
	page := utils.Paginate(c)
	query := database.DB.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if method := c.Query("method"); method != "" {
		query = query.Where("method = ?", method)
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&page.Total).Error; err != nil {
		return utils.ServerError(c, err, "Failed to count payments")
	}
	var list []models.Payment
	if err := query.Preload("Learner").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.Limit).Find(&list).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list payments")
	}
	return utils.OK(c, utils.Page{Items: list, Pagination: page})
}

func AdminRefundPayment(c *fiber.Ctx) error {
	paymentID, ok, err := paramID(c, "paymentId")
	if !ok {
		return err
	}
	var req RefundRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	payment, err := services.RefundPayment(paymentID, req.Reason)
	if err != nil {
		return utils.HandleError(c, err)
	}
	paymentSettled(payment)
	return utils.OK(c, payment, "Payment refunded")
}
