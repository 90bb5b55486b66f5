package services

import (
	"errors"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/payments"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Provider calls, swappable in tests.
var (
	createPayPalOrder  = payments.CreatePayPalOrder
	capturePayPalOrder = payments.CapturePayPalOrder
	initiateSTKPush    = payments.InitiateMpesaSTKPush
	convertToKES       = ConvertToKES
)

type CreatePaymentInput struct {
	BookingID    *uuid.UUID
	EnrollmentID *uuid.UUID
	Method       string
	MpesaPhone   string
}

// openPayments rejects a new payment while another one for the same item is
// completed or still pending. Pending payments older than PAYMENT_PENDING_TTL
// are treated as abandoned and failed.
func openPayments(db *gorm.DB, column string, id uuid.UUID) error {
	var existing []models.Payment
	if err := db.Select("id", "status", "created_at").
		Where(column+" = ? AND status IN ?", id, []string{models.PaymentPending, models.PaymentCompleted}).
		Find(&existing).Error; err != nil {
		return err
	}
	cutoff := time.Now().UTC().Add(-config.Duration("PAYMENT_PENDING_TTL"))
	for _, e := range existing {
		switch {
		case e.Status == models.PaymentCompleted:
			return utils.Conflict("Already paid")
		case e.CreatedAt.Before(cutoff):
			if err := db.Model(&models.Payment{}).
				Where("id = ? AND status = ?", e.ID, models.PaymentPending).
				Update("status", models.PaymentFailed).Error; err != nil {
				return err
			}
		default:
			return utils.Conflict("A payment for this item is already pending")
		}
	}
	return nil
}

// payable resolves what is being paid for and checks it can still be paid.
func payable(db *gorm.DB, learnerID uuid.UUID, in CreatePaymentInput) (models.Payment, error) {
	p := models.Payment{LearnerID: learnerID, Method: in.Method, Status: models.PaymentPending}

	switch {
	case in.BookingID != nil:
		var booking models.Booking
		if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", *in.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return p, utils.NotFound("Booking not found")
			}
			return p, err
		}
		if booking.LearnerID != learnerID {
			return p, utils.Forbidden("You can only pay for your own bookings")
		}
		if booking.Status != models.BookingAccepted {
			return p, utils.Conflict("Booking must be accepted before payment")
		}
		if err := openPayments(db, "booking_id", booking.ID); err != nil {
			return p, err
		}
		p.BookingID = &booking.ID
		p.TutorID = booking.TutorID
		p.Amount = booking.Price
		p.Currency = booking.Currency
	case in.EnrollmentID != nil:
		var enrollment models.Enrollment
		if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Course").First(&enrollment, "id = ?", *in.EnrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return p, utils.NotFound("Enrollment not found")
			}
			return p, err
		}
		if enrollment.LearnerID != learnerID {
			return p, utils.Forbidden("You can only pay for your own enrollments")
		}
		if enrollment.Status != models.EnrollmentPendingPayment {
			return p, utils.Conflict("Enrollment is not awaiting payment")
		}
		if err := openPayments(db, "enrollment_id", enrollment.ID); err != nil {
			return p, err
		}
		p.EnrollmentID = &enrollment.ID
		p.TutorID = enrollment.Course.TutorID
		p.Amount = enrollment.Course.FullCourseRate
		p.Currency = enrollment.Course.Currency
	default:
		return p, utils.BadRequest("Either booking_id or enrollment_id is required")
	}

	if p.Amount <= 0 {
		return p, utils.BadRequest("Nothing to pay")
	}
	return p, nil
}

// CreatePayment starts a payment. Card payments complete immediately, PayPal
// waits for order capture and M-Pesa for the STK callback.
func CreatePayment(learnerID uuid.UUID, in CreatePaymentInput) (*models.Payment, error) {
	db := database.DB
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if payment, err = payable(tx, learnerID, in); err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	switch in.Method {
	case models.MethodCard:
		txn := "card_" + payment.ID.String()
		if err := CompletePayment(payment.ID, txn); err != nil {
			return nil, err
		}
		payment.Status = models.PaymentCompleted
		payment.ProviderTxnID = &txn
	case models.MethodMpesa:
		kes, err := convertToKES(payment.Amount, payment.Currency)
		if err == nil {
			var stk *payments.StkPushResponse
			stk, err = initiateSTKPush(kes, in.MpesaPhone, payment.ID.String())
			if err == nil {
				mrid := stk.Response.MerchantRequestID
				payment.MerchantRequestID = &mrid
				err = db.Model(&payment).Update("merchant_request_id", mrid).Error
			}
		}
		if err != nil {
			_ = FailPayment(payment.ID)
			return nil, utils.NewError(fiber.StatusBadGateway, "Failed to initiate M-Pesa payment: "+err.Error())
		}
	}
	return &payment, nil
}

// CompletePayment marks a pending payment completed and activates the
// enrollment it pays for.
func CompletePayment(paymentID uuid.UUID, providerTxnID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentPending).
			Updates(map[string]interface{}{"status": models.PaymentCompleted, "provider_txn_id": providerTxnID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Payment is not pending")
		}

		if payment.EnrollmentID != nil {
			return tx.Model(&models.Enrollment{}).
				Where("id = ? AND status = ?", *payment.EnrollmentID, models.EnrollmentPendingPayment).
				Update("status", models.EnrollmentActive).Error
		}
		return nil
	})
}

func FailPayment(paymentID uuid.UUID) error {
	return database.DB.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentPending).
		Update("status", models.PaymentFailed).Error
}

func loadOwnPendingPayment(paymentID, learnerID uuid.UUID, method string) (*models.Payment, error) {
	var payment models.Payment
	if err := database.DB.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Payment not found")
		}
		return nil, err
	}
	if payment.LearnerID != learnerID {
		return nil, utils.Forbidden("You can only manage your own payments")
	}
	if payment.Method != method {
		return nil, utils.BadRequest("Payment method mismatch")
	}
	if payment.Status != models.PaymentPending {
		return nil, utils.Conflict("Payment is not pending")
	}
	return &payment, nil
}

// CreatePayPalOrderForPayment opens a PayPal order for a pending PayPal payment.
func CreatePayPalOrderForPayment(paymentID, learnerID uuid.UUID) (*payments.PayPalOrder, error) {
	payment, err := loadOwnPendingPayment(paymentID, learnerID, models.MethodPayPal)
	if err != nil {
		return nil, err
	}
	order, err := createPayPalOrder(payment.Amount, payment.Currency)
	if err != nil {
		return nil, utils.NewError(fiber.StatusBadGateway, "Failed to create PayPal order")
	}
	if err := database.DB.Model(payment).Update("provider_order_id", order.ID).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CapturePayPalPayment captures the order and completes the matching payment.
func CapturePayPalPayment(orderID string, learnerID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := database.DB.First(&payment, "provider_order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Payment not found for this order")
		}
		return nil, err
	}
	if payment.LearnerID != learnerID {
		return nil, utils.Forbidden("You can only manage your own payments")
	}
	if payment.Status != models.PaymentPending {
		return nil, utils.Conflict("Payment is not pending")
	}

	order, err := capturePayPalOrder(orderID)
	if err != nil {
		return nil, utils.NewError(fiber.StatusBadGateway, "Failed to capture PayPal order")
	}
	if order.Status != "COMPLETED" {
		_ = FailPayment(payment.ID)
		return nil, utils.NewError(fiber.StatusPaymentRequired, "PayPal payment was not completed")
	}
	if err := CompletePayment(payment.ID, order.ID); err != nil {
		return nil, err
	}
	return reloadPayment(payment.ID)
}

// HandleStkCallback settles the payment identified by the callback's merchant request id.
func HandleStkCallback(cb payments.StkCallback) (*models.Payment, error) {
	mrid := cb.Body.StkCallback.MerchantRequestID
	var payment models.Payment
	if err := database.DB.First(&payment, "merchant_request_id = ?", mrid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Payment not found for this request")
		}
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return &payment, nil
	}

	if cb.Body.StkCallback.ResultCode != 0 {
		if err := FailPayment(payment.ID); err != nil {
			return nil, err
		}
		return reloadPayment(payment.ID)
	}

	receipt := cb.ReceiptNumber()
	if receipt == "" {
		receipt = cb.Body.StkCallback.CheckoutRequestID
	}
	if err := CompletePayment(payment.ID, receipt); err != nil {
		return nil, err
	}
	return reloadPayment(payment.ID)
}

// RefundPayment reverses a completed payment. A paid enrollment is cancelled;
// tutor credit for a completed booking is taken back.
func RefundPayment(paymentID uuid.UUID, reason string) (*models.Payment, error) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Payment not found")
			}
			return err
		}
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentCompleted).
			Updates(map[string]interface{}{"status": models.PaymentRefunded, "refund_reason": reason})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Only completed payments can be refunded")
		}

		if payment.EnrollmentID != nil {
			if err := tx.Model(&models.Enrollment{}).
				Where("id = ? AND status IN ?", *payment.EnrollmentID, []string{models.EnrollmentActive, models.EnrollmentPendingPayment}).
				Update("status", models.EnrollmentCancelled).Error; err != nil {
				return err
			}
		}
		if payment.BookingID != nil {
			var completed int64
			if err := tx.Model(&models.Booking{}).
				Where("id = ? AND status = ?", *payment.BookingID, models.BookingCompleted).
				Count(&completed).Error; err != nil {
				return err
			}
			if completed > 0 {
				return tx.Model(&models.Tutor{}).Where("user_id = ?", payment.TutorID).
					UpdateColumn("balance", gorm.Expr("balance - ?", TutorShare(payment.Amount))).Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reloadPayment(paymentID)
}

func reloadPayment(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := database.DB.First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
