package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/payments"
	"github.com/anjiri1684/skill_tutor/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	tutor, learner models.User
	course         models.Course
}

func newPaymentFixture(t *testing.T) paymentFixture {
	testutil.OpenTestDB(t)
	tutor := testutil.CreateUser(t, models.RoleTutor, "tutor@example.com")
	learner := testutil.CreateUser(t, models.RoleLearner, "learner@example.com")
	return paymentFixture{tutor: tutor, learner: learner, course: testutil.CreateCourse(t, tutor, "French")}
}

func stubProviders(t *testing.T) {
	origCreate, origCapture, origSTK, origKES := createPayPalOrder, capturePayPalOrder, initiateSTKPush, convertToKES
	t.Cleanup(func() {
		createPayPalOrder, capturePayPalOrder, initiateSTKPush, convertToKES = origCreate, origCapture, origSTK, origKES
	})
	createPayPalOrder = func(amount float64, currency string) (*payments.PayPalOrder, error) {
		return &payments.PayPalOrder{ID: "ORDER-1", Status: "CREATED"}, nil
	}
	capturePayPalOrder = func(orderID string) (*payments.PayPalOrder, error) {
		return &payments.PayPalOrder{ID: orderID, Status: "COMPLETED"}, nil
	}
	convertToKES = func(amount float64, currency string) (float64, error) { return amount * 130, nil }
	initiateSTKPush = func(amount float64, phone, ref string) (*payments.StkPushResponse, error) {
		resp := &payments.StkPushResponse{}
		resp.Response.MerchantRequestID = "MR-" + ref
		return resp, nil
	}
}

func TestCardPaymentActivatesEnrollment(t *testing.T) {
	f := newPaymentFixture(t)
	e := testutil.CreateEnrollment(t, f.learner, f.course, models.EnrollmentPendingPayment)

	p, err := CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodCard})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, 200.0, p.Amount)
	assert.Equal(t, f.tutor.ID, p.TutorID)

	var stored models.Enrollment
	require.NoError(t, database.DB.First(&stored, "id = ?", e.ID).Error)
	assert.Equal(t, models.EnrollmentActive, stored.Status)

	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodCard})
	assertStatus(t, err, fiber.StatusConflict)
}

func TestBookingPaymentRules(t *testing.T) {
	f := newPaymentFixture(t)
	pending := testutil.CreateBooking(t, f.learner, f.course, models.BookingPending, time.Now().Add(24*time.Hour))
	accepted := testutil.CreateBooking(t, f.learner, f.course, models.BookingAccepted, time.Now().Add(48*time.Hour))
	stranger := testutil.CreateUser(t, models.RoleLearner, "stranger@example.com")

	_, err := CreatePayment(f.learner.ID, CreatePaymentInput{BookingID: &pending.ID, Method: models.MethodCard})
	assertStatus(t, err, fiber.StatusConflict)

	_, err = CreatePayment(stranger.ID, CreatePaymentInput{BookingID: &accepted.ID, Method: models.MethodCard})
	assertStatus(t, err, fiber.StatusForbidden)

	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{Method: models.MethodCard})
	assertStatus(t, err, fiber.StatusBadRequest)

	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{BookingID: &accepted.ID, Method: models.MethodCard})
	require.NoError(t, err)

	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{BookingID: &accepted.ID, Method: models.MethodCard})
	assertStatus(t, err, fiber.StatusConflict)
}

func TestPayPalFlow(t *testing.T) {
	stubProviders(t)
	f := newPaymentFixture(t)
	e := testutil.CreateEnrollment(t, f.learner, f.course, models.EnrollmentPendingPayment)

	p, err := CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodPayPal})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)

	order, err := CreatePayPalOrderForPayment(p.ID, f.learner.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", order.ID)

	captured, err := CapturePayPalPayment("ORDER-1", f.learner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, captured.Status)

	_, err = CapturePayPalPayment("ORDER-1", f.learner.ID)
	assertStatus(t, err, fiber.StatusConflict)
}

func TestMpesaFlow(t *testing.T) {
	stubProviders(t)
	f := newPaymentFixture(t)
	e := testutil.CreateEnrollment(t, f.learner, f.course, models.EnrollmentPendingPayment)

	p, err := CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodMpesa, MpesaPhone: "0712345678"})
	require.NoError(t, err)
	require.NotNil(t, p.MerchantRequestID)

	var cb payments.StkCallback
	cb.Body.StkCallback.MerchantRequestID = *p.MerchantRequestID
	cb.Body.StkCallback.CheckoutRequestID = "CHK-1"

	settled, err := HandleStkCallback(cb)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, settled.Status)
	assert.Equal(t, "CHK-1", *settled.ProviderTxnID)

	again, err := HandleStkCallback(cb)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, again.Status)
}

func TestMpesaFailureMarksPaymentFailed(t *testing.T) {
	stubProviders(t)
	initiateSTKPush = func(float64, string, string) (*payments.StkPushResponse, error) {
		return nil, errors.New("gateway down")
	}
	f := newPaymentFixture(t)
	e := testutil.CreateEnrollment(t, f.learner, f.course, models.EnrollmentPendingPayment)

	_, err := CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodMpesa, MpesaPhone: "0712345678"})
	assertStatus(t, err, fiber.StatusBadGateway)

	var p models.Payment
	require.NoError(t, database.DB.First(&p).Error)
	assert.Equal(t, models.PaymentFailed, p.Status)

	stubProviders(t)
	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodMpesa, MpesaPhone: "0712345678"})
	require.NoError(t, err, "a failed attempt does not block a retry")
}

func TestPendingPaymentBlocksDuplicates(t *testing.T) {
	stubProviders(t)
	f := newPaymentFixture(t)
	e := testutil.CreateEnrollment(t, f.learner, f.course, models.EnrollmentPendingPayment)
	booking := testutil.CreateBooking(t, f.learner, f.course, models.BookingAccepted, time.Now().Add(24*time.Hour))

	first, err := CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodPayPal})
	require.NoError(t, err)

	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodPayPal})
	assertStatus(t, err, fiber.StatusConflict)
	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodMpesa, MpesaPhone: "0712345678"})
	assertStatus(t, err, fiber.StatusConflict)

	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{BookingID: &booking.ID, Method: models.MethodPayPal})
	require.NoError(t, err)
	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{BookingID: &booking.ID, Method: models.MethodCard})
	assertStatus(t, err, fiber.StatusConflict)

	var count int64
	require.NoError(t, database.DB.Model(&models.Payment{}).Where("enrollment_id = ?", e.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// An abandoned attempt stops blocking once it is older than the pending window.
	require.NoError(t, database.DB.Model(&models.Payment{}).Where("id = ?", first.ID).
		UpdateColumn("created_at", time.Now().UTC().Add(-2*time.Hour)).Error)
	_, err = CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodPayPal})
	require.NoError(t, err)

	var stale models.Payment
	require.NoError(t, database.DB.First(&stale, "id = ?", first.ID).Error)
	assert.Equal(t, models.PaymentFailed, stale.Status)
}

func TestRefundPayment(t *testing.T) {
	f := newPaymentFixture(t)
	e := testutil.CreateEnrollment(t, f.learner, f.course, models.EnrollmentPendingPayment)
	p, err := CreatePayment(f.learner.ID, CreatePaymentInput{EnrollmentID: &e.ID, Method: models.MethodCard})
	require.NoError(t, err)

	refunded, err := RefundPayment(p.ID, "Course cancelled")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, refunded.Status)

	var stored models.Enrollment
	require.NoError(t, database.DB.First(&stored, "id = ?", e.ID).Error)
	assert.Equal(t, models.EnrollmentCancelled, stored.Status)

	_, err = RefundPayment(p.ID, "again")
	assertStatus(t, err, fiber.StatusConflict)
}
