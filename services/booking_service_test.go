package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteBookingPrice(t *testing.T) {
	course := models.Course{TrialRate: 12.5}
	assert.Equal(t, 12.5, QuoteBookingPrice(course, 40, models.BookingTypeTrial, 90))
	assert.Equal(t, 60.0, QuoteBookingPrice(course, 40, models.BookingTypeSession, 90))
	assert.Equal(t, 13.33, QuoteBookingPrice(course, 40, models.BookingTypeSession, 20))
}

func TestTutorShare(t *testing.T) {
	t.Setenv("PLATFORM_COMMISSION_RATE", "0.2")
	assert.Equal(t, 80.0, TutorShare(100))
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	hour := time.Hour
	assert.True(t, overlaps(base, base.Add(hour), base.Add(30*time.Minute), base.Add(2*hour)))
	assert.False(t, overlaps(base, base.Add(hour), base.Add(hour), base.Add(2*hour)))
	assert.False(t, overlaps(base.Add(2*hour), base.Add(3*hour), base, base.Add(hour)))
}

type bookingFixture struct {
	tutor, learner models.User
	course         models.Course
}

func newBookingFixture(t *testing.T) bookingFixture {
	testutil.OpenTestDB(t)
	tutor := testutil.CreateUser(t, models.RoleTutor, "tutor@example.com")
	learner := testutil.CreateUser(t, models.RoleLearner, "learner@example.com")
	return bookingFixture{tutor: tutor, learner: learner, course: testutil.CreateCourse(t, tutor, "Piano")}
}

func tomorrowAt(hour int) time.Time {
	d := time.Now().UTC().Add(48 * time.Hour)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func TestCreateBookingPricesAndLimitsTrials(t *testing.T) {
	f := newBookingFixture(t)

	session, err := CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: f.course.ID, SessionDate: tomorrowAt(9), DurationMinutes: 90, BookingType: models.BookingTypeSession,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, session.Status)
	assert.Equal(t, 60.0, session.Price)
	assert.Equal(t, f.tutor.ID, session.TutorID)

	trial, err := CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: f.course.ID, SessionDate: tomorrowAt(12), DurationMinutes: 30, BookingType: models.BookingTypeTrial,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, trial.Price)

	_, err = CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: f.course.ID, SessionDate: tomorrowAt(15), DurationMinutes: 30, BookingType: models.BookingTypeTrial,
	})
	assertStatus(t, err, fiber.StatusConflict)

	_, err = CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: f.course.ID, SessionDate: time.Now().Add(-time.Hour), DurationMinutes: 30, BookingType: models.BookingTypeSession,
	})
	assertStatus(t, err, fiber.StatusBadRequest)

	_, err = CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: uuid.New(), SessionDate: tomorrowAt(9), DurationMinutes: 30, BookingType: models.BookingTypeSession,
	})
	assertStatus(t, err, fiber.StatusNotFound)
}

func TestCreateBookingRejectsOverlapWithAccepted(t *testing.T) {
	f := newBookingFixture(t)
	testutil.CreateBooking(t, f.learner, f.course, models.BookingAccepted, tomorrowAt(10))

	_, err := CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: f.course.ID, SessionDate: tomorrowAt(10).Add(30 * time.Minute), DurationMinutes: 60, BookingType: models.BookingTypeSession,
	})
	assertStatus(t, err, fiber.StatusConflict)

	_, err = CreateBooking(f.learner.ID, CreateBookingInput{
		CourseID: f.course.ID, SessionDate: tomorrowAt(11), DurationMinutes: 60, BookingType: models.BookingTypeSession,
	})
	require.NoError(t, err)
}

func TestDecideBookingTransitions(t *testing.T) {
	f := newBookingFixture(t)
	b := testutil.CreateBooking(t, f.learner, f.course, models.BookingPending, tomorrowAt(10))

	_, err := DecideBooking(f.learner.ID, b.ID, BookingDecision{Status: models.BookingAccepted})
	assertStatus(t, err, fiber.StatusForbidden)

	link := "https://meet.example.com/abc"
	accepted, err := DecideBooking(f.tutor.ID, b.ID, BookingDecision{Status: models.BookingAccepted, MeetingLink: &link})
	require.NoError(t, err)
	assert.Equal(t, models.BookingAccepted, accepted.Status)
	require.NotNil(t, accepted.MeetingLink)
	assert.Equal(t, link, *accepted.MeetingLink)

	_, err = DecideBooking(f.tutor.ID, b.ID, BookingDecision{Status: models.BookingRejected})
	assertStatus(t, err, fiber.StatusConflict)

	clash := testutil.CreateBooking(t, f.learner, f.course, models.BookingPending, tomorrowAt(10))
	_, err = DecideBooking(f.tutor.ID, clash.ID, BookingDecision{Status: models.BookingAccepted})
	assertStatus(t, err, fiber.StatusConflict)

	reason := "Double booked"
	rejected, err := DecideBooking(f.tutor.ID, clash.ID, BookingDecision{Status: models.BookingRejected, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, rejected.Status)
	assert.Equal(t, reason, *rejected.RejectionReason)
}

func TestCompleteBookingCreditsTutor(t *testing.T) {
	t.Setenv("PLATFORM_COMMISSION_RATE", "0.15")
	f := newBookingFixture(t)

	future := testutil.CreateBooking(t, f.learner, f.course, models.BookingAccepted, tomorrowAt(10))
	_, err := CompleteBooking(f.tutor.ID, future.ID)
	assertStatus(t, err, fiber.StatusBadRequest)

	past := testutil.CreateBooking(t, f.learner, f.course, models.BookingAccepted, time.Now().Add(-3*time.Hour))
	require.NoError(t, database.DB.Create(&models.Payment{
		LearnerID: f.learner.ID, TutorID: f.tutor.ID, BookingID: &past.ID,
		Amount: 40, Currency: "USD", Method: models.MethodCard, Status: models.PaymentCompleted,
	}).Error)

	done, err := CompleteBooking(f.tutor.ID, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, done.Status)

	var tutor models.Tutor
	require.NoError(t, database.DB.First(&tutor, "user_id = ?", f.tutor.ID).Error)
	assert.InDelta(t, 34.0, tutor.Balance, 0.001)

	_, err = CompleteBooking(f.tutor.ID, past.ID)
	assertStatus(t, err, fiber.StatusConflict)
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	b := testutil.CreateBooking(t, f.learner, f.course, models.BookingAccepted, tomorrowAt(10))

	_, err := CancelBooking(f.tutor.ID, b.ID)
	assertStatus(t, err, fiber.StatusForbidden)

	cancelled, err := CancelBooking(f.learner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	_, err = CancelBooking(f.learner.ID, b.ID)
	assertStatus(t, err, fiber.StatusConflict)
}
