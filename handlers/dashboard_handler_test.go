package handlers_test

import (
	"testing"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboards(t *testing.T) {
	c := newClient(t)
	tutor := testutil.CreateUser(t, models.RoleTutor, "tutor@example.com")
	learner := testutil.CreateUser(t, models.RoleLearner, "learner@example.com")
	course := testutil.CreateCourse(t, tutor, "Photography")
	enrollment := testutil.CreateEnrollment(t, learner, course, models.EnrollmentActive)
	require.NoError(t, database.DB.Model(&enrollment).Update("hours_completed", 3.5).Error)
	testutil.CreateBooking(t, learner, course, models.BookingPending, time.Now().Add(48*time.Hour))
	require.NoError(t, database.DB.Create(&models.ReviewRequest{
		TutorID: tutor.ID, StudentID: learner.ID, CourseID: course.ID, Status: models.ReviewRequestPending,
	}).Error)
	require.NoError(t, database.DB.Create(&models.Payment{
		LearnerID: learner.ID, TutorID: tutor.ID, EnrollmentID: &enrollment.ID,
		Amount: 100, Currency: "USD", Method: models.MethodCard, Status: models.PaymentCompleted,
	}).Error)

	status, resp := c.do("GET", "/api/v1/dashboard/learner", testutil.Token(t, learner), nil)
	require.Equal(t, fiber.StatusOK, status, resp.Error)
	var ld struct {
		Enrollments           map[string]int64 `json:"enrollments"`
		HoursLearned          float64          `json:"hours_learned"`
		UpcomingBookings      []models.Booking `json:"upcoming_bookings"`
		PendingReviewRequests int64            `json:"pending_review_requests"`
	}
	resp.decode(t, &ld)
	assert.Equal(t, int64(1), ld.Enrollments[models.EnrollmentActive])
	assert.InDelta(t, 3.5, ld.HoursLearned, 0.001)
	assert.Len(t, ld.UpcomingBookings, 1)
	assert.Equal(t, int64(1), ld.PendingReviewRequests)

	status, resp = c.do("GET", "/api/v1/dashboard/tutor", testutil.Token(t, tutor), nil)
	require.Equal(t, fiber.StatusOK, status, resp.Error)
	var td struct {
		Courses           int64            `json:"courses"`
		ActiveEnrollments int64            `json:"active_enrollments"`
		PendingBookings   int64            `json:"pending_bookings"`
		TotalEarnings     float64          `json:"total_earnings"`
		ReviewRequests    map[string]int64 `json:"review_requests"`
		MonthlyEarnings   []struct {
			Month  string  `json:"month"`
			Amount float64 `json:"amount"`
		} `json:"monthly_earnings"`
	}
	resp.decode(t, &td)
	assert.Equal(t, int64(1), td.Courses)
	assert.Equal(t, int64(1), td.ActiveEnrollments)
	assert.Equal(t, int64(1), td.PendingBookings)
	assert.InDelta(t, 85.0, td.TotalEarnings, 0.001)
	require.Len(t, td.MonthlyEarnings, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), td.MonthlyEarnings[0].Month)
	assert.Equal(t, int64(1), td.ReviewRequests[models.ReviewRequestPending])
}
