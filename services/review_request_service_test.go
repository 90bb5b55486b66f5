package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/testutil"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status, appErr.Message)
}

type reviewFixture struct {
	tutor, student models.User
	course         models.Course
}

func newReviewFixture(t *testing.T) reviewFixture {
	testutil.OpenTestDB(t)
	tutor := testutil.CreateUser(t, models.RoleTutor, "tutor@example.com")
	student := testutil.CreateUser(t, models.RoleLearner, "student@example.com")
	course := testutil.CreateCourse(t, tutor, "Guitar Basics")
	testutil.CreateEnrollment(t, student, course, models.EnrollmentActive)
	return reviewFixture{tutor: tutor, student: student, course: course}
}

func (f reviewFixture) input() CreateReviewRequestInput {
	return CreateReviewRequestInput{TutorID: f.tutor.ID, StudentID: f.student.ID, CourseID: f.course.ID}
}

func TestCreateReviewRequest(t *testing.T) {
	f := newReviewFixture(t)

	req, created, err := CreateReviewRequest(f.input())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.ReviewRequestPending, req.Status)

	_, _, err = CreateReviewRequest(f.input())
	assertStatus(t, err, fiber.StatusConflict)
}

func TestCreateReviewRequestValidation(t *testing.T) {
	f := newReviewFixture(t)
	other := testutil.CreateUser(t, models.RoleTutor, "other@example.com")
	stranger := testutil.CreateUser(t, models.RoleLearner, "stranger@example.com")
	foreignBooking := testutil.CreateBooking(t, stranger, f.course, models.BookingCompleted, time.Now().Add(-48*time.Hour))

	tests := []struct {
		name   string
		mutate func(in *CreateReviewRequestInput)
		want   int
	}{
		{"unknown course", func(in *CreateReviewRequestInput) { in.CourseID = uuid.New() }, fiber.StatusNotFound},
		{"not the course owner", func(in *CreateReviewRequestInput) { in.TutorID = other.ID }, fiber.StatusForbidden},
		{"unknown student", func(in *CreateReviewRequestInput) { in.StudentID = uuid.New() }, fiber.StatusBadRequest},
		{"student is a tutor", func(in *CreateReviewRequestInput) { in.StudentID = other.ID }, fiber.StatusBadRequest},
		{"student with a completed booking", func(in *CreateReviewRequestInput) { in.StudentID = stranger.ID }, fiber.StatusCreated},
		{"booking of someone else", func(in *CreateReviewRequestInput) { in.BookingID = &foreignBooking.ID }, fiber.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input()
			tc.mutate(&in)
			_, _, err := CreateReviewRequest(in)
			if tc.want == fiber.StatusCreated {
				require.NoError(t, err)
				return
			}
			assertStatus(t, err, tc.want)
		})
	}
}

func TestCreateReviewRequestRequiresRelationship(t *testing.T) {
	f := newReviewFixture(t)
	outsider := testutil.CreateUser(t, models.RoleLearner, "outsider@example.com")
	testutil.CreateBooking(t, outsider, f.course, models.BookingRejected, time.Now().Add(24*time.Hour))

	in := f.input()
	in.StudentID = outsider.ID
	_, _, err := CreateReviewRequest(in)
	assertStatus(t, err, fiber.StatusBadRequest)
}

func TestRespondToReviewRequest(t *testing.T) {
	f := newReviewFixture(t)
	req, _, err := CreateReviewRequest(f.input())
	require.NoError(t, err)

	_, _, err = RespondToReviewRequest(req.ID, f.tutor.ID, RespondInput{Rating: 5})
	assertStatus(t, err, fiber.StatusForbidden)

	review, updated, err := RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 4, Comment: "Great teacher"})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewRequestResponded, updated.Status)
	require.NotNil(t, updated.ReviewID)
	assert.Equal(t, review.ID, *updated.ReviewID)
	assert.NotNil(t, updated.RespondedAt)

	var tutor models.Tutor
	require.NoError(t, database.DB.First(&tutor, "user_id = ?", f.tutor.ID).Error)
	assert.InDelta(t, 4.0, tutor.AvgRating, 0.001)
	assert.Equal(t, 1, tutor.TotalReviews)

	_, _, err = RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 3})
	assertStatus(t, err, fiber.StatusConflict)

	_, _, err = CreateReviewRequest(f.input())
	assertStatus(t, err, fiber.StatusConflict)

	_, _, err = RespondToReviewRequest(uuid.New(), f.student.ID, RespondInput{Rating: 3})
	assertStatus(t, err, fiber.StatusNotFound)
}

func TestDeletedReviewReopensRequest(t *testing.T) {
	f := newReviewFixture(t)
	req, _, err := CreateReviewRequest(f.input())
	require.NoError(t, err)
	review, _, err := RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 2})
	require.NoError(t, err)

	require.NoError(t, DeleteReview(review.ID, f.student.ID, false))

	var reopened models.ReviewRequest
	require.NoError(t, database.DB.First(&reopened, "id = ?", req.ID).Error)
	assert.Equal(t, models.ReviewRequestPending, reopened.Status)
	assert.Nil(t, reopened.ReviewID)

	var tutor models.Tutor
	require.NoError(t, database.DB.First(&tutor, "user_id = ?", f.tutor.ID).Error)
	assert.Equal(t, 0, tutor.TotalReviews)
	assert.Zero(t, tutor.AvgRating)

	_, _, err = RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 5})
	require.NoError(t, err)
}

func TestCreateReopensRespondedRequestWithDeletedReview(t *testing.T) {
	f := newReviewFixture(t)
	req, _, err := CreateReviewRequest(f.input())
	require.NoError(t, err)
	review, _, err := RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 5})
	require.NoError(t, err)

	// Remove the review behind the service's back, leaving the request stale.
	require.NoError(t, database.DB.Delete(&models.Review{}, "id = ?", review.ID).Error)

	msg := "Please review again"
	in := f.input()
	in.Message = &msg
	reopened, created, err := CreateReviewRequest(in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, req.ID, reopened.ID)
	assert.Equal(t, models.ReviewRequestPending, reopened.Status)
	require.NotNil(t, reopened.Message)
	assert.Equal(t, msg, *reopened.Message)
}

func TestReconcileReviewRequests(t *testing.T) {
	f := newReviewFixture(t)
	req, _, err := CreateReviewRequest(f.input())
	require.NoError(t, err)
	review, _, err := RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 5})
	require.NoError(t, err)

	var rows []models.ReviewRequest
	require.NoError(t, database.DB.Find(&rows).Error)
	require.NoError(t, ReconcileReviewRequests(database.DB, rows))
	assert.Equal(t, models.ReviewRequestResponded, rows[0].Status)

	require.NoError(t, database.DB.Delete(&models.Review{}, "id = ?", review.ID).Error)
	require.NoError(t, ReconcileReviewRequests(database.DB, rows))
	assert.Equal(t, models.ReviewRequestPending, rows[0].Status)
	assert.Nil(t, rows[0].ReviewID)

	var stored models.ReviewRequest
	require.NoError(t, database.DB.First(&stored, "id = ?", req.ID).Error)
	assert.Equal(t, models.ReviewRequestPending, stored.Status)
}

func TestDeleteReviewRequest(t *testing.T) {
	f := newReviewFixture(t)
	req, _, err := CreateReviewRequest(f.input())
	require.NoError(t, err)

	assertStatus(t, DeleteReviewRequest(req.ID, f.student.ID), fiber.StatusForbidden)

	_, _, err = RespondToReviewRequest(req.ID, f.student.ID, RespondInput{Rating: 5})
	require.NoError(t, err)
	assertStatus(t, DeleteReviewRequest(req.ID, f.tutor.ID), fiber.StatusConflict)

	second := testutil.CreateUser(t, models.RoleLearner, "second@example.com")
	testutil.CreateEnrollment(t, second, f.course, models.EnrollmentPendingPayment)
	in := f.input()
	in.StudentID = second.ID
	pending, _, err := CreateReviewRequest(in)
	require.NoError(t, err)
	require.NoError(t, DeleteReviewRequest(pending.ID, f.tutor.ID))
	assertStatus(t, DeleteReviewRequest(pending.ID, f.tutor.ID), fiber.StatusNotFound)
}

func TestCreateReviewRequestLosesInsertRace(t *testing.T) {
	f := newReviewFixture(t)

	// Another request for the same pair lands after the lookup but before the insert.
	racing := true
	require.NoError(t, database.DB.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if !racing || tx.Statement.Table != "review_requests" {
			return
		}
		racing = false
		require.NoError(t, database.DB.Create(&models.ReviewRequest{
			TutorID: f.tutor.ID, StudentID: f.student.ID, CourseID: f.course.ID, Status: models.ReviewRequestPending,
		}).Error)
	}))

	_, _, err := CreateReviewRequest(f.input())
	assertStatus(t, err, fiber.StatusConflict)
	assert.False(t, racing)

	var count int64
	require.NoError(t, database.DB.Model(&models.ReviewRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
