// Package testutil wires an in-memory sqlite database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	JWTSecret = "test-secret"
	Password  = "password123"
)

// OpenTestDB points database.DB at a fresh, migrated in-memory database for
// the duration of the test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", JWTSecret)
	t.Setenv("CLOUDINARY_URL", "")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	require.NoError(t, database.Migrate())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		database.DB = prev
	})
	return db
}

var hashed string

func passwordHash(t *testing.T) string {
	if hashed == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
		require.NoError(t, err)
		hashed = string(h)
	}
	return hashed
}

func CreateUser(t *testing.T, role, email string) models.User {
	t.Helper()
	user := models.User{
		FullName: strings.Split(email, "@")[0],
		Email:    email,
		Password: passwordHash(t),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	if role == models.RoleTutor {
		require.NoError(t, database.DB.Create(&models.Tutor{UserID: user.ID, HourlyRate: 40}).Error)
	}
	return user
}

func Token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func CreateCategory(t *testing.T, name string) models.CourseCategory {
	t.Helper()
	cat := models.CourseCategory{Name: name}
	require.NoError(t, database.DB.Create(&cat).Error)
	return cat
}

func CreateCourse(t *testing.T, tutor models.User, title string) models.Course {
	t.Helper()
	cat := CreateCategory(t, title+" category")
	course := models.Course{
		TutorID:        tutor.ID,
		CategoryID:     cat.ID,
		Title:          title,
		Difficulty:     models.DifficultyBeginner,
		TrialRate:      10,
		FullCourseRate: 200,
		Currency:       "USD",
		DurationWeeks:  4,
		SessionMinutes: 60,
		IsActive:       true,
	}
	require.NoError(t, database.DB.Create(&course).Error)
	return course
}

func CreateEnrollment(t *testing.T, learner models.User, course models.Course, status string) models.Enrollment {
	t.Helper()
	e := models.Enrollment{LearnerID: learner.ID, CourseID: course.ID, Status: status}
	require.NoError(t, database.DB.Create(&e).Error)
	return e
}

func CreateBooking(t *testing.T, learner models.User, course models.Course, status string, at time.Time) models.Booking {
	t.Helper()
	b := models.Booking{
		LearnerID:       learner.ID,
		TutorID:         course.TutorID,
		CourseID:        course.ID,
		SessionDate:     at.UTC(),
		DurationMinutes: 60,
		BookingType:     models.BookingTypeSession,
		Status:          status,
		Price:           40,
		Currency:        "USD",
	}
	require.NoError(t, database.DB.Create(&b).Error)
	return b
}

func CreateReview(t *testing.T, learner models.User, course models.Course, rating int) models.Review {
	t.Helper()
	courseID := course.ID
	r := models.Review{
		LearnerID: learner.ID,
		TutorID:   course.TutorID,
		CourseID:  &courseID,
		Rating:    rating,
		Status:    models.ReviewPublished,
	}
	require.NoError(t, database.DB.Create(&r).Error)
	return r
}
