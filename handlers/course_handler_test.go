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

func TestCreateCourseValidation(t *testing.T) {
	c := newClient(t)
	tutor := testutil.CreateUser(t, models.RoleTutor, "tutor@example.com")
	category := testutil.CreateCategory(t, "Music")
	token := testutil.Token(t, tutor)

	course := func(overrides fiber.Map) fiber.Map {
		body := fiber.Map{
			"title": "Jazz Piano", "category_id": category.ID, "difficulty": "beginner",
			"trial_rate": 10, "full_course_rate": 150,
		}
		for k, v := range overrides {
			body[k] = v
		}
		return body
	}

	for _, tt := range []struct {
		name  string
		body  fiber.Map
		field string
	}{
		{name: "negative trial rate", body: course(fiber.Map{"trial_rate": -1}), field: "trial_rate"},
		{name: "negative full course rate", body: course(fiber.Map{"full_course_rate": -50}), field: "full_course_rate"},
		{name: "unknown difficulty", body: course(fiber.Map{"difficulty": "expert"}), field: "difficulty"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := c.do("POST", "/api/v1/tutor/courses", token, tt.body)
			require.Equal(t, fiber.StatusBadRequest, status)
			fields := map[string]string{}
			for _, d := range resp.Details {
				fields[d.Field] = d.Message
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	c.run([]httpTest{
		{name: "unknown category", method: "POST", path: "/api/v1/tutor/courses", token: token,
			body: course(fiber.Map{"category_id": tutor.ID}), wantStatus: fiber.StatusBadRequest},
		{name: "valid course", method: "POST", path: "/api/v1/tutor/courses", token: token,
			body: course(nil), wantStatus: fiber.StatusCreated},
	})
}

func TestCourseOwnershipAndDelete(t *testing.T) {
	c := newClient(t)
	owner := testutil.CreateUser(t, models.RoleTutor, "owner@example.com")
	other := testutil.CreateUser(t, models.RoleTutor, "other@example.com")
	learner := testutil.CreateUser(t, models.RoleLearner, "learner@example.com")
	enrolled := testutil.CreateCourse(t, owner, "Enrolled Course")
	booked := testutil.CreateCourse(t, owner, "Booked Course")
	empty := testutil.CreateCourse(t, owner, "Empty Course")
	testutil.CreateEnrollment(t, learner, enrolled, models.EnrollmentActive)
	testutil.CreateBooking(t, learner, booked, models.BookingCancelled, time.Now().Add(24*time.Hour))
	ownerToken, otherToken := testutil.Token(t, owner), testutil.Token(t, other)

	path := func(course models.Course) string { return "/api/v1/tutor/courses/" + course.ID.String() }
	c.run([]httpTest{
		{name: "other tutor updates", method: "PUT", path: path(empty), token: otherToken, body: fiber.Map{"title": "Hijacked"}, wantStatus: fiber.StatusForbidden},
		{name: "other tutor deletes", method: "DELETE", path: path(empty), token: otherToken, wantStatus: fiber.StatusForbidden},
		{name: "owner updates", method: "PUT", path: path(empty), token: ownerToken, body: fiber.Map{"trial_rate": 15}, wantStatus: fiber.StatusOK},
		{name: "negative rate on update", method: "PUT", path: path(empty), token: ownerToken, body: fiber.Map{"full_course_rate": -1}, wantStatus: fiber.StatusBadRequest},
		{name: "course with enrollment", method: "DELETE", path: path(enrolled), token: ownerToken, wantStatus: fiber.StatusConflict},
		{name: "course with booking", method: "DELETE", path: path(booked), token: ownerToken, wantStatus: fiber.StatusConflict},
		{name: "course without activity", method: "DELETE", path: path(empty), token: ownerToken, wantStatus: fiber.StatusOK},
		{name: "already deleted", method: "DELETE", path: path(empty), token: ownerToken, wantStatus: fiber.StatusNotFound},
	})

	var remaining int64
	require.NoError(t, database.DB.Model(&models.Course{}).Where("tutor_id = ?", owner.ID).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}
