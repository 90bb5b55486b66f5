package handlers

import (
	"math"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type statusCount struct {
	Status string
	Count  int64
}

// countByStatus groups model rows matching the scope by their status column.
func countByStatus(scope *gorm.DB) (map[string]int64, error) {
	var rows []statusCount
	if err := scope.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

type LearnerDashboard struct {
	Enrollments           map[string]int64 `json:"enrollments"`
	HoursLearned          float64          `json:"hours_learned"`
	UpcomingBookings      []models.Booking `json:"upcoming_bookings"`
	PendingReviewRequests int64            `json:"pending_review_requests"`
}

func GetLearnerDashboard(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	db := database.DB
	var out LearnerDashboard

	out.Enrollments, err = countByStatus(db.Model(&models.Enrollment{}).Where("learner_id = ?", learnerID))
	if err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}

	var hours []float64
	if err := db.Model(&models.Enrollment{}).Where("learner_id = ?", learnerID).Pluck("hours_completed", &hours).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	for _, h := range hours {
		out.HoursLearned += h
	}

	if err := db.Preload("Tutor").Preload("Course").
		Where("learner_id = ? AND status IN ? AND session_date > ?",
			learnerID, []string{models.BookingPending, models.BookingAccepted}, time.Now().UTC()).
		Order("session_date ASC").Limit(5).Find(&out.UpcomingBookings).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}

	var requests []models.ReviewRequest
	if err := db.Where("student_id = ?", learnerID).Find(&requests).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	if err := services.ReconcileReviewRequests(db, requests); err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	for _, r := range requests {
		if r.Status == models.ReviewRequestPending {
			out.PendingReviewRequests++
		}
	}

	return utils.OK(c, out)
}

type MonthlyEarning struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type TutorDashboard struct {
	Courses           int64            `json:"courses"`
	ActiveEnrollments int64            `json:"active_enrollments"`
	PendingBookings   int64            `json:"pending_bookings"`
	TotalEarnings     float64          `json:"total_earnings"`
	MonthlyEarnings   []MonthlyEarning `json:"monthly_earnings"`
	AvgRating         float64          `json:"avg_rating"`
	TotalReviews      int              `json:"total_reviews"`
	ReviewRequests    map[string]int64 `json:"review_requests"`
}

// monthlyEarnings buckets the tutor's share of each payment by calendar month, oldest first.
func monthlyEarnings(list []models.Payment) ([]MonthlyEarning, float64) {
	byMonth := map[string]float64{}
	var months []string
	var total float64
	for _, p := range list {
		key := p.CreatedAt.UTC().Format("2006-01")
		if _, seen := byMonth[key]; !seen {
			months = append(months, key)
		}
		share := services.TutorShare(p.Amount)
		byMonth[key] += share
		total += share
	}

	out := make([]MonthlyEarning, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyEarning{Month: m, Amount: roundCents(byMonth[m])})
	}
	return out, roundCents(total)
}

func GetTutorDashboard(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	db := database.DB
	var out TutorDashboard

	if err := db.Model(&models.Course{}).Where("tutor_id = ?", tutorID).Count(&out.Courses).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	if err := db.Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.tutor_id = ? AND enrollments.status = ?", tutorID, models.EnrollmentActive).
		Count(&out.ActiveEnrollments).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	if err := db.Model(&models.Booking{}).
		Where("tutor_id = ? AND status = ?", tutorID, models.BookingPending).
		Count(&out.PendingBookings).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}

	var paid []models.Payment
	if err := db.Where("tutor_id = ? AND status = ?", tutorID, models.PaymentCompleted).
		Order("created_at ASC").Find(&paid).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	out.MonthlyEarnings, out.TotalEarnings = monthlyEarnings(paid)

	var tutor models.Tutor
	if err := db.First(&tutor, "user_id = ?", tutorID).Error; err == nil {
		out.AvgRating = tutor.AvgRating
		out.TotalReviews = tutor.TotalReviews
	}

	var requests []models.ReviewRequest
	if err := db.Where("tutor_id = ?", tutorID).Find(&requests).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	if err := services.ReconcileReviewRequests(db, requests); err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	out.ReviewRequests = map[string]int64{models.ReviewRequestPending: 0, models.ReviewRequestResponded: 0}
	for _, r := range requests {
		out.ReviewRequests[r.Status]++
	}

	return utils.OK(c, out)
}

