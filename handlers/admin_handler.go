package handlers

import (
	"strings"
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func AdminListUsers(c *fiber.Ctx) error {
	page := utils.Paginate(c)
	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&page.Total).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list users")
	}
	var users []models.User
	if err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list users")
	}
	return utils.OK(c, utils.Page{Items: users, Pagination: page})
}

func AdminGetUser(c *fiber.Ctx) error {
	userID, ok, err := paramID(c, "userId")
	if !ok {
		return err
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.HandleError(c, err)
	}

	out := fiber.Map{"user": user}
	if user.Role == models.RoleTutor {
		var tutor models.Tutor
		if err := database.DB.First(&tutor, "user_id = ?", user.ID).Error; err == nil {
			out["tutor_profile"] = tutor
		}
	}
	return utils.OK(c, out)
}

func AdminSetUserStatus(c *fiber.Ctx) error {
	adminID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	userID, ok, err := paramID(c, "userId")
	if !ok {
		return err
	}
	var req UserStatusRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if userID == adminID && !*req.IsActive {
		return utils.Fail(c, fiber.StatusBadRequest, "You cannot deactivate your own account")
	}

	res := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", *req.IsActive)
	if res.Error != nil {
		return utils.ServerError(c, res.Error, "Failed to update user status")
	}
	if res.RowsAffected == 0 {
		return utils.Fail(c, fiber.StatusNotFound, "User not found")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, user, "User status updated")
}

// AdminDeleteUser removes a user with no live commitments. Tutors must have
// no courses left; reviews they wrote are removed and the affected ratings recomputed.
func AdminDeleteUser(c *fiber.Ctx) error {
	adminID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	userID, ok, err := paramID(c, "userId")
	if !ok {
		return err
	}
	if userID == adminID {
		return utils.Fail(c, fiber.StatusBadRequest, "You cannot delete your own account")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var live int64
		if err := tx.Model(&models.Enrollment{}).
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("(enrollments.learner_id = ? OR courses.tutor_id = ?) AND enrollments.status IN ?",
				user.ID, user.ID, []string{models.EnrollmentActive, models.EnrollmentPendingPayment}).
			Count(&live).Error; err != nil {
			return err
		}
		if live == 0 {
			if err := tx.Model(&models.Booking{}).
				Where("(learner_id = ? OR tutor_id = ?) AND status IN ?",
					user.ID, user.ID, []string{models.BookingPending, models.BookingAccepted}).
				Count(&live).Error; err != nil {
				return err
			}
		}
		if live > 0 {
			return utils.Conflict("User has active enrollments or bookings")
		}

		if user.Role == models.RoleTutor {
			var courses int64
			if err := tx.Model(&models.Course{}).Where("tutor_id = ?", user.ID).Count(&courses).Error; err != nil {
				return err
			}
			if courses > 0 {
				return utils.Conflict("Delete the tutor's courses first")
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Tutor{}).Error; err != nil {
				return err
			}
		}

		var reviewed []uuid.UUID
		if err := tx.Model(&models.Review{}).Where("learner_id = ?", user.ID).Distinct().Pluck("tutor_id", &reviewed).Error; err != nil {
			return err
		}
		if err := tx.Where("learner_id = ? OR tutor_id = ?", user.ID, user.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ? OR tutor_id = ?", user.ID, user.ID).Delete(&models.ReviewRequest{}).Error; err != nil {
			return err
		}
		for _, tutorID := range reviewed {
			if err := services.RecalculateTutorRating(tx, tutorID); err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.OK(c, nil, "User deleted")
}

type AdminDashboard struct {
	UsersByRole        map[string]int64 `json:"users_by_role"`
	TotalCourses       int64            `json:"total_courses"`
	BookingsLast30Days int64            `json:"bookings_last_30_days"`
	TotalRevenue       float64          `json:"total_revenue"`
	PlatformEarnings   float64          `json:"platform_earnings"`
	RecentBookings     []models.Booking `json:"recent_bookings"`
}

func GetAdminDashboard(c *fiber.Ctx) error {
	db := database.DB
	out := AdminDashboard{UsersByRole: map[string]int64{}}

	type roleCount struct {
		Role  string
		Count int64
	}
	var roles []roleCount
	if err := db.Model(&models.User{}).Select("role, COUNT(*) AS count").Group("role").Scan(&roles).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	for _, r := range roles {
		out.UsersByRole[r.Role] = r.Count
	}

	if err := db.Model(&models.Course{}).Count(&out.TotalCourses).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	if err := db.Model(&models.Booking{}).Where("created_at > ?", since).Count(&out.BookingsLast30Days).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}

	var amounts []float64
	if err := db.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).Pluck("amount", &amounts).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	for _, a := range amounts {
		out.TotalRevenue += a
		out.PlatformEarnings += a - services.TutorShare(a)
	}
	out.TotalRevenue = roundCents(out.TotalRevenue)
	out.PlatformEarnings = roundCents(out.PlatformEarnings)

	if err := db.Preload("Learner").Preload("Tutor").Preload("Course").
		Order("created_at DESC").Limit(5).Find(&out.RecentBookings).Error; err != nil {
		return utils.ServerError(c, err, "Failed to load dashboard")
	}
	return utils.OK(c, out)
}
