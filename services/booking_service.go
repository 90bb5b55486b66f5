package services

import (
	"errors"
	"math"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSessionMinutes = 240

// QuoteBookingPrice is the trial rate for trial bookings and the tutor's
// hourly rate pro-rated over the duration otherwise.
func QuoteBookingPrice(course models.Course, hourlyRate float64, bookingType string, durationMinutes int) float64 {
	if bookingType == models.BookingTypeTrial {
		return course.TrialRate
	}
	return math.Round(hourlyRate*float64(durationMinutes)/60*100) / 100
}

// TutorShare is what the tutor keeps after the platform commission.
func TutorShare(amount float64) float64 {
	return math.Round(amount*(1-config.Float("PLATFORM_COMMISSION_RATE"))*100) / 100
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasOverlap reports whether the tutor already has an accepted booking that
// intersects [start, end). exclude skips one booking id.
func HasOverlap(db *gorm.DB, tutorID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (bool, error) {
	var candidates []models.Booking
	q := db.Where("tutor_id = ? AND status = ? AND session_date < ? AND session_date > ?",
		tutorID, models.BookingAccepted, end.UTC(), start.Add(-maxSessionMinutes*time.Minute).UTC())
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	if err := q.Find(&candidates).Error; err != nil {
		return false, err
	}
	for _, b := range candidates {
		if overlaps(start, end, b.SessionDate, b.EndsAt()) {
			return true, nil
		}
	}
	return false, nil
}

type CreateBookingInput struct {
	CourseID        uuid.UUID
	SessionDate     time.Time
	DurationMinutes int
	BookingType     string
	Notes           *string
}

func CreateBooking(learnerID uuid.UUID, in CreateBookingInput) (*models.Booking, error) {
	db := database.DB
	start := in.SessionDate.UTC()
	if !start.After(time.Now()) {
		return nil, utils.BadRequest("Session date must be in the future")
	}

	var course models.Course
	if err := db.First(&course, "id = ? AND is_active = ?", in.CourseID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Course not found")
		}
		return nil, err
	}
	if course.TutorID == learnerID {
		return nil, utils.BadRequest("You cannot book your own course")
	}

	var tutor models.Tutor
	if err := db.First(&tutor, "user_id = ?", course.TutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Tutor profile not found")
		}
		return nil, err
	}

	if in.BookingType == models.BookingTypeTrial {
		var trials int64
		err := db.Model(&models.Booking{}).
			Where("learner_id = ? AND course_id = ? AND booking_type = ? AND status NOT IN ?",
				learnerID, course.ID, models.BookingTypeTrial, []string{models.BookingRejected, models.BookingCancelled}).
			Count(&trials).Error
		if err != nil {
			return nil, err
		}
		if trials > 0 {
			return nil, utils.Conflict("You already have a trial booking for this course")
		}
	}

	end := start.Add(time.Duration(in.DurationMinutes) * time.Minute)
	busy, err := HasOverlap(db, course.TutorID, start, end, nil)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, utils.Conflict("The tutor is not available at the requested time")
	}

	booking := models.Booking{
		LearnerID:       learnerID,
		TutorID:         course.TutorID,
		CourseID:        course.ID,
		SessionDate:     start,
		DurationMinutes: in.DurationMinutes,
		BookingType:     in.BookingType,
		Status:          models.BookingPending,
		Price:           QuoteBookingPrice(course, tutor.HourlyRate, in.BookingType, in.DurationMinutes),
		Currency:        course.Currency,
		Notes:           in.Notes,
	}
	if err := db.Create(&booking).Error; err != nil {
		return nil, err
	}
	booking.Course = course
	return &booking, nil
}

func loadBooking(db *gorm.DB, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Learner").Preload("Tutor").Preload("Course").First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

type BookingDecision struct {
	Status      string
	Reason      *string
	MeetingLink *string
}

// DecideBooking accepts or rejects a pending booking on behalf of its tutor.
func DecideBooking(tutorID, bookingID uuid.UUID, d BookingDecision) (*models.Booking, error) {
	db := database.DB
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TutorID != tutorID {
		return nil, utils.Forbidden("You can only manage your own bookings")
	}
	if booking.Status != models.BookingPending {
		return nil, utils.Conflict("Only pending bookings can be " + d.Status)
	}

	updates := map[string]interface{}{"status": d.Status}
	if d.Status == models.BookingAccepted {
		busy, err := HasOverlap(db, tutorID, booking.SessionDate, booking.EndsAt(), &booking.ID)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, utils.Conflict("You already have an accepted booking at this time")
		}
		if d.MeetingLink != nil {
			updates["meeting_link"] = *d.MeetingLink
		}
	} else if d.Reason != nil {
		updates["rejection_reason"] = *d.Reason
	}

	res := db.Model(&models.Booking{}).Where("id = ? AND status = ?", booking.ID, models.BookingPending).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.Conflict("Booking was updated by another request")
	}
	return loadBooking(db, booking.ID)
}

// CompleteBooking marks an accepted, finished session completed and credits the
// tutor with their share of any completed payment for it.
func CompleteBooking(tutorID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := loadBooking(database.DB, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TutorID != tutorID {
		return nil, utils.Forbidden("You can only manage your own bookings")
	}
	if booking.Status != models.BookingAccepted {
		return nil, utils.Conflict("Only accepted bookings can be completed")
	}
	if booking.EndsAt().After(time.Now()) {
		return nil, utils.BadRequest("The session has not ended yet")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingAccepted).
			Update("status", models.BookingCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.Conflict("Booking was updated by another request")
		}

		var paid []models.Payment
		if err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentCompleted).Find(&paid).Error; err != nil {
			return err
		}
		var credit float64
		for _, p := range paid {
			credit += TutorShare(p.Amount)
		}
		if credit == 0 {
			return nil
		}
		return tx.Model(&models.Tutor{}).Where("user_id = ?", tutorID).
			UpdateColumn("balance", gorm.Expr("balance + ?", credit)).Error
	})
	if err != nil {
		return nil, err
	}
	booking.Status = models.BookingCompleted
	return booking, nil
}

// CancelBooking lets the learner withdraw a pending or accepted future booking.
func CancelBooking(learnerID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := loadBooking(database.DB, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.LearnerID != learnerID {
		return nil, utils.Forbidden("You can only cancel your own bookings")
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingAccepted {
		return nil, utils.Conflict("Only pending or accepted bookings can be cancelled")
	}
	if !booking.SessionDate.After(time.Now()) {
		return nil, utils.BadRequest("Past sessions cannot be cancelled")
	}

	res := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status IN ?", booking.ID, []string{models.BookingPending, models.BookingAccepted}).
		Update("status", models.BookingCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.Conflict("Booking was updated by another request")
	}
	booking.Status = models.BookingCancelled
	return booking, nil
}
