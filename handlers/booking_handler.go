package handlers

import (
	"time"

	"github.com/anjiri1684/skill_tutor/database"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/notifications"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/anjiri1684/skill_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CourseID        string    `json:"course_id" validate:"required,uuid"`
	SessionDate     time.Time `json:"session_date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gte=30,lte=240"`
	BookingType     string    `json:"booking_type" validate:"required,oneof=trial session"`
	Notes           *string   `json:"notes" validate:"omitempty,max=2000"`
}

type BookingStatusRequest struct {
	Status      string  `json:"status" validate:"required,oneof=accepted rejected"`
	Reason      *string `json:"reason" validate:"omitempty,max=1000"`
	MeetingLink *string `json:"meeting_link" validate:"omitempty,url"`
}

func CreateBooking(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	var req CreateBookingRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	booking, err := services.CreateBooking(learnerID, services.CreateBookingInput{
		CourseID:        uuid.MustParse(req.CourseID),
		SessionDate:     req.SessionDate,
		DurationMinutes: req.DurationMinutes,
		BookingType:     req.BookingType,
		Notes:           req.Notes,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	var tutor, learner models.User
	if database.DB.First(&tutor, "id = ?", booking.TutorID).Error == nil &&
		database.DB.First(&learner, "id = ?", learnerID).Error == nil {
		subject, body := notifications.NewBookingEmail(tutor.FullName, learner.FullName, booking.Course.Title, booking.SessionDate)
		go notifications.SendEmail(tutor.FullName, tutor.Email, subject, body)
	} else {
		logger.Log.Warnw("Booking email not sent, participants not loaded", "booking_id", booking.ID)
	}
	websocket.Notify(booking.TutorID, "booking.created", booking)

	return utils.Created(c, booking, "Booking requested")
}

func GetMyBookings(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	query := database.DB.Preload("Tutor").Preload("Course").Where("learner_id = ?", learnerID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var bookings []models.Booking
	if err := query.Order("session_date DESC").Find(&bookings).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list bookings")
	}
	return utils.OK(c, bookings)
}

func CancelBooking(c *fiber.Ctx) error {
	learnerID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	bookingID, ok, err := paramID(c, "bookingId")
	if !ok {
		return err
	}

	booking, err := services.CancelBooking(learnerID, bookingID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	subject, body := notifications.BookingStatusEmail(booking.Tutor.FullName, booking.Course.Title, models.BookingCancelled, booking.SessionDate, nil)
	go notifications.SendEmail(booking.Tutor.FullName, booking.Tutor.Email, subject, body)
	websocket.Notify(booking.TutorID, "booking.cancelled", booking)
	return utils.OK(c, booking, "Booking cancelled")
}

func GetTutorBookings(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	query := database.DB.Preload("Learner").Preload("Course").Where("tutor_id = ?", tutorID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var bookings []models.Booking
	if err := query.Order("session_date ASC").Find(&bookings).Error; err != nil {
		return utils.ServerError(c, err, "Failed to list bookings")
	}
	return utils.OK(c, bookings)
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	bookingID, ok, err := paramID(c, "bookingId")
	if !ok {
		return err
	}
	var req BookingStatusRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	booking, err := services.DecideBooking(tutorID, bookingID, services.BookingDecision{
		Status:      req.Status,
		Reason:      req.Reason,
		MeetingLink: req.MeetingLink,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	subject, body := notifications.BookingStatusEmail(booking.Learner.FullName, booking.Course.Title, booking.Status, booking.SessionDate, booking.RejectionReason)
	go notifications.SendEmail(booking.Learner.FullName, booking.Learner.Email, subject, body)
	websocket.Notify(booking.LearnerID, "booking."+booking.Status, booking)

	return utils.OK(c, booking, "Booking "+booking.Status)
}

func CompleteBooking(c *fiber.Ctx) error {
	tutorID, ok, err := currentUser(c)
	if !ok {
		return err
	}
	bookingID, ok, err := paramID(c, "bookingId")
	if !ok {
		return err
	}

	booking, err := services.CompleteBooking(tutorID, bookingID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	websocket.Notify(booking.LearnerID, "booking.completed", booking)
	return utils.OK(c, booking, "Booking completed")
}
