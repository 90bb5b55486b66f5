package main

import (
	"time"

	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"github.com/anjiri1684/skill_tutor/services"
	"gorm.io/gorm"
)

type seedTutor struct {
	name, email, headline string
	rate                  float64
	specialties           []string
}

type seedCourse struct {
	tutor, category, title, difficulty string
	trial, full                        float64
}

var (
	seedCategories = []string{"Music", "Languages", "Programming", "Mathematics"}

	seedTutors = []seedTutor{
		{"Amina Wanjiku", "amina@skilltutor.dev", "Classical and acoustic guitar", 35, []string{"guitar", "music theory"}},
		{"David Otieno", "david@skilltutor.dev", "Backend engineer teaching Go and SQL", 50, []string{"go", "databases"}},
	}

	seedLearners = []struct{ name, email string }{
		{"Brian Kamau", "brian@skilltutor.dev"},
		{"Faith Njeri", "faith@skilltutor.dev"},
		{"Kevin Mutua", "kevin@skilltutor.dev"},
	}

	seedCourses = []seedCourse{
		{"amina@skilltutor.dev", "Music", "Guitar for Beginners", models.DifficultyBeginner, 10, 120},
		{"amina@skilltutor.dev", "Music", "Fingerstyle Techniques", models.DifficultyIntermediate, 15, 180},
		{"david@skilltutor.dev", "Programming", "Go Fundamentals", models.DifficultyBeginner, 0, 0},
		{"david@skilltutor.dev", "Programming", "Practical SQL", models.DifficultyIntermediate, 12, 150},
	}
)

// seed loads a small, connected demo dataset. Rows are matched on email,
// name or natural keys so running it twice changes nothing.
func (cli *commandLine) seed(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	return cli.db.Transaction(func(tx *gorm.DB) error {
		categories := map[string]models.CourseCategory{}
		for _, name := range seedCategories {
			var cat models.CourseCategory
			if err := tx.Where(models.CourseCategory{Name: name}).
				Attrs(models.CourseCategory{Description: name + " lessons"}).
				FirstOrCreate(&cat).Error; err != nil {
				return err
			}
			categories[name] = cat
		}

		users := map[string]models.User{}
		for _, t := range seedTutors {
			usr, err := seedUser(tx, t.name, t.email, models.RoleTutor, hash)
			if err != nil {
				return err
			}
			headline := t.headline
			var profile models.Tutor
			if err := tx.Where(models.Tutor{UserID: usr.ID}).
				Attrs(models.Tutor{
					Headline:        &headline,
					HourlyRate:      t.rate,
					Specialties:     t.specialties,
					ExperienceYears: 5,
					Availability: []models.TimeSlot{
						{Day: "monday", StartTime: "09:00", EndTime: "12:00"},
						{Day: "thursday", StartTime: "14:00", EndTime: "18:00"},
					},
				}).
				FirstOrCreate(&profile).Error; err != nil {
				return err
			}
			users[t.email] = usr
		}
		for _, l := range seedLearners {
			usr, err := seedUser(tx, l.name, l.email, models.RoleLearner, hash)
			if err != nil {
				return err
			}
			users[l.email] = usr
		}

		courses := map[string]models.Course{}
		for _, sc := range seedCourses {
			var course models.Course
			if err := tx.Where(models.Course{TutorID: users[sc.tutor].ID, Title: sc.title}).
				Attrs(models.Course{
					CategoryID:     categories[sc.category].ID,
					Description:    sc.title + " with weekly live sessions.",
					Difficulty:     sc.difficulty,
					TrialRate:      sc.trial,
					FullCourseRate: sc.full,
					Currency:       "USD",
					DurationWeeks:  6,
					SessionMinutes: 60,
					MaxStudents:    10,
					IsActive:       true,
					Schedule:       []models.TimeSlot{{Day: "monday", StartTime: "09:00", EndTime: "10:00"}},
				}).
				FirstOrCreate(&course).Error; err != nil {
				return err
			}
			courses[sc.title] = course
		}

		brian, faith, kevin := users["brian@skilltutor.dev"], users["faith@skilltutor.dev"], users["kevin@skilltutor.dev"]
		guitar, sqlCourse, goCourse := courses["Guitar for Beginners"], courses["Practical SQL"], courses["Go Fundamentals"]

		now := time.Now().UTC().Truncate(time.Hour)
		completedAt := now.AddDate(0, 0, -7)

		brianGuitar, err := seedEnrollment(tx, brian, guitar, models.Enrollment{Status: models.EnrollmentActive, Progress: 40, HoursCompleted: 4})
		if err != nil {
			return err
		}
		if _, err := seedEnrollment(tx, faith, sqlCourse, models.Enrollment{
			Status: models.EnrollmentCompleted, Progress: 100, HoursCompleted: 12, CompletedAt: &completedAt,
		}); err != nil {
			return err
		}
		if _, err := seedEnrollment(tx, kevin, goCourse, models.Enrollment{Status: models.EnrollmentActive, Progress: 10, HoursCompleted: 1}); err != nil {
			return err
		}

		if err := seedPayment(tx, brian, guitar, brianGuitar); err != nil {
			return err
		}

		link := "https://meet.example.com/guitar-brian"
		if err := seedBooking(tx, brian, guitar, models.Booking{
			SessionDate: now.AddDate(0, 0, 3).Add(9 * time.Hour), BookingType: models.BookingTypeSession,
			Status: models.BookingAccepted, Price: 35, MeetingLink: &link,
		}); err != nil {
			return err
		}
		if err := seedBooking(tx, faith, sqlCourse, models.Booking{
			SessionDate: now.AddDate(0, 0, -10), BookingType: models.BookingTypeTrial,
			Status: models.BookingCompleted, Price: sqlCourse.TrialRate,
		}); err != nil {
			return err
		}
		if err := seedBooking(tx, kevin, goCourse, models.Booking{
			SessionDate: now.AddDate(0, 0, 5).Add(14 * time.Hour), BookingType: models.BookingTypeSession,
			Status: models.BookingPending, Price: 50,
		}); err != nil {
			return err
		}

		review, err := seedReview(tx, faith, sqlCourse, 5, "Clear explanations and great exercises.")
		if err != nil {
			return err
		}
		respondedAt := completedAt.Add(24 * time.Hour)
		if err := seedReviewRequest(tx, sqlCourse, faith, models.ReviewRequest{
			Status: models.ReviewRequestResponded, ReviewID: &review.ID, RespondedAt: &respondedAt,
		}); err != nil {
			return err
		}
		message := "How are you finding the course so far?"
		if err := seedReviewRequest(tx, guitar, brian, models.ReviewRequest{
			Status: models.ReviewRequestPending, Message: &message,
		}); err != nil {
			return err
		}

		for _, t := range seedTutors {
			if err := services.RecalculateTutorRating(tx, users[t.email].ID); err != nil {
				return err
			}
		}
		logger.Log.Infow("Seed data loaded",
			"categories", len(categories), "users", len(users), "courses", len(courses))
		return nil
	})
}

func seedUser(tx *gorm.DB, name, email, role, hash string) (models.User, error) {
	var usr models.User
	err := tx.Where(models.User{Email: email}).
		Attrs(models.User{FullName: name, Password: hash, Role: role, IsActive: true}).
		FirstOrCreate(&usr).Error
	return usr, err
}

func seedEnrollment(tx *gorm.DB, learner models.User, course models.Course, attrs models.Enrollment) (models.Enrollment, error) {
	var e models.Enrollment
	err := tx.Where(models.Enrollment{LearnerID: learner.ID, CourseID: course.ID}).
		Attrs(attrs).
		FirstOrCreate(&e).Error
	return e, err
}

func seedPayment(tx *gorm.DB, learner models.User, course models.Course, enrollment models.Enrollment) error {
	txn := "card_seed_" + enrollment.ID.String()
	var p models.Payment
	return tx.Where(models.Payment{EnrollmentID: &enrollment.ID}).
		Attrs(models.Payment{
			LearnerID:     learner.ID,
			TutorID:       course.TutorID,
			Amount:        course.FullCourseRate,
			Currency:      course.Currency,
			Method:        models.MethodCard,
			Status:        models.PaymentCompleted,
			ProviderTxnID: &txn,
		}).
		FirstOrCreate(&p).Error
}

func seedBooking(tx *gorm.DB, learner models.User, course models.Course, attrs models.Booking) error {
	attrs.TutorID = course.TutorID
	attrs.DurationMinutes = course.SessionMinutes
	attrs.Currency = course.Currency
	var b models.Booking
	return tx.Where(models.Booking{LearnerID: learner.ID, CourseID: course.ID, BookingType: attrs.BookingType}).
		Attrs(attrs).
		FirstOrCreate(&b).Error
}

func seedReview(tx *gorm.DB, learner models.User, course models.Course, rating int, comment string) (models.Review, error) {
	courseID := course.ID
	var r models.Review
	err := tx.Where(models.Review{LearnerID: learner.ID, TutorID: course.TutorID, CourseID: &courseID}).
		Attrs(models.Review{Rating: rating, Comment: comment, Status: models.ReviewPublished}).
		FirstOrCreate(&r).Error
	return r, err
}

func seedReviewRequest(tx *gorm.DB, course models.Course, student models.User, attrs models.ReviewRequest) error {
	var rr models.ReviewRequest
	err := tx.Where(models.ReviewRequest{TutorID: course.TutorID, StudentID: student.ID, CourseID: course.ID}).
		Attrs(attrs).
		FirstOrCreate(&rr).Error
	if err != nil {
		return err
	}
	if rr.ReviewID != nil && attrs.ReviewID != nil && *rr.ReviewID == *attrs.ReviewID {
		reqID := rr.ID
		return tx.Model(&models.Review{}).Where("id = ?", *rr.ReviewID).Update("review_request_id", &reqID).Error
	}
	return nil
}

