package models

import "github.com/google/uuid"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"

	MethodCard   = "card"
	MethodPayPal = "paypal"
	MethodMpesa  = "mpesa"
)

type Payment struct {
	Base
	LearnerID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"learner_id"`
	TutorID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"tutor_id"`
	BookingID         *uuid.UUID `gorm:"type:uuid;index" json:"booking_id"`
	EnrollmentID      *uuid.UUID `gorm:"type:uuid;index" json:"enrollment_id"`
	Amount            float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency          string     `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Method            string     `gorm:"size:20;not null" json:"method"`
	Status            string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ProviderOrderID   *string    `gorm:"size:255;unique" json:"-"`
	ProviderTxnID     *string    `gorm:"size:255;unique" json:"provider_txn_id"`
	MerchantRequestID *string    `gorm:"size:255;unique" json:"-"`
	RefundReason      *string    `gorm:"type:text" json:"refund_reason"`

	Learner User `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`
}
