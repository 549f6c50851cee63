package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusUpcoming SubscriptionStatus = "upcoming"
	SubStatusExpired  SubscriptionStatus = "expired"
)

// Lifecycle values for Subscription.IsActivePlan. This tri-state is the
// authoritative discriminator; Status mirrors it for display.
const (
	LifecycleExpired = -1
	LifecycleFuture  = 0
	LifecycleCurrent = 1
)

// Processing values for Subscription.ProcessingStatus.
const (
	ProcessingUnused = 0
	ProcessingPaid   = 1
)

type Subscription struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Plan snapshot, immutable after purchase.
	PlanAmount         float64 `gorm:"type:decimal(10,2);not null"`
	PlanExpiryInMonths int     `gorm:"not null"`
	CurrencyCode       string  `gorm:"size:10;default:'INR'"`

	IsGSTApplied  bool `gorm:"default:false"`
	GSTPercentage *int
	GSTAmount     *float64 `gorm:"type:decimal(10,2)"`
	BaseAmount    float64  `gorm:"type:decimal(10,2);not null"`
	AmountPaid    float64  `gorm:"type:decimal(10,2);not null"`

	Status           SubscriptionStatus `gorm:"size:20;not null;default:'active';index"`
	ProcessingStatus int                `gorm:"type:smallint;not null;default:1"`
	IsActivePlan     int                `gorm:"type:smallint;not null;default:1;index"`

	PaymentGateway string `gorm:"size:50;not null;default:'razorpay'"`
	PaymentID      *string
	OrderID        *string `gorm:"index"`
	PaymentStatus  *string `gorm:"size:50"`
	Remark         *string `gorm:"size:255"`

	SubscribedOn         *time.Time
	SubscriptionStartsOn time.Time `gorm:"not null"`
	SubscriptionEndsOn   time.Time `gorm:"not null;index"`

	RenewalReminderSent bool `gorm:"default:false"`
	CreatedBy           *uuid.UUID

	Plan Plan `gorm:"foreignKey:PlanID"`
}

// IsCurrentlyActive reports the full "active subscription" predicate:
// active status, current lifecycle and a confirmed payment.
func (s *Subscription) IsCurrentlyActive() bool {
	return s.Status == SubStatusActive &&
		s.IsActivePlan == LifecycleCurrent &&
		s.ProcessingStatus == ProcessingPaid
}
