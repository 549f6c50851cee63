package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PendingIntent reserves a subscription-to-be-created while the user is
// off paying at the gateway. The row is consumed (conditionally deleted)
// exactly once when the payment completes; rows past ExpiresAt are dead.
type PendingIntent struct {
	BaseModel
	OrderID            string    `gorm:"size:255;uniqueIndex;not null"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID             uuid.UUID `gorm:"type:uuid;not null"`
	PlanAmount         float64   `gorm:"type:decimal(10,2);not null"`
	PlanExpiryInMonths int       `gorm:"not null"`
	Notes              datatypes.JSON
	ExpiresAt          time.Time `gorm:"not null;index"`
}
