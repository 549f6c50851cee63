package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Payment status values seen on transactions. Gateway statuses
// ("captured", "authorized", ...) are stored verbatim alongside these.
const (
	TxnStatusSuccess  = "success"
	TxnStatusCaptured = "captured"
	TxnStatusFailed   = "failed"
)

// Transaction is an append-only audit row, one per meaningful payment
// state. Failed attempts may carry no subscription id.
type Transaction struct {
	BaseModel
	PlanID         *uuid.UUID `gorm:"type:uuid;index"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`

	Amount   float64 `gorm:"type:decimal(10,2);not null"`
	Currency string  `gorm:"size:3;not null;default:'INR'"`

	PaymentGateway string `gorm:"size:50;not null"`
	PaymentID      string `gorm:"size:255;not null;index"`
	PaymentStatus  string `gorm:"size:50;not null;index"`

	// Raw gateway payload, kept for audit.
	GatewayResponse datatypes.JSON `gorm:"type:jsonb"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID"`
}
