package db_models

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan is a purchasable subscription plan. Amount and expiry are
// snapshotted onto subscriptions at purchase time, so editing or
// deleting a plan never touches existing subscriptions.
type Plan struct {
	BaseModel
	Name           string `gorm:"size:255;not null"`
	Slug           string `gorm:"size:255;uniqueIndex"`
	Description    string
	Amount         float64    `gorm:"type:decimal(10,2);not null;default:0"`
	ExpiryInMonths int        `gorm:"not null;default:1"`
	IsTrial        bool       `gorm:"default:false"`
	Sequence       int        `gorm:"default:0;index"`
	Status         PlanStatus `gorm:"size:20;default:'active';index"`
}
