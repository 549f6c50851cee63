package response_models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase/complete endpoints keep the legacy status convention inside a
// 200 body: 1 = ok, 0 = bad request shape, -1 = rejected/failed.
const (
	StatusOK       = 1
	StatusBadInput = 0
	StatusRejected = -1
)

// PaymentData is what the frontend needs to open the gateway checkout.
type PaymentData struct {
	OrderID  string `json:"order_id,omitempty"`
	KeyID    string `json:"key_id,omitempty"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PurchaseResponse struct {
	Status         int               `json:"status"`
	Message        string            `json:"message,omitempty"`
	PaymentData    *PaymentData      `json:"payment_data,omitempty"`
	SubscriptionID *uuid.UUID        `json:"subscription_id,omitempty"`
	Trial          bool              `json:"trial,omitempty"`
	Notes          map[string]string `json:"notes,omitempty"`
}

type CompletePaymentResponse struct {
	Status        int        `json:"status"`
	Message       string     `json:"message,omitempty"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	Trial         bool       `json:"trial,omitempty"`
}

type SubscriptionDetail struct {
	ID                 uuid.UUID  `json:"id"`
	PlanID             uuid.UUID  `json:"plan_id"`
	PlanName           string     `json:"plan_name"`
	PlanAmount         float64    `json:"plan_amount"`
	PlanExpiryInMonths int        `json:"plan_expiry_in_months"`
	Currency           string     `json:"currency"`
	AmountPaid         float64    `json:"amount_paid"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status,omitempty"`
	StartsOn           time.Time  `json:"subscription_starts_on"`
	EndsOn             time.Time  `json:"subscription_ends_on"`
	SubscribedOn       *time.Time `json:"subscribed_on,omitempty"`
}

type SubscriptionStats struct {
	TotalSubscriptions  int64   `json:"total_subscriptions"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
	TotalRevenue        float64 `json:"total_revenue"`
	RecentSubscriptions int64   `json:"recent_subscriptions"`
}
