package request_models

import "github.com/google/uuid"

// PurchaseRequest starts a purchase. Amount and expiry arrive base64
// encoded on the wire, matching the frontend contract.
type PurchaseRequest struct {
	UserID             uuid.UUID         `json:"user_id" binding:"required"`
	PlanID             uuid.UUID         `json:"plan_id" binding:"required"`
	PlanAmount         string            `json:"plan_amount" binding:"required"`
	PlanExpiryInMonths string            `json:"plan_expiry_in_months" binding:"required"`
	Notes              map[string]string `json:"notes"`
}

// CompletePaymentRequest finishes either a gateway payment or a trial.
// The gateway fields are required unless Trial is set.
type CompletePaymentRequest struct {
	SubscriptionID *uuid.UUID        `json:"subscription_id"`
	PaymentID      string            `json:"payment_id"`
	OrderID        string            `json:"order_id"`
	Signature      string            `json:"signature"`
	Trial          bool              `json:"trial"`
	Notes          map[string]string `json:"notes"`
}
