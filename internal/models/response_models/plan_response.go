package response_models

import "github.com/google/uuid"

type PlanDetail struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description,omitempty"`
	Amount         float64   `json:"amount"`
	ExpiryInMonths int       `json:"expiry_in_months"`
	IsTrial        bool      `json:"is_trial"`
	Sequence       int       `json:"sequence"`
	Status         string    `json:"status"`
}
