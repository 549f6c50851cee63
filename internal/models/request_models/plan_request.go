package request_models

type CreatePlanRequest struct {
	Name           string  `json:"name" binding:"required"`
	Slug           string  `json:"slug"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	ExpiryInMonths int     `json:"expiry_in_months" binding:"required,min=1"`
	IsTrial        bool    `json:"is_trial"`
	Sequence       int     `json:"sequence"`
	Status         string  `json:"status"`
}

// UpdatePlanRequest carries a partial update; nil fields are untouched.
type UpdatePlanRequest struct {
	Name           *string  `json:"name"`
	Slug           *string  `json:"slug"`
	Description    *string  `json:"description"`
	Amount         *float64 `json:"amount"`
	ExpiryInMonths *int     `json:"expiry_in_months"`
	IsTrial        *bool    `json:"is_trial"`
	Sequence       *int     `json:"sequence"`
	Status         *string  `json:"status"`
}
