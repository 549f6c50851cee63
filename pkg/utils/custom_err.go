package utils

import "errors"

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotEligible          = errors.New("you already have an active subscription, renewal is not available yet")
	ErrAlreadySubscribed    = errors.New("an active subscription already exists for this user")
	ErrUpcomingLimit        = errors.New("maximum number of upcoming subscriptions reached")
	ErrTrialAlreadyUsed     = errors.New("you have already used your free trial")
	ErrSignatureMismatch    = errors.New("invalid payment signature")
	ErrGatewayUnavailable   = errors.New("payment gateway request failed")
	ErrValidation           = errors.New("invalid input")
	ErrDatabaseError        = errors.New("database error")
)
