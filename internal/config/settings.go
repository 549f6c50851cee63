package config

import (
	"context"
	"strconv"
	"strings"
)

// Settings is the admin-mutable billing configuration, loaded once per
// request or sweep invocation and passed down by value.
type Settings struct {
	PaymentGateway string

	EarlyRenewalEnabled    bool
	EarlyRenewalWindowDays int
	MaxFutureSubscriptions int

	TrialEnabled bool

	GSTEnabled    bool
	GSTPercentage float64
	GSTLabel      string

	EmailEnabled        bool
	SuccessEmailSubject string
	RenewalEmailSubject string

	SweeperEnabled   bool
	SweeperFrequency string // "hourly" or "daily"
	SweeperDailyAt   string // "15:04" wall clock, daily mode only
}

// Provider hands out a fresh Settings snapshot. Implementations must not
// cache across invocations: admins change these at runtime.
type Provider interface {
	Load(ctx context.Context) (Settings, error)
}

// Setting keys as stored in the settings table.
const (
	KeyPaymentGateway      = "payment_gateway"
	KeyEarlyRenewalEnabled = "early_renewal_enabled"
	KeyEarlyRenewalDays    = "early_renewal_days"
	KeyMaxFutureSubs       = "max_future_subscriptions"
	KeyTrialEnabled        = "trial_enabled"
	KeyGSTEnabled          = "gst_enabled"
	KeyGSTPercentage       = "gst_percentage"
	KeyGSTLabel            = "gst_label"
	KeyEmailEnabled        = "email_enabled"
	KeySuccessSubject      = "success_email_subject"
	KeyRenewalSubject      = "renewal_email_subject"
	KeySweeperEnabled      = "sweeper_enabled"
	KeySweeperFrequency    = "sweeper_frequency"
	KeySweeperDailyAt      = "sweeper_daily_at"
)

func defaults() Settings {
	return Settings{
		PaymentGateway:         "razorpay",
		EarlyRenewalEnabled:    false,
		EarlyRenewalWindowDays: 0,
		MaxFutureSubscriptions: 1,
		TrialEnabled:           false,
		GSTEnabled:             false,
		GSTPercentage:          0,
		GSTLabel:               "GST",
		EmailEnabled:           false,
		SuccessEmailSubject:    "Subscription Successful - {site_name}",
		RenewalEmailSubject:    "Subscription Renewal Reminder - {site_name}",
		SweeperEnabled:         false,
		SweeperFrequency:       "hourly",
		SweeperDailyAt:         "03:00",
	}
}

// FromMap builds Settings from raw key/value pairs, falling back to
// defaults for missing or malformed values.
func FromMap(raw map[string]string) Settings {
	s := defaults()
	if v, ok := raw[KeyPaymentGateway]; ok && v != "" {
		s.PaymentGateway = v
	}
	s.EarlyRenewalEnabled = boolOr(raw[KeyEarlyRenewalEnabled], s.EarlyRenewalEnabled)
	s.EarlyRenewalWindowDays = intOr(raw[KeyEarlyRenewalDays], s.EarlyRenewalWindowDays)
	if s.EarlyRenewalWindowDays < 0 {
		s.EarlyRenewalWindowDays = 0
	}
	s.MaxFutureSubscriptions = intOr(raw[KeyMaxFutureSubs], s.MaxFutureSubscriptions)
	if s.MaxFutureSubscriptions < 0 {
		s.MaxFutureSubscriptions = 0
	}
	s.TrialEnabled = boolOr(raw[KeyTrialEnabled], s.TrialEnabled)
	s.GSTEnabled = boolOr(raw[KeyGSTEnabled], s.GSTEnabled)
	s.GSTPercentage = floatOr(raw[KeyGSTPercentage], s.GSTPercentage)
	if v, ok := raw[KeyGSTLabel]; ok && v != "" {
		s.GSTLabel = v
	}
	s.EmailEnabled = boolOr(raw[KeyEmailEnabled], s.EmailEnabled)
	if v, ok := raw[KeySuccessSubject]; ok && v != "" {
		s.SuccessEmailSubject = v
	}
	if v, ok := raw[KeyRenewalSubject]; ok && v != "" {
		s.RenewalEmailSubject = v
	}
	s.SweeperEnabled = boolOr(raw[KeySweeperEnabled], s.SweeperEnabled)
	if v, ok := raw[KeySweeperFrequency]; ok {
		if v == "hourly" || v == "daily" {
			s.SweeperFrequency = v
		}
	}
	if v, ok := raw[KeySweeperDailyAt]; ok && v != "" {
		s.SweeperDailyAt = v
	}
	return s
}

func boolOr(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func intOr(v string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return n
	}
	return def
}

func floatOr(v string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return f
	}
	return def
}
