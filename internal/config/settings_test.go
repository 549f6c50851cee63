package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMapDefaults(t *testing.T) {
	s := FromMap(nil)
	assert.Equal(t, "razorpay", s.PaymentGateway)
	assert.False(t, s.EarlyRenewalEnabled)
	assert.Equal(t, 1, s.MaxFutureSubscriptions)
	assert.Equal(t, "GST", s.GSTLabel)
	assert.Equal(t, "hourly", s.SweeperFrequency)
	assert.Equal(t, "03:00", s.SweeperDailyAt)
}

func TestFromMapParsing(t *testing.T) {
	s := FromMap(map[string]string{
		KeyEarlyRenewalEnabled: "1",
		KeyEarlyRenewalDays:    "7",
		KeyMaxFutureSubs:       "2",
		KeyTrialEnabled:        "yes",
		KeyGSTEnabled:          "true",
		KeyGSTPercentage:       "18",
		KeyEmailEnabled:        "on",
		KeySuccessSubject:      "Welcome - {site_name}",
		KeySweeperEnabled:      "true",
		KeySweeperFrequency:    "daily",
		KeySweeperDailyAt:      "04:30",
	})

	assert.True(t, s.EarlyRenewalEnabled)
	assert.Equal(t, 7, s.EarlyRenewalWindowDays)
	assert.Equal(t, 2, s.MaxFutureSubscriptions)
	assert.True(t, s.TrialEnabled)
	assert.True(t, s.GSTEnabled)
	assert.InDelta(t, 18.0, s.GSTPercentage, 0.001)
	assert.True(t, s.EmailEnabled)
	assert.Equal(t, "Welcome - {site_name}", s.SuccessEmailSubject)
	assert.Equal(t, "daily", s.SweeperFrequency)
	assert.Equal(t, "04:30", s.SweeperDailyAt)
}

func TestFromMapMalformedValues(t *testing.T) {
	s := FromMap(map[string]string{
		KeyEarlyRenewalDays:    "-3",
		KeyMaxFutureSubs:       "not-a-number",
		KeyGSTPercentage:       "abc",
		KeySweeperFrequency:    "weekly",
		KeyEarlyRenewalEnabled: "maybe",
	})

	// Negative windows clamp, garbage keeps the default.
	assert.Equal(t, 0, s.EarlyRenewalWindowDays)
	assert.Equal(t, 1, s.MaxFutureSubscriptions)
	assert.InDelta(t, 0.0, s.GSTPercentage, 0.001)
	assert.Equal(t, "hourly", s.SweeperFrequency)
	assert.False(t, s.EarlyRenewalEnabled)
}
