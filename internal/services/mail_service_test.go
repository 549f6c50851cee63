package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubject(t *testing.T) {
	svc := &smtpMailService{cfg: SMTPConfig{SiteName: "Example Site"}}
	data := SubscriptionEmail{PlanName: "Annual", DaysRemaining: 3}

	subject := svc.renderSubject("Reminder for {user_name}: {plan_name} ends in {days_remaining} days - {site_name}", "Asha", data)
	assert.Equal(t, "Reminder for Asha: Annual ends in 3 days - Example Site", subject)

	t.Run("template without placeholders passes through", func(t *testing.T) {
		assert.Equal(t, "Plain subject", svc.renderSubject("Plain subject", "Asha", data))
	})
}

func TestRenderBodies(t *testing.T) {
	svc, err := NewSMTPMailService(SMTPConfig{SiteName: "Example Site", SiteURL: "https://example.com"})
	require.NoError(t, err)
	impl := svc.(*smtpMailService)

	html, text, err := impl.render(emailData{
		Title:     "Subscription Renewal Reminder",
		Intro:     "Hi Asha, your Annual subscription ends in 3 days.",
		Rows:      [][2]string{{"Plan", "Annual"}, {"Days remaining", "3"}},
		ButtonURL: impl.cfg.RenewalURL,
		ButtonTxt: "Renew Subscription",
		SiteName:  "Example Site",
		Year:      time.Now().Year(),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Subscription Renewal Reminder")
	assert.Contains(t, html, "https://example.com/subscription")
	assert.Contains(t, text, "Days remaining: 3")
	assert.Contains(t, text, "Renew Subscription: https://example.com/subscription")
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹ 590.00", formatCurrency(590, "INR"))
	assert.Equal(t, "$9.99", formatCurrency(9.99, "USD"))
	assert.Equal(t, "AUD 10.00", formatCurrency(10, "AUD"))
}
