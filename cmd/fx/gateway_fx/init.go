package gateway_fx

import (
	"os"

	"go.uber.org/fx"

	"submgmt/internal/gateway"
)

var Module = fx.Provide(
	provideGatewayClient,
)

func provideGatewayClient() gateway.Client {
	return gateway.NewClient(gateway.Config{
		KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		BaseURL:       os.Getenv("RAZORPAY_BASE_URL"),
	})
}
