package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string // override for sandbox and tests
}

// Order is the gateway's handle for a checkout, amount in minor units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Payment is the authoritative payment record fetched after checkout.
type Payment struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`

	// Raw response body, stored with the transaction for audit.
	Raw json.RawMessage `json:"-"`
}

// AmountMajor converts minor units back to the currency's major unit.
func (p *Payment) AmountMajor() float64 {
	return float64(p.Amount) / 100
}

type Client interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	KeyID() string
}

type razorpayClient struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &razorpayClient{
		cfg: cfg,
		// Gateway unavailability must surface as a retryable failure,
		// never hang a request worker.
		http: &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *razorpayClient) KeyID() string { return c.cfg.KeyID }

type gatewayError struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

func (c *razorpayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*Order, error) {
	body := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	merged := map[string]string{"source": "submgmt"}
	for k, v := range notes {
		merged[k] = v
	}
	body["notes"] = merged

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay order create: %s", gatewayMessage(raw, "failed to create order"))
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return &order, nil
}

func (c *razorpayClient) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	endpoint := c.cfg.BaseURL + "/payments/" + url.PathEscape(paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay payment fetch: %s", gatewayMessage(raw, "failed to fetch payment details"))
	}

	var payment Payment
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}
	payment.Raw = raw
	return &payment, nil
}

// VerifyPaymentSignature checks the checkout callback signature:
// HMAC-SHA256 over "orderID|paymentID" with the key secret.
func (c *razorpayClient) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := hmacHex([]byte(orderID+"|"+paymentID), c.cfg.KeySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the webhook signature over the raw body
// with the dedicated webhook secret.
func (c *razorpayClient) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := hmacHex(body, c.cfg.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *razorpayClient) authHeader() string {
	creds := c.cfg.KeyID + ":" + c.cfg.KeySecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

func hmacHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func gatewayMessage(raw []byte, fallback string) string {
	var ge gatewayError
	if err := json.Unmarshal(raw, &ge); err == nil && ge.Error.Description != "" {
		return ge.Error.Description
	}
	return fallback
}
