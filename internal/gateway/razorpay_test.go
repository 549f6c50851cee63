package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signWith(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrder(t *testing.T) {
	var captured struct {
		auth string
		body map[string]interface{}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":59000,"currency":"INR"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: srv.URL})
	order, err := client.CreateOrder(context.Background(), 590, "INR", "sub_init_1", map[string]string{"base_amount": "500.00"})
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(59000), order.Amount)

	assert.Equal(t, "Basic a2V5OnNlY3JldA==", captured.auth)
	assert.InDelta(t, 59000, captured.body["amount"].(float64), 0.001)
	notes := captured.body["notes"].(map[string]interface{})
	assert.Equal(t, "500.00", notes["base_amount"])
	assert.Equal(t, "submgmt", notes["source"])
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount exceeds maximum"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: srv.URL})
	_, err := client.CreateOrder(context.Background(), 1e9, "INR", "r", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount exceeds maximum")
}

func TestFetchPayment(t *testing.T) {
	body := `{"id":"pay_1","amount":59000,"currency":"INR","status":"captured","method":"upi"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay_1", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(Config{KeyID: "key", KeySecret: "secret", BaseURL: srv.URL})
	payment, err := client.FetchPayment(context.Background(), "pay_1")
	require.NoError(t, err)

	assert.Equal(t, "captured", payment.Status)
	assert.InDelta(t, 590.0, payment.AmountMajor(), 0.001)
	assert.JSONEq(t, body, string(payment.Raw))
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := NewClient(Config{KeySecret: "secret"})

	valid := signWith("secret", []byte("order_1|pay_1"))
	assert.True(t, client.VerifyPaymentSignature("order_1", "pay_1", valid))

	t.Run("wrong payment id", func(t *testing.T) {
		assert.False(t, client.VerifyPaymentSignature("order_1", "pay_2", valid))
	})
	t.Run("wrong secret", func(t *testing.T) {
		forged := signWith("guess", []byte("order_1|pay_1"))
		assert.False(t, client.VerifyPaymentSignature("order_1", "pay_1", forged))
	})
	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, client.VerifyPaymentSignature("order_1", "pay_1", ""))
	})
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient(Config{KeySecret: "secret", WebhookSecret: "whsecret"})
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, client.VerifyWebhookSignature(body, signWith("whsecret", body)))

	t.Run("key secret is not the webhook secret", func(t *testing.T) {
		assert.False(t, client.VerifyWebhookSignature(body, signWith("secret", body)))
	})
	t.Run("tampered body", func(t *testing.T) {
		sig := signWith("whsecret", body)
		assert.False(t, client.VerifyWebhookSignature([]byte(`{"event":"payment.failed"}`), sig))
	})
}
