package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"submgmt/internal/models/db_models"
	"submgmt/pkg/utils"
)

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook ingests a gateway webhook delivery. Only payment.captured
// and payment.failed are acted on; other events are acknowledged.
func (p *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !p.client.VerifyWebhookSignature(body, signature) {
		return utils.ErrSignatureMismatch
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook payload", utils.ErrValidation)
	}
	entity := event.Payload.Payment.Entity

	switch event.Event {
	case "payment.captured":
		if _, err := p.txns.MarkStatusByPaymentID(ctx, entity.ID, db_models.TxnStatusSuccess, nil); err != nil {
			return utils.ErrDatabaseError
		}
		log.Printf("payment captured via webhook: %s", entity.ID)

	case "payment.failed":
		updated, err := p.txns.MarkStatusByPaymentID(ctx, entity.ID, db_models.TxnStatusFailed, datatypes.JSON(body))
		if err != nil {
			return utils.ErrDatabaseError
		}
		if updated == 0 {
			// No transaction yet: the payment failed before completion
			// ever ran. Record it, resolving the user from the pending
			// intent when possible (the subscription does not exist).
			userID := uuid.Nil
			var planID *uuid.UUID
			if entity.OrderID != "" {
				if intent, err := p.intents.Peek(ctx, entity.OrderID); err == nil && intent != nil {
					userID = intent.UserID
					pid := intent.PlanID
					planID = &pid
				}
			}
			txn := &db_models.Transaction{
				PlanID:          planID,
				UserID:          userID,
				Amount:          float64(entity.Amount) / 100,
				PaymentGateway:  gatewayRazorpay,
				PaymentID:       entity.ID,
				PaymentStatus:   db_models.TxnStatusFailed,
				GatewayResponse: datatypes.JSON(body),
			}
			if err := p.txns.Create(ctx, txn); err != nil {
				return utils.ErrDatabaseError
			}
		}
		log.Printf("payment failed via webhook: %s (order: %s)", entity.ID, entity.OrderID)
	}

	return nil
}
