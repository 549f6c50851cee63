package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"submgmt/internal/config"
	"submgmt/internal/events"
	"submgmt/internal/gateway"
	"submgmt/internal/models/db_models"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

const (
	gatewayRazorpay = "razorpay"
	gatewayTrial    = "trial"

	pendingIntentTTL = 15 * time.Minute
)

type PurchaseInput struct {
	UserID         uuid.UUID
	PlanID         uuid.UUID
	PlanAmount     float64
	ExpiryInMonths int
	Notes          map[string]string
}

type PurchaseResult struct {
	Trial          bool
	SubscriptionID *uuid.UUID
	OrderID        string
	KeyID          string
	Amount         int64 // minor units
	Currency       string
	Notes          map[string]string
}

type CompleteInput struct {
	SubscriptionID *uuid.UUID
	PaymentID      string
	OrderID        string
	Signature      string
}

type CompleteResult struct {
	TransactionID uuid.UUID
	PaymentStatus string
	Trial         bool
}

// PaymentService orchestrates the two-phase checkout: Purchase creates a
// gateway order (or a trial subscription directly), CompletePayment
// verifies and commits. No subscription row exists for a paid purchase
// until CompletePayment succeeds.
type PaymentService interface {
	Purchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error)
	CompletePayment(ctx context.Context, in CompleteInput) (*CompleteResult, error)
	CompleteTrial(ctx context.Context, subscriptionID uuid.UUID, notes map[string]string) (*CompleteResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type paymentService struct {
	plans       repositories.IPlanRepository
	subs        repositories.ISubscriptionRepository
	txns        repositories.ITransactionRepository
	intents     repositories.IPendingIntentRepository
	eligibility EligibilityService
	client      gateway.Client
	settings    config.Provider
	bus         *events.Bus
	now         func() time.Time
}

func NewPaymentService(
	plans repositories.IPlanRepository,
	subs repositories.ISubscriptionRepository,
	txns repositories.ITransactionRepository,
	intents repositories.IPendingIntentRepository,
	eligibility EligibilityService,
	client gateway.Client,
	settings config.Provider,
	bus *events.Bus,
) PaymentService {
	return &paymentService{
		plans:       plans,
		subs:        subs,
		txns:        txns,
		intents:     intents,
		eligibility: eligibility,
		client:      client,
		settings:    settings,
		bus:         bus,
		now:         time.Now,
	}
}

func (p *paymentService) Purchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	cfg, err := p.settings.Load(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	// The API layer already gates on eligibility; do not trust it.
	if err := p.eligibility.CanPurchase(ctx, in.UserID); err != nil {
		return nil, err
	}

	plan, err := p.plans.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if plan != nil && plan.IsTrial && cfg.TrialEnabled {
		return p.purchaseTrial(ctx, in, cfg)
	}

	if cfg.PaymentGateway != gatewayRazorpay {
		return nil, fmt.Errorf("%w: unsupported payment gateway %q", utils.ErrValidation, cfg.PaymentGateway)
	}
	return p.purchasePaid(ctx, in, cfg)
}

// purchaseTrial creates the subscription immediately: there is nothing
// to collect, so there is nothing to defer.
func (p *paymentService) purchaseTrial(ctx context.Context, in PurchaseInput, cfg config.Settings) (*PurchaseResult, error) {
	used, err := p.subs.CountForUserAndPlan(ctx, in.UserID, in.PlanID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if used > 0 {
		return nil, utils.ErrTrialAlreadyUsed
	}

	start, future, err := p.eligibility.ComputeStart(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	sub := p.buildSubscription(in.UserID, in.PlanID, 0, in.ExpiryInMonths, start, future, gstBreakdown{})
	sub.PaymentGateway = gatewayTrial
	if err := p.subs.CreatePurchase(ctx, sub, cfg.MaxFutureSubscriptions); err != nil {
		return nil, err
	}

	paymentID := gatewayTrial + "-" + sub.ID.String()
	status := db_models.TxnStatusSuccess
	remark := "Trial subscription"
	err = p.subs.Update(ctx, sub.ID, map[string]interface{}{
		"payment_id":     paymentID,
		"payment_status": status,
		"remark":         remark,
	})
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	p.bus.PublishSubscriptionCreated(ctx, events.SubscriptionCreated{
		SubscriptionID: sub.ID,
		UserID:         in.UserID,
		PlanID:         in.PlanID,
		PlanAmount:     0,
		ExpiryInMonths: in.ExpiryInMonths,
		Trial:          true,
	})

	subID := sub.ID
	return &PurchaseResult{
		Trial:          true,
		SubscriptionID: &subID,
		Amount:         0,
		Currency:       "INR",
		Notes:          in.Notes,
	}, nil
}

func (p *paymentService) purchasePaid(ctx context.Context, in PurchaseInput, cfg config.Settings) (*PurchaseResult, error) {
	base := in.PlanAmount
	charge := base
	var gstAmount float64
	if cfg.GSTEnabled && base > 0 && cfg.GSTPercentage > 0 {
		gstAmount = base * cfg.GSTPercentage / 100
		charge = base + gstAmount
	}

	notes := map[string]string{
		"gst_rate":    strconv.FormatFloat(cfg.GSTPercentage, 'f', -1, 64),
		"gst_amount":  fmt.Sprintf("%.2f", gstAmount),
		"base_amount": fmt.Sprintf("%.2f", base),
	}
	for k, v := range in.Notes {
		notes[k] = v
	}

	receipt := fmt.Sprintf("sub_init_%d_%.8s_%.8s", p.now().Unix(), in.UserID.String(), in.PlanID.String())
	order, err := p.client.CreateOrder(ctx, charge, "INR", receipt, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGatewayUnavailable, err)
	}

	notesJSON, _ := json.Marshal(notes)
	intent := &db_models.PendingIntent{
		OrderID:            order.ID,
		UserID:             in.UserID,
		PlanID:             in.PlanID,
		PlanAmount:         base, // base amount, not the taxed total
		PlanExpiryInMonths: in.ExpiryInMonths,
		Notes:              notesJSON,
		ExpiresAt:          p.now().Add(pendingIntentTTL),
	}
	if err := p.intents.Create(ctx, intent); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &PurchaseResult{
		OrderID:  order.ID,
		KeyID:    p.client.KeyID(),
		Amount:   order.Amount,
		Currency: order.Currency,
		Notes:    notes,
	}, nil
}

func (p *paymentService) CompletePayment(ctx context.Context, in CompleteInput) (*CompleteResult, error) {
	if !p.client.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature) {
		p.recordSignatureFailure(ctx, in)
		return nil, utils.ErrSignatureMismatch
	}

	payment, err := p.client.FetchPayment(ctx, in.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGatewayUnavailable, err)
	}

	cfg, err := p.settings.Load(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	var (
		subID  uuid.UUID
		userID uuid.UUID
		planID uuid.UUID
	)

	// Consume is an atomic check-and-delete: of two racing completions
	// for the same order, exactly one sees the intent.
	intent, err := p.intents.Consume(ctx, in.OrderID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if intent != nil {
		start, future, err := p.eligibility.ComputeStart(ctx, intent.UserID)
		if err != nil {
			return nil, err
		}

		gst := gstFromNotes(intent.Notes, intent.PlanAmount)
		gst.amountPaid = payment.AmountMajor()

		sub := p.buildSubscription(intent.UserID, intent.PlanID, intent.PlanAmount,
			intent.PlanExpiryInMonths, start, future, gst)
		if err := p.subs.CreatePurchase(ctx, sub, cfg.MaxFutureSubscriptions); err != nil {
			return nil, err
		}

		p.bus.PublishSubscriptionCreated(ctx, events.SubscriptionCreated{
			SubscriptionID: sub.ID,
			UserID:         intent.UserID,
			PlanID:         intent.PlanID,
			PlanAmount:     intent.PlanAmount,
			ExpiryInMonths: intent.PlanExpiryInMonths,
		})

		subID, userID, planID = sub.ID, intent.UserID, intent.PlanID
	} else {
		// Backward-compat: a caller that created the row up front.
		if in.SubscriptionID == nil {
			return nil, utils.ErrSubscriptionNotFound
		}
		sub, err := p.subs.GetByID(ctx, *in.SubscriptionID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if sub == nil {
			return nil, utils.ErrSubscriptionNotFound
		}
		subID, userID, planID = sub.ID, sub.UserID, sub.PlanID
	}

	txn := &db_models.Transaction{
		PlanID:          &planID,
		SubscriptionID:  &subID,
		UserID:          userID,
		Amount:          payment.AmountMajor(),
		Currency:        payment.Currency,
		PaymentGateway:  gatewayRazorpay,
		PaymentID:       payment.ID,
		PaymentStatus:   payment.Status,
		GatewayResponse: datatypes.JSON(payment.Raw),
	}
	if err := p.txns.Create(ctx, txn); err != nil {
		return nil, utils.ErrDatabaseError
	}

	now := p.now()
	err = p.subs.Update(ctx, subID, map[string]interface{}{
		"payment_id":     payment.ID,
		"payment_status": payment.Status,
		"order_id":       in.OrderID,
		"remark":         fmt.Sprintf("Razorpay order %s", in.OrderID),
		"currency_code":  payment.Currency,
		"subscribed_on":  now,
	})
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	p.bus.PublishPaymentCompleted(ctx, events.PaymentCompleted{
		SubscriptionID: subID,
		TransactionID:  txn.ID,
		PaymentStatus:  payment.Status,
	})

	return &CompleteResult{TransactionID: txn.ID, PaymentStatus: payment.Status}, nil
}

func (p *paymentService) CompleteTrial(ctx context.Context, subscriptionID uuid.UUID, notes map[string]string) (*CompleteResult, error) {
	sub, err := p.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}

	var payload datatypes.JSON
	if len(notes) > 0 {
		payload, _ = json.Marshal(notes)
	}
	planID := sub.PlanID
	subID := sub.ID
	txn := &db_models.Transaction{
		PlanID:          &planID,
		SubscriptionID:  &subID,
		UserID:          sub.UserID,
		Amount:          0,
		Currency:        sub.CurrencyCode,
		PaymentGateway:  gatewayTrial,
		PaymentID:       gatewayTrial + "-" + sub.ID.String(),
		PaymentStatus:   db_models.TxnStatusSuccess,
		GatewayResponse: payload,
	}
	if err := p.txns.Create(ctx, txn); err != nil {
		return nil, utils.ErrDatabaseError
	}

	p.bus.PublishPaymentCompleted(ctx, events.PaymentCompleted{
		SubscriptionID: sub.ID,
		TransactionID:  txn.ID,
		PaymentStatus:  db_models.TxnStatusSuccess,
		Trial:          true,
	})

	return &CompleteResult{
		TransactionID: txn.ID,
		PaymentStatus: db_models.TxnStatusSuccess,
		Trial:         true,
	}, nil
}

// recordSignatureFailure writes the audit transaction for a tampered or
// mismatched signature. The user is resolved from the pending intent
// when one exists; failures here are logged, never surfaced.
func (p *paymentService) recordSignatureFailure(ctx context.Context, in CompleteInput) {
	userID := uuid.Nil
	var planID *uuid.UUID
	if intent, err := p.intents.Peek(ctx, in.OrderID); err == nil && intent != nil {
		userID = intent.UserID
		pid := intent.PlanID
		planID = &pid
	}

	payload, _ := json.Marshal(map[string]string{"error": utils.ErrSignatureMismatch.Error()})
	txn := &db_models.Transaction{
		PlanID:          planID,
		UserID:          userID,
		Amount:          0,
		PaymentGateway:  gatewayRazorpay,
		PaymentID:       in.PaymentID,
		PaymentStatus:   db_models.TxnStatusFailed,
		GatewayResponse: payload,
	}
	if err := p.txns.Create(ctx, txn); err != nil {
		log.Printf("failed to record signature-failure transaction for payment %s (trace %s): %v",
			in.PaymentID, utils.TraceIDFromContext(ctx), err)
	}
}

type gstBreakdown struct {
	applied    bool
	percentage *int
	gstAmount  *float64
	baseAmount float64
	amountPaid float64
}

func gstFromNotes(raw datatypes.JSON, fallbackBase float64) gstBreakdown {
	gst := gstBreakdown{baseAmount: fallbackBase, amountPaid: fallbackBase}
	if len(raw) == 0 {
		return gst
	}
	var notes map[string]string
	if err := json.Unmarshal(raw, &notes); err != nil {
		return gst
	}
	if v, ok := notes["gst_rate"]; ok {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			gst.applied = true
			pct := int(rate)
			gst.percentage = &pct
		}
	}
	if v, ok := notes["gst_amount"]; ok {
		if amt, err := strconv.ParseFloat(v, 64); err == nil {
			gst.gstAmount = &amt
		}
	}
	if v, ok := notes["base_amount"]; ok {
		if amt, err := strconv.ParseFloat(v, 64); err == nil {
			gst.baseAmount = amt
		}
	}
	return gst
}

func (p *paymentService) buildSubscription(userID, planID uuid.UUID, amount float64, months int,
	start time.Time, future bool, gst gstBreakdown) *db_models.Subscription {

	status := db_models.SubStatusActive
	processing := db_models.ProcessingPaid
	lifecycle := db_models.LifecycleCurrent
	if future {
		status = db_models.SubStatusUpcoming
		processing = db_models.ProcessingUnused
		lifecycle = db_models.LifecycleFuture
	}

	base := gst.baseAmount
	paid := gst.amountPaid
	if base == 0 && amount > 0 {
		base = amount
	}

	now := p.now()
	createdBy := userID
	return &db_models.Subscription{
		UserID:               userID,
		PlanID:               planID,
		PlanAmount:           base,
		PlanExpiryInMonths:   months,
		CurrencyCode:         "INR",
		IsGSTApplied:         gst.applied,
		GSTPercentage:        gst.percentage,
		GSTAmount:            gst.gstAmount,
		BaseAmount:           base,
		AmountPaid:           paid,
		Status:               status,
		ProcessingStatus:     processing,
		IsActivePlan:         lifecycle,
		PaymentGateway:       gatewayRazorpay,
		SubscribedOn:         &now,
		SubscriptionStartsOn: start,
		SubscriptionEndsOn:   utils.AddMonths(start, months),
		CreatedBy:            &createdBy,
	}
}
