package events

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// SubscriptionCreated fires after a subscription row is committed,
// whether trial or paid, immediate or future-dated.
type SubscriptionCreated struct {
	SubscriptionID uuid.UUID
	UserID         uuid.UUID
	PlanID         uuid.UUID
	PlanAmount     float64
	ExpiryInMonths int
	Trial          bool
}

// PaymentCompleted fires after the transaction row is committed and the
// subscription updated with payment details.
type PaymentCompleted struct {
	SubscriptionID uuid.UUID
	TransactionID  uuid.UUID
	PaymentStatus  string
	Trial          bool
}

type SubscriptionCreatedListener interface {
	OnSubscriptionCreated(ctx context.Context, e SubscriptionCreated)
}

type PaymentCompletedListener interface {
	OnPaymentCompleted(ctx context.Context, e PaymentCompleted)
}

// Bus is a synchronous in-process dispatcher. Listeners run in publish
// order, after the publisher's own writes are committed; a panicking
// listener is logged and must not take down the request.
type Bus struct {
	mu               sync.RWMutex
	createdListeners []SubscriptionCreatedListener
	paymentListeners []PaymentCompletedListener
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribeSubscriptionCreated(l SubscriptionCreatedListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createdListeners = append(b.createdListeners, l)
}

func (b *Bus) SubscribePaymentCompleted(l PaymentCompletedListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paymentListeners = append(b.paymentListeners, l)
}

func (b *Bus) PublishSubscriptionCreated(ctx context.Context, e SubscriptionCreated) {
	b.mu.RLock()
	listeners := make([]SubscriptionCreatedListener, len(b.createdListeners))
	copy(listeners, b.createdListeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		dispatch(func() { l.OnSubscriptionCreated(ctx, e) })
	}
}

func (b *Bus) PublishPaymentCompleted(ctx context.Context, e PaymentCompleted) {
	b.mu.RLock()
	listeners := make([]PaymentCompletedListener, len(b.paymentListeners))
	copy(listeners, b.paymentListeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		dispatch(func() { l.OnPaymentCompleted(ctx, e) })
	}
}

func dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event listener panic: %v", r)
		}
	}()
	fn()
}
