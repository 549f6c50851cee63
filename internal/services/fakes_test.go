package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"submgmt/internal/config"
	"submgmt/internal/gateway"
	"submgmt/internal/models/db_models"
	"submgmt/internal/models/response_models"
	"submgmt/internal/repositories"
	"submgmt/pkg/utils"
)

// In-memory stand-ins for the repository layer. They record every write
// so tests can assert on what the services persisted.

type fieldUpdate struct {
	id     uuid.UUID
	fields map[string]interface{}
}

type fakeSubscriptionRepo struct {
	active         *db_models.Subscription
	upcoming       []db_models.Subscription
	historyCount   int64
	byID           map[uuid.UUID]*db_models.Subscription
	expiring       []db_models.Subscription
	nextUpcoming   map[uuid.UUID]*db_models.Subscription
	dueForReminder []db_models.Subscription
	stats          response_models.SubscriptionStats

	created   []*db_models.Subscription
	updates   []fieldUpdate
	createErr error
	updateErr map[uuid.UUID]error
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		byID:         map[uuid.UUID]*db_models.Subscription{},
		nextUpcoming: map[uuid.UUID]*db_models.Subscription{},
		updateErr:    map[uuid.UUID]error{},
	}
}

func (f *fakeSubscriptionRepo) FindActiveForUser(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	return f.active, nil
}

func (f *fakeSubscriptionRepo) FindUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error) {
	return f.upcoming, nil
}

func (f *fakeSubscriptionRepo) CountUpcomingForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.upcoming)), nil
}

func (f *fakeSubscriptionRepo) CountForUserAndPlan(ctx context.Context, userID, planID uuid.UUID) (int64, error) {
	return f.historyCount, nil
}

func (f *fakeSubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	return f.byID[id], nil
}

func (f *fakeSubscriptionRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error) {
	var out []db_models.Subscription
	for _, sub := range f.byID {
		if sub.UserID == userID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

// CreatePurchase runs the same commit-time recheck the SQL layer runs
// under the per-user advisory lock, so races the read-time eligibility
// check missed are rejected here too.
func (f *fakeSubscriptionRepo) CreatePurchase(ctx context.Context, sub *db_models.Subscription, maxFuture int) error {
	if f.createErr != nil {
		return f.createErr
	}
	if sub.IsActivePlan == db_models.LifecycleCurrent {
		if f.currentCount(sub.UserID) > 0 {
			return utils.ErrAlreadySubscribed
		}
	} else if f.futureCount(sub.UserID) >= maxFuture {
		return utils.ErrUpcomingLimit
	}
	sub.ID = uuid.New()
	f.created = append(f.created, sub)
	f.byID[sub.ID] = sub
	return nil
}

func (f *fakeSubscriptionRepo) currentCount(userID uuid.UUID) int {
	n := 0
	if f.active != nil && f.active.Status == db_models.SubStatusActive &&
		f.active.IsActivePlan == db_models.LifecycleCurrent {
		n++
	}
	for _, sub := range f.byID {
		if sub != f.active && sub.UserID == userID &&
			sub.Status == db_models.SubStatusActive && sub.IsActivePlan == db_models.LifecycleCurrent {
			n++
		}
	}
	return n
}

func (f *fakeSubscriptionRepo) futureCount(userID uuid.UUID) int {
	n := len(f.upcoming)
	for _, sub := range f.byID {
		if sub.UserID == userID &&
			sub.Status == db_models.SubStatusUpcoming && sub.IsActivePlan == db_models.LifecycleFuture {
			n++
		}
	}
	return n
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if err, ok := f.updateErr[id]; ok {
		return err
	}
	if _, ok := f.byID[id]; !ok {
		found := false
		for i := range f.expiring {
			if f.expiring[i].ID == id {
				found = true
			}
		}
		for i := range f.dueForReminder {
			if f.dueForReminder[i].ID == id {
				found = true
			}
		}
		for _, next := range f.nextUpcoming {
			if next != nil && next.ID == id {
				found = true
			}
		}
		if !found {
			return gorm.ErrRecordNotFound
		}
	}
	f.updates = append(f.updates, fieldUpdate{id: id, fields: fields})
	return nil
}

func (f *fakeSubscriptionRepo) ListExpiringBefore(ctx context.Context, now time.Time) ([]db_models.Subscription, error) {
	return f.expiring, nil
}

func (f *fakeSubscriptionRepo) FindNextUpcoming(ctx context.Context, userID uuid.UUID, startsAfter time.Time) (*db_models.Subscription, error) {
	return f.nextUpcoming[userID], nil
}

func (f *fakeSubscriptionRepo) ListDueForReminder(ctx context.Context, windowEnd, now time.Time) ([]db_models.Subscription, error) {
	return f.dueForReminder, nil
}

func (f *fakeSubscriptionRepo) Stats(ctx context.Context) (response_models.SubscriptionStats, error) {
	return f.stats, nil
}

func (f *fakeSubscriptionRepo) updatesFor(id uuid.UUID) []map[string]interface{} {
	var out []map[string]interface{}
	for _, u := range f.updates {
		if u.id == id {
			out = append(out, u.fields)
		}
	}
	return out
}

type fakePlanRepo struct {
	plans     map[uuid.UUID]*db_models.Plan
	deleted   []uuid.UUID
	updateErr error
}

func newFakePlanRepo(plans ...*db_models.Plan) *fakePlanRepo {
	f := &fakePlanRepo{plans: map[uuid.UUID]*db_models.Plan{}}
	for _, plan := range plans {
		if plan.ID == uuid.Nil {
			plan.ID = uuid.New()
		}
		f.plans[plan.ID] = plan
	}
	return f
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *db_models.Plan) error {
	plan.ID = uuid.New()
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakePlanRepo) Update(ctx context.Context, planID uuid.UUID, fields map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	plan, ok := f.plans[planID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		plan.Name = v.(string)
	}
	if v, ok := fields["slug"]; ok {
		plan.Slug = v.(string)
	}
	if v, ok := fields["amount"]; ok {
		plan.Amount = v.(float64)
	}
	if v, ok := fields["expiry_in_months"]; ok {
		plan.ExpiryInMonths = v.(int)
	}
	if v, ok := fields["status"]; ok {
		plan.Status = v.(db_models.PlanStatus)
	}
	return nil
}

func (f *fakePlanRepo) Delete(ctx context.Context, planID uuid.UUID) error {
	delete(f.plans, planID)
	f.deleted = append(f.deleted, planID)
	return nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	return f.plans[planID], nil
}

func (f *fakePlanRepo) List(ctx context.Context, activeOnly bool) ([]db_models.Plan, error) {
	var out []db_models.Plan
	for _, plan := range f.plans {
		if activeOnly && plan.Status != db_models.PlanStatusActive {
			continue
		}
		out = append(out, *plan)
	}
	return out, nil
}

type fakeTransactionRepo struct {
	created     []*db_models.Transaction
	marked      []string
	markedRows  int64
	createErr   error
	markErr     error
	lastPayload []byte
}

func (f *fakeTransactionRepo) Create(ctx context.Context, txn *db_models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	txn.ID = uuid.New()
	f.created = append(f.created, txn)
	return nil
}

func (f *fakeTransactionRepo) MarkStatusByPaymentID(ctx context.Context, paymentID, status string, payload datatypes.JSON) (int64, error) {
	if f.markErr != nil {
		return 0, f.markErr
	}
	f.marked = append(f.marked, paymentID+":"+status)
	f.lastPayload = payload
	return f.markedRows, nil
}

type fakeIntentRepo struct {
	intents map[string]*db_models.PendingIntent
	created []*db_models.PendingIntent
}

func newFakeIntentRepo() *fakeIntentRepo {
	return &fakeIntentRepo{intents: map[string]*db_models.PendingIntent{}}
}

func (f *fakeIntentRepo) Create(ctx context.Context, intent *db_models.PendingIntent) error {
	intent.ID = uuid.New()
	f.intents[intent.OrderID] = intent
	f.created = append(f.created, intent)
	return nil
}

func (f *fakeIntentRepo) Peek(ctx context.Context, orderID string) (*db_models.PendingIntent, error) {
	intent, ok := f.intents[orderID]
	if !ok || intent.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return intent, nil
}

func (f *fakeIntentRepo) Consume(ctx context.Context, orderID string) (*db_models.PendingIntent, error) {
	intent, ok := f.intents[orderID]
	if !ok || intent.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	delete(f.intents, orderID)
	return intent, nil
}

func (f *fakeIntentRepo) PurgeExpired(ctx context.Context) (int64, error) {
	var purged int64
	for id, intent := range f.intents {
		if intent.ExpiresAt.Before(time.Now()) {
			delete(f.intents, id)
			purged++
		}
	}
	return purged, nil
}

type createdOrder struct {
	amount   float64
	currency string
	receipt  string
	notes    map[string]string
}

type fakeGatewayClient struct {
	order        *gateway.Order
	orderErr     error
	payment      *gateway.Payment
	paymentErr   error
	validSig     bool
	validWebhook bool

	orders []createdOrder
}

func (f *fakeGatewayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*gateway.Order, error) {
	f.orders = append(f.orders, createdOrder{amount: amount, currency: currency, receipt: receipt, notes: notes})
	return f.order, f.orderErr
}

func (f *fakeGatewayClient) FetchPayment(ctx context.Context, paymentID string) (*gateway.Payment, error) {
	return f.payment, f.paymentErr
}

func (f *fakeGatewayClient) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return f.validSig
}

func (f *fakeGatewayClient) VerifyWebhookSignature(body []byte, signature string) bool {
	return f.validWebhook
}

func (f *fakeGatewayClient) KeyID() string { return "rzp_test_key" }

type sentMail struct {
	to       string
	userName string
	data     SubscriptionEmail
	reminder bool
}

type fakeMailService struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeMailService) SendSubscriptionSuccess(ctx context.Context, to, userName string, data SubscriptionEmail, cfg config.Settings) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, userName: userName, data: data})
	return nil
}

func (f *fakeMailService) SendRenewalReminder(ctx context.Context, to, userName string, data SubscriptionEmail, cfg config.Settings) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, userName: userName, data: data, reminder: true})
	return nil
}

type fakeUserDirectory struct {
	users map[uuid.UUID]*repositories.UserRecord
}

func newFakeUserDirectory(users ...*repositories.UserRecord) *fakeUserDirectory {
	f := &fakeUserDirectory{users: map[uuid.UUID]*repositories.UserRecord{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserDirectory) GetByID(ctx context.Context, userID uuid.UUID) (*repositories.UserRecord, error) {
	return f.users[userID], nil
}
