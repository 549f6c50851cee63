package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"submgmt/internal/models/db_models"
	"submgmt/internal/models/response_models"
	"submgmt/pkg/utils"
)

type ISubscriptionRepository interface {
	FindActiveForUser(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error)
	FindUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error)
	CountUpcomingForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountForUserAndPlan(ctx context.Context, userID, planID uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error)

	// CreatePurchase inserts a purchase row while holding a per-user
	// advisory lock and re-checks the lifecycle invariants inside the
	// same transaction. Returns utils.ErrAlreadySubscribed or
	// utils.ErrUpcomingLimit when a concurrent purchase won the race.
	CreatePurchase(ctx context.Context, sub *db_models.Subscription, maxFuture int) error

	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	ListExpiringBefore(ctx context.Context, now time.Time) ([]db_models.Subscription, error)
	FindNextUpcoming(ctx context.Context, userID uuid.UUID, startsAfter time.Time) (*db_models.Subscription, error)
	ListDueForReminder(ctx context.Context, windowEnd, now time.Time) ([]db_models.Subscription, error)

	Stats(ctx context.Context) (response_models.SubscriptionStats, error)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) FindActiveForUser(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND is_active_plan = ? AND processing_status = ?",
			userID, db_models.SubStatusActive, db_models.LifecycleCurrent, db_models.ProcessingPaid).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) FindUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND is_active_plan = ?",
			userID, db_models.SubStatusUpcoming, db_models.LifecycleFuture).
		Order("subscription_starts_on ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) CountUpcomingForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("user_id = ? AND status = ? AND is_active_plan = ?",
			userID, db_models.SubStatusUpcoming, db_models.LifecycleFuture).
		Count(&n).Error
	return n, err
}

func (r *SubscriptionRepository) CountForUserAndPlan(ctx context.Context, userID, planID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Count(&n).Error
	return n, err
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) CreatePurchase(ctx context.Context, sub *db_models.Subscription, maxFuture int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize purchases per user for the rest of the transaction.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", sub.UserID.String()).Error; err != nil {
			return err
		}

		if sub.IsActivePlan == db_models.LifecycleCurrent {
			var n int64
			err := tx.Model(&db_models.Subscription{}).
				Where("user_id = ? AND status = ? AND is_active_plan = ?",
					sub.UserID, db_models.SubStatusActive, db_models.LifecycleCurrent).
				Count(&n).Error
			if err != nil {
				return err
			}
			if n > 0 {
				return utils.ErrAlreadySubscribed
			}
		} else {
			var n int64
			err := tx.Model(&db_models.Subscription{}).
				Where("user_id = ? AND status = ? AND is_active_plan = ?",
					sub.UserID, db_models.SubStatusUpcoming, db_models.LifecycleFuture).
				Count(&n).Error
			if err != nil {
				return err
			}
			if int(n) >= maxFuture {
				return utils.ErrUpcomingLimit
			}
		}

		if err := tx.Create(sub).Error; err != nil {
			// The partial unique index on (user_id) WHERE active is the
			// backstop for writers not going through this path.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrAlreadySubscribed
			}
			return err
		}
		return nil
	})
}

func (r *SubscriptionRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SubscriptionRepository) ListExpiringBefore(ctx context.Context, now time.Time) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("subscription_ends_on < ? AND is_active_plan <> ?", now, db_models.LifecycleExpired).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) FindNextUpcoming(ctx context.Context, userID uuid.UUID, startsAfter time.Time) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND is_active_plan = ? AND processing_status = ? AND subscription_starts_on >= ?",
			userID, db_models.SubStatusUpcoming, db_models.LifecycleFuture, db_models.ProcessingUnused, startsAfter).
		Order("subscription_starts_on ASC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) ListDueForReminder(ctx context.Context, windowEnd, now time.Time) ([]db_models.Subscription, error) {
	var subs []db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active_plan = ? AND processing_status = ?",
			db_models.SubStatusActive, db_models.LifecycleCurrent, db_models.ProcessingPaid).
		Where("subscription_ends_on <= ? AND subscription_ends_on > ?", windowEnd, now).
		Where("renewal_reminder_sent = ?", false).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) Stats(ctx context.Context) (response_models.SubscriptionStats, error) {
	var stats response_models.SubscriptionStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&db_models.Subscription{}).Count(&stats.TotalSubscriptions).Error; err != nil {
		return stats, err
	}
	err := db.Model(&db_models.Subscription{}).
		Where("status = ? AND is_active_plan = ?", db_models.SubStatusActive, db_models.LifecycleCurrent).
		Count(&stats.ActiveSubscriptions).Error
	if err != nil {
		return stats, err
	}
	err = db.Model(&db_models.Transaction{}).
		Where("payment_status IN ?", []string{db_models.TxnStatusCaptured, db_models.TxnStatusSuccess}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return stats, err
	}
	err = db.Model(&db_models.Subscription{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -30).Unix()).
		Count(&stats.RecentSubscriptions).Error
	return stats, err
}
