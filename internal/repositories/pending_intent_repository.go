package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"submgmt/internal/models/db_models"
)

type IPendingIntentRepository interface {
	Create(ctx context.Context, intent *db_models.PendingIntent) error
	// Peek reads an unexpired intent without consuming it.
	Peek(ctx context.Context, orderID string) (*db_models.PendingIntent, error)
	// Consume atomically deletes and returns the unexpired intent for
	// orderID, or nil when another completion already took it. This is
	// the at-most-once guard for concurrent webhook + client callbacks.
	Consume(ctx context.Context, orderID string) (*db_models.PendingIntent, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type PendingIntentRepository struct {
	db *gorm.DB
}

func NewPendingIntentRepository(db *gorm.DB) IPendingIntentRepository {
	return &PendingIntentRepository{db: db}
}

func (r *PendingIntentRepository) Create(ctx context.Context, intent *db_models.PendingIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *PendingIntentRepository) Peek(ctx context.Context, orderID string) (*db_models.PendingIntent, error) {
	var intent db_models.PendingIntent
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND expires_at > ?", orderID, time.Now()).
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (r *PendingIntentRepository) Consume(ctx context.Context, orderID string) (*db_models.PendingIntent, error) {
	var intents []db_models.PendingIntent
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("order_id = ? AND expires_at > ?", orderID, time.Now()).
		Unscoped().
		Delete(&intents)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(intents) == 0 {
		return nil, nil
	}
	return &intents[0], nil
}

func (r *PendingIntentRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Unscoped().
		Delete(&db_models.PendingIntent{})
	return res.RowsAffected, res.Error
}
