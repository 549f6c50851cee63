package repositories

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"submgmt/internal/models/db_models"
)

type ITransactionRepository interface {
	Create(ctx context.Context, txn *db_models.Transaction) error
	// MarkStatusByPaymentID updates every transaction carrying the
	// gateway payment id and reports how many rows changed; webhook
	// handling needs the count to decide whether to insert instead.
	MarkStatusByPaymentID(ctx context.Context, paymentID, status string, payload datatypes.JSON) (int64, error)
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) ITransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *db_models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *TransactionRepository) MarkStatusByPaymentID(ctx context.Context, paymentID, status string, payload datatypes.JSON) (int64, error) {
	fields := map[string]interface{}{"payment_status": status}
	if payload != nil {
		fields["gateway_response"] = payload
	}
	res := r.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("payment_id = ?", paymentID).
		Updates(fields)
	return res.RowsAffected, res.Error
}
