package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"submgmt/internal/models/db_models"
)

type IPlanRepository interface {
	Create(ctx context.Context, plan *db_models.Plan) error
	Update(ctx context.Context, planID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, planID uuid.UUID) error
	GetByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]db_models.Plan, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p *PlanRepository) Create(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Create(plan).Error
}

func (p *PlanRepository) Update(ctx context.Context, planID uuid.UUID, fields map[string]interface{}) error {
	res := p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("id = ?", planID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (p *PlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	// Soft delete; historical subscriptions keep their own snapshot.
	return p.db.WithContext(ctx).Delete(&db_models.Plan{}, "id = ?", planID).Error
}

func (p *PlanRepository) GetByID(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (p *PlanRepository) List(ctx context.Context, activeOnly bool) ([]db_models.Plan, error) {
	q := p.db.WithContext(ctx).Order("sequence ASC")
	if activeOnly {
		q = q.Where("status = ?", db_models.PlanStatusActive)
	}
	var plans []db_models.Plan
	if err := q.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
