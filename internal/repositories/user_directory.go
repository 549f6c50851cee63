package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRecord is the slice of a CMS user this module cares about.
type UserRecord struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// IUserDirectory resolves user ids to contact details. Users belong to
// the host CMS; this module only reads them.
type IUserDirectory interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*UserRecord, error)
}

type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) IUserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) GetByID(ctx context.Context, userID uuid.UUID) (*UserRecord, error) {
	var rec UserRecord
	err := d.db.WithContext(ctx).
		Table("users").
		Select("id, email, display_name").
		Where("id = ?", userID).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
