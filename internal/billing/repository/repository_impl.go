package repository

import (
	"context"
	"errors"

	billingdomain "github.com/smallbiznis/parkwise/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

// Insert stores rec. A second bill for the same session yields
// billingdomain.ErrDuplicateSession.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *billingdomain.BillingRecord) error {
	err := db.WithContext(ctx).Create(rec).Error
	if isUniqueViolation(err) {
		return billingdomain.ErrDuplicateSession
	}
	return err
}

func (r *repo) FindBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*billingdomain.BillingRecord, error) {
	var rec billingdomain.BillingRecord
	err := db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
