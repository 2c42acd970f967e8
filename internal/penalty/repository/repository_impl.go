package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() penaltydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *penaltydomain.PenaltyRecord) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]penaltydomain.PenaltyRecord, error) {
	var records []penaltydomain.PenaltyRecord
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListPage(ctx context.Context, db *gorm.DB, userID string, after *pagination.Cursor, limit int) ([]penaltydomain.PenaltyRecord, error) {
	stmt := db.WithContext(ctx).Where("user_id = ?", userID)
	if after != nil {
		afterID, err := snowflake.ParseString(after.ID)
		if err != nil {
			return nil, pagination.ErrInvalidPageToken
		}
		stmt = stmt.Where("((occurred_at > ?) OR (occurred_at = ? AND id > ?))", after.OccurredAt, after.OccurredAt, afterID)
	}

	var records []penaltydomain.PenaltyRecord
	err := stmt.
		Order("occurred_at ASC").
		Order("id ASC").
		Limit(limit + 1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
