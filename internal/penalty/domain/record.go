package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/parkwise/pkg/db/pagination"
	"gorm.io/gorm"
)

// PenaltyRecord is the persisted form of a Penalty.
type PenaltyRecord struct {
	ID         snowflake.ID    `gorm:"primaryKey;autoIncrement:false"`
	UserID     string          `gorm:"column:user_id;type:varchar(128);not null;index:ix_penalty_records_user_occurred,priority:1"`
	Type       PenaltyType     `gorm:"column:type;type:varchar(128);not null"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(18,2);not null"`
	OccurredAt time.Time       `gorm:"column:occurred_at;not null;index:ix_penalty_records_user_occurred,priority:2"`
	CreatedAt  time.Time       `gorm:"not null"`
}

func (PenaltyRecord) TableName() string { return "penalty_records" }

func (r PenaltyRecord) Penalty() Penalty {
	return Penalty{Type: r.Type, Amount: r.Amount, Timestamp: r.OccurredAt.UTC()}
}

// Repository persists penalty records on the connection it is given, so
// callers can run it inside a transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *PenaltyRecord) error
	// ListByUser returns every record of the user, oldest first.
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]PenaltyRecord, error)
	// ListPage returns up to limit+1 records after cursor, oldest first.
	ListPage(ctx context.Context, db *gorm.DB, userID string, after *pagination.Cursor, limit int) ([]PenaltyRecord, error)
}

// HistoryStore loads and extends per-user penalty histories.
type HistoryStore interface {
	Load(ctx context.Context, userID string) (*PenaltyHistory, error)
	Append(ctx context.Context, userID string, p Penalty) error
}
