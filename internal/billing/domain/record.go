package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingRecord is a settled bill. SessionID is unique, so settling the
// same session twice yields the first record.
type BillingRecord struct {
	ID             snowflake.ID    `gorm:"primaryKey;autoIncrement:false"`
	SessionID      string          `gorm:"column:session_id;type:varchar(128);not null;uniqueIndex:ux_billing_records_session"`
	UserID         string          `gorm:"column:user_id;type:varchar(128);index:ix_billing_records_user"`
	ZoneType       string          `gorm:"column:zone_type;type:varchar(128);not null"`
	EntryTime      time.Time       `gorm:"column:entry_time;not null"`
	ExitTime       time.Time       `gorm:"column:exit_time;not null"`
	DurationHours  int64           `gorm:"column:duration_hours;not null"`
	DayType        string          `gorm:"column:day_type;type:varchar(128);not null"`
	TimeBand       string          `gorm:"column:time_band;type:varchar(128);not null"`
	TaxRate        decimal.Decimal `gorm:"column:tax_rate;type:numeric(7,4);not null"`
	BasePrice      decimal.Decimal `gorm:"column:base_price;type:numeric(18,2);not null"`
	DiscountsTotal decimal.Decimal `gorm:"column:discounts_total;type:numeric(18,2);not null"`
	PenaltiesTotal decimal.Decimal `gorm:"column:penalties_total;type:numeric(18,2);not null"`
	NetPrice       decimal.Decimal `gorm:"column:net_price;type:numeric(18,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(18,2);not null"`
	FinalPrice     decimal.Decimal `gorm:"column:final_price;type:numeric(18,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

func (BillingRecord) TableName() string { return "billing_records" }

func (r BillingRecord) Result() BillingResult {
	return BillingResult{
		BasePrice:      r.BasePrice,
		DiscountsTotal: r.DiscountsTotal,
		PenaltiesTotal: r.PenaltiesTotal,
		NetPrice:       r.NetPrice,
		TaxAmount:      r.TaxAmount,
		FinalPrice:     r.FinalPrice,
	}
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *BillingRecord) error
	FindBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*BillingRecord, error)
}
