package db

import "time"

// PositionRecord is one row of the last committed snapshot of a wallet.
type PositionRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Wallet string `gorm:"type:text;not null;index:idx_position_wallet_coin,unique"`
	Coin   string `gorm:"type:text;not null;index:idx_position_wallet_coin,unique"`

	Size          float64  `gorm:"type:double precision;not null"`
	EntryPrice    float64  `gorm:"type:double precision;not null"`
	UnrealizedPnl float64  `gorm:"type:double precision;not null"`
	PositionValue *float64 `gorm:"type:double precision"`
	LiquidationPx *float64 `gorm:"type:double precision"`
	Leverage      float64  `gorm:"type:double precision;not null"`
	Direction     string   `gorm:"type:varchar(5);not null"`

	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name for GORM.
func (PositionRecord) TableName() string {
	return "position_snapshot"
}
