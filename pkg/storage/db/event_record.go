package db

import "time"

// EventRecord is one classified position event, kept as an append-only history.
type EventRecord struct {
	ID uint `gorm:"primaryKey"`

	CycleID string `gorm:"type:varchar(36);not null;index:idx_event_cycle"`
	Wallet  string `gorm:"type:text;not null;index:idx_event_wallet_coin"`
	Address string `gorm:"type:text;not null"`
	Coin    string `gorm:"type:text;not null;index:idx_event_wallet_coin"`
	Kind    string `gorm:"type:varchar(16);not null"`

	PreviousSize *float64 `gorm:"type:double precision"`
	CurrentSize  *float64 `gorm:"type:double precision"`
	EntryPrice   float64  `gorm:"type:double precision;not null"`
	Message      string   `gorm:"type:text;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime;index:idx_event_recorded_at"`
}

// TableName overrides the default table name for GORM.
func (EventRecord) TableName() string {
	return "position_event"
}
