package db

import (
	"context"
	"fmt"
	"time"

	"hlwatcher/internal/position"

	"gorm.io/gorm"
)

// PositionStore keeps the most recent position snapshot of every wallet.
type PositionStore struct {
	client *Client
	now    func() time.Time
}

func NewPositionStore(client *Client) *PositionStore {
	return &PositionStore{client: client, now: time.Now}
}

// Load returns the last saved snapshot of the wallet, or an empty set if the
// wallet has never been saved.
func (s *PositionStore) Load(ctx context.Context, wallet string) (position.Set, error) {
	var records []PositionRecord
	err := s.client.DB.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("coin").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStorage, wallet, err)
	}

	set := make(position.Set, len(records))
	for _, r := range records {
		set[r.Coin] = r.toPosition()
	}
	return set, nil
}

// Save replaces every stored row of the wallet with the given set inside a
// single transaction. Either the whole snapshot is swapped or nothing changes.
func (s *PositionStore) Save(ctx context.Context, wallet string, set position.Set) error {
	now := s.now().UTC()

	records := make([]PositionRecord, 0, len(set))
	for _, coin := range set.Coins() {
		records = append(records, toPositionRecord(wallet, coin, set[coin], now))
	}

	err := s.client.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet = ?", wallet).Delete(&PositionRecord{}).Error; err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorage, wallet, err)
	}
	return nil
}

func toPositionRecord(wallet, coin string, p position.Position, now time.Time) PositionRecord {
	return PositionRecord{
		Wallet:        wallet,
		Coin:          coin,
		Size:          p.Size,
		EntryPrice:    p.EntryPrice,
		UnrealizedPnl: p.UnrealizedPnl,
		PositionValue: p.PositionValue,
		LiquidationPx: p.LiquidationPrice,
		Leverage:      p.Leverage,
		Direction:     string(p.Direction()),
		UpdatedAt:     now,
	}
}

func (r PositionRecord) toPosition() position.Position {
	return position.Position{
		Size:             r.Size,
		EntryPrice:       r.EntryPrice,
		PositionValue:    r.PositionValue,
		UnrealizedPnl:    r.UnrealizedPnl,
		LiquidationPrice: r.LiquidationPx,
		Leverage:         r.Leverage,
	}
}
