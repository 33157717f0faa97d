package db

import (
	"context"
	"fmt"

	"hlwatcher/internal/position"
)

// EventStore appends classified events to the position_event table.
type EventStore struct {
	client *Client
}

func NewEventStore(client *Client) *EventStore {
	return &EventStore{client: client}
}

func (s *EventStore) InsertEvent(ctx context.Context, cycleID string, ev position.Event) error {
	record := ToEventRecord(cycleID, ev)
	if err := s.client.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%w: insert event: %v", ErrStorage, err)
	}
	return nil
}

// ListEvents returns the most recent events of an address, newest first.
func (s *EventStore) ListEvents(ctx context.Context, address string, limit int) ([]EventRecord, error) {
	var records []EventRecord
	err := s.client.DB.WithContext(ctx).
		Where("address = ?", address).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %v", ErrStorage, err)
	}
	return records, nil
}

// ToEventRecord converts a classified event into a row of the journal.
func ToEventRecord(cycleID string, ev position.Event) *EventRecord {
	record := &EventRecord{
		CycleID:    cycleID,
		Wallet:     ev.Wallet,
		Address:    ev.Address,
		Coin:       ev.Coin,
		Kind:       string(ev.Kind),
		EntryPrice: ev.Last().EntryPrice,
		Message:    ev.Message(),
	}
	if ev.Previous != nil {
		record.PreviousSize = position.Float(ev.Previous.Size)
	}
	if ev.Current != nil {
		record.CurrentSize = position.Float(ev.Current.Size)
	}
	return record
}
