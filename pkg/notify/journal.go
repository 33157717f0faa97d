package notify

import (
	"context"

	"hlwatcher/internal/position"
)

// EventWriter persists events; implemented by db.EventStore.
type EventWriter interface {
	InsertEvent(ctx context.Context, cycleID string, ev position.Event) error
}

// Journal keeps the history of every alert in the database.
type Journal struct {
	store EventWriter
}

func NewJournal(store EventWriter) *Journal {
	return &Journal{store: store}
}

func (j *Journal) Notify(ctx context.Context, ev position.Event) error {
	return j.store.InsertEvent(ctx, CycleID(ctx), ev)
}
