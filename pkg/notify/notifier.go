package notify

import (
	"context"
	"errors"
	"fmt"

	"hlwatcher/internal/position"

	"go.uber.org/zap"
)

// ErrDelivery is returned when a sink rejected or could not receive an alert.
var ErrDelivery = errors.New("notification not delivered")

// Notifier delivers one classified event to an outbound channel.
type Notifier interface {
	Notify(ctx context.Context, ev position.Event) error
}

type cycleKey struct{}

// WithCycleID tags ctx with the id of the poll cycle that produced the events.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleKey{}, id)
}

// CycleID returns the poll cycle id carried by ctx, or "".
func CycleID(ctx context.Context) string {
	id, _ := ctx.Value(cycleKey{}).(string)
	return id
}

// Multi fans an event out to every sink in order. A failing sink does not
// stop the others; all failures are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev position.Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}

// Log writes every event to the process log.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(ctx context.Context, ev position.Event) error {
	last := ev.Last()
	fields := []zap.Field{
		zap.String("cycle", CycleID(ctx)),
		zap.String("kind", string(ev.Kind)),
		zap.String("wallet", ev.Wallet),
		zap.String("address", ev.Address),
		zap.String("coin", ev.Coin),
		zap.Float64("size", last.Size),
		zap.Float64("entry", last.EntryPrice),
	}
	if ev.Kind == position.KindScaled {
		fields = append(fields,
			zap.Float64("old_size", ev.Previous.Size),
			zap.String("scale", string(ev.Scale())),
			zap.Bool("flipped", ev.Flipped()),
		)
	}
	l.logger.Info("position event", fields...)
	return nil
}
