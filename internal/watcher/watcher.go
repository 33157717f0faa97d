package watcher

import (
	"context"
	"fmt"
	"time"

	"hlwatcher/internal/position"
	"hlwatcher/internal/wallet"
	"hlwatcher/pkg/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchErrorPolicy decides what a failed fetch means for a wallet.
type FetchErrorPolicy string

const (
	// TreatAsFlat substitutes an empty snapshot: every stored position is
	// reported as closed and the empty set is saved. A transient outage
	// therefore produces spurious closures.
	TreatAsFlat FetchErrorPolicy = "flat"
	// SkipWallet leaves the wallet out of the cycle; its stored snapshot stays
	// as it was and is compared again on the next successful fetch.
	SkipWallet FetchErrorPolicy = "skip"
)

// Fetcher returns the current open positions of a wallet.
type Fetcher interface {
	FetchPositions(ctx context.Context, address string) (position.Set, error)
}

// Store holds the last committed snapshot of each wallet.
type Store interface {
	Load(ctx context.Context, wallet string) (position.Set, error)
	Save(ctx context.Context, wallet string, set position.Set) error
}

// WalletSource yields the wallets to poll; called once per cycle.
type WalletSource func() ([]wallet.Wallet, error)

type Options struct {
	PollInterval time.Duration
	OnFetchError FetchErrorPolicy
}

// Watcher runs the poll loop: for every wallet, fetch, compare with the
// stored snapshot, alert, and store the new snapshot. Wallets are processed
// one after another and cycles never overlap.
type Watcher struct {
	fetcher  Fetcher
	store    Store
	notifier notify.Notifier
	wallets  WalletSource
	metrics  *Metrics
	logger   *zap.Logger

	interval time.Duration
	policy   FetchErrorPolicy
	newID    func() string
}

func New(opts Options, wallets WalletSource, fetcher Fetcher, store Store,
	notifier notify.Notifier, metrics *Metrics, logger *zap.Logger) (*Watcher, error) {
	if opts.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", opts.PollInterval)
	}
	switch opts.OnFetchError {
	case TreatAsFlat, SkipWallet:
	default:
		return nil, fmt.Errorf("unknown fetch error policy %q", opts.OnFetchError)
	}

	return &Watcher{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		wallets:  wallets,
		metrics:  metrics,
		logger:   logger,
		interval: opts.PollInterval,
		policy:   opts.OnFetchError,
		newID:    func() string { return uuid.NewString() },
	}, nil
}

// Run polls until ctx is cancelled. The interval is slept after each cycle
// finishes, so the period is processing time plus the interval.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started",
		zap.Duration("interval", w.interval),
		zap.String("on_fetch_error", string(w.policy)))
	if w.policy == TreatAsFlat {
		w.logger.Warn("fetch failures are treated as flat wallets; a transient API error reports every open position as closed")
	}

	for {
		w.RunCycle(ctx)

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("watcher stopped", zap.Error(ctx.Err()))
			return nil
		case <-timer.C:
		}
	}
}

// CycleReport summarises one pass over the wallet list.
type CycleReport struct {
	ID      string
	Wallets int
	Events  int
	Skipped int
}

// RunCycle processes every configured wallet once.
func (w *Watcher) RunCycle(ctx context.Context) CycleReport {
	start := time.Now()
	report := CycleReport{ID: w.newID()}
	ctx = notify.WithCycleID(ctx, report.ID)
	log := w.logger.With(zap.String("cycle", report.ID))

	wallets, err := w.wallets()
	if err != nil {
		log.Error("failed to load wallets, nothing to poll this cycle", zap.Error(err))
		wallets = nil
	}
	w.metrics.Wallets.Set(float64(len(wallets)))

	for _, wl := range wallets {
		if ctx.Err() != nil {
			log.Info("cycle interrupted", zap.Int("done", report.Wallets))
			break
		}

		events, ok := w.processWallet(ctx, log, wl)
		report.Wallets++
		report.Events += events
		if !ok {
			report.Skipped++
		}
	}

	w.metrics.Cycles.Inc()
	w.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	log.Debug("cycle finished",
		zap.Int("wallets", report.Wallets),
		zap.Int("events", report.Events),
		zap.Int("skipped", report.Skipped),
		zap.Duration("took", time.Since(start)))

	return report
}

// processWallet runs fetch → load → classify → notify → save for one wallet.
// It returns the number of events emitted and false when the wallet was skipped.
func (w *Watcher) processWallet(ctx context.Context, log *zap.Logger, wl wallet.Wallet) (int, bool) {
	log = log.With(zap.String("wallet", wl.Name), zap.String("address", wl.Address))

	current, err := w.fetcher.FetchPositions(ctx, wl.Address)
	if err != nil {
		w.metrics.FetchFailures.Inc()
		if w.policy == SkipWallet {
			log.Warn("fetch failed, skipping wallet this cycle", zap.Error(err))
			return 0, false
		}
		log.Warn("fetch failed, treating wallet as flat", zap.Error(err))
		current = position.Set{}
	}

	previous, err := w.store.Load(ctx, wl.Address)
	if err != nil {
		w.metrics.StoreFailures.WithLabelValues("load").Inc()
		log.Error("failed to load previous snapshot, comparing against empty", zap.Error(err))
		previous = position.Set{}
	}

	events := position.Classify(wl.Name, wl.Address, current, previous)
	for _, ev := range events {
		w.metrics.Events.WithLabelValues(string(ev.Kind)).Inc()
		if err := w.notifier.Notify(ctx, ev); err != nil {
			w.metrics.NotifyFailures.Inc()
			log.Error("failed to deliver event",
				zap.String("coin", ev.Coin),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err))
		}
	}

	if err := w.store.Save(ctx, wl.Address, current); err != nil {
		w.metrics.StoreFailures.WithLabelValues("save").Inc()
		log.Error("failed to save snapshot", zap.Error(err))
	}

	log.Debug("wallet processed", zap.Int("positions", len(current)), zap.Int("events", len(events)))
	return len(events), true
}
