package memory

import (
	"context"
	"sync"

	"hlwatcher/internal/position"
)

// PositionStore keeps wallet snapshots in process memory. Nothing survives a
// restart, so it is meant for dry runs and tests.
type PositionStore struct {
	mu      sync.Mutex
	wallets map[string]position.Set
}

func NewPositionStore() *PositionStore {
	return &PositionStore{
		wallets: make(map[string]position.Set),
	}
}

func (m *PositionStore) Load(_ context.Context, wallet string) (position.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid race
	return clone(m.wallets[wallet]), nil
}

// Save swaps in a copy of the set; readers never observe a partial snapshot.
func (m *PositionStore) Save(_ context.Context, wallet string, set position.Set) error {
	cp := clone(set)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet] = cp
	return nil
}

// Wallets returns the addresses that have a stored snapshot.
func (m *PositionStore) Wallets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.wallets))
	for w := range m.wallets {
		out = append(out, w)
	}
	return out
}

func clone(set position.Set) position.Set {
	cp := make(position.Set, len(set))
	for coin, p := range set {
		if p.PositionValue != nil {
			p.PositionValue = position.Float(*p.PositionValue)
		}
		if p.LiquidationPrice != nil {
			p.LiquidationPrice = position.Float(*p.LiquidationPrice)
		}
		cp[coin] = p
	}
	return cp
}
