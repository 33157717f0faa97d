package hyperliquid

import (
	"context"
	"fmt"

	"hlwatcher/internal/position"

	"github.com/shopspring/decimal"
)

// InfoClient is a transport able to query a user's clearinghouse state.
// Both RESTClient and WSClient implement it.
type InfoClient interface {
	ClearinghouseState(ctx context.Context, user string) (*ClearinghouseState, error)
}

// Fetcher turns clearinghouse states into position snapshots.
type Fetcher struct {
	client InfoClient
}

func NewFetcher(client InfoClient) *Fetcher {
	return &Fetcher{client: client}
}

// FetchPositions returns the wallet's open positions keyed by coin.
func (f *Fetcher) FetchPositions(ctx context.Context, address string) (position.Set, error) {
	state, err := f.client.ClearinghouseState(ctx, address)
	if err != nil {
		return nil, err
	}
	return ToPositionSet(state)
}

// ToPositionSet converts the API representation, dropping zero-size entries.
func ToPositionSet(state *ClearinghouseState) (position.Set, error) {
	set := position.Set{}
	if state == nil {
		return set, nil
	}

	for _, ap := range state.AssetPositions {
		raw := ap.Position
		if raw.Coin == "" {
			return nil, fmt.Errorf("asset position without coin")
		}

		size, err := parseRequired(raw.Szi, "szi", raw.Coin)
		if err != nil {
			return nil, err
		}
		if size.IsZero() {
			continue
		}

		entry, err := parseRequired(raw.EntryPx, "entryPx", raw.Coin)
		if err != nil {
			return nil, err
		}
		pnl, err := parseRequired(raw.UnrealizedPnl, "unrealizedPnl", raw.Coin)
		if err != nil {
			return nil, err
		}
		value, err := parseOptional(&raw.PositionValue, "positionValue", raw.Coin)
		if err != nil {
			return nil, err
		}
		liq, err := parseOptional(raw.LiquidationPx, "liquidationPx", raw.Coin)
		if err != nil {
			return nil, err
		}

		set[raw.Coin] = position.Position{
			Size:             size.InexactFloat64(),
			EntryPrice:       entry.InexactFloat64(),
			PositionValue:    value,
			UnrealizedPnl:    pnl.InexactFloat64(),
			LiquidationPrice: liq,
			Leverage:         raw.Leverage.Value,
		}
	}

	return set, nil
}

func parseRequired(s, field, coin string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%s: missing %s", coin, field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: parse %s %q: %w", coin, field, s, err)
	}
	return d, nil
}

func parseOptional(s *string, field, coin string) (*float64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: parse %s %q: %w", coin, field, *s, err)
	}
	return position.Float(d.InexactFloat64()), nil
}
