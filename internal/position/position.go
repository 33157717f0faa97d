package position

import "sort"

// Direction is the side of a derivatives position, derived from the sign of its size.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Position is one open derivatives position of a wallet on a single coin.
type Position struct {
	Size             float64  `json:"size"`             // Signed size in coin units; sign encodes direction
	EntryPrice       float64  `json:"entryPrice"`       // Average entry price
	PositionValue    *float64 `json:"positionValue"`    // Notional at current mark (optional)
	UnrealizedPnl    float64  `json:"unrealizedPnl"`    // Signed unrealized PnL
	LiquidationPrice *float64 `json:"liquidationPrice"` // Nil when the venue reports no threshold
	Leverage         float64  `json:"leverage"`         // Informational only
}

// Direction returns Long for positive sizes and Short otherwise.
// A zero-size position is never stored, so the fallback is never observed.
func (p Position) Direction() Direction {
	if p.Size > 0 {
		return Long
	}
	return Short
}

// AbsSize returns the magnitude of the position.
func (p Position) AbsSize() float64 {
	if p.Size < 0 {
		return -p.Size
	}
	return p.Size
}

// Set maps a coin symbol to the wallet's position on it at one sampled instant.
type Set map[string]Position

// Coins returns the coins held in the set in lexicographic order.
func (s Set) Coins() []string {
	coins := make([]string, 0, len(s))
	for coin := range s {
		coins = append(coins, coin)
	}
	sort.Strings(coins)
	return coins
}

// Float returns a pointer to v, for filling the optional fields of a Position.
func Float(v float64) *float64 {
	return &v
}
