package position

import "math"

// Kind is the semantic class of a change between two snapshots.
type Kind string

const (
	KindOpened      Kind = "opened"
	KindScaled      Kind = "scaled"
	KindManualClose Kind = "closed"
	KindLiquidated  Kind = "liquidated"
)

// Scale tells whether a scaled position grew or shrank.
type Scale string

const (
	ScaleIn  Scale = "in"
	ScaleOut Scale = "out"
)

// liquidationFactor discounts the loss needed to reach the liquidation
// price before a closure is reported as a probable liquidation.
const liquidationFactor = 0.95

// Event is one classified change of a wallet's position on a coin.
// Previous is nil for KindOpened; Current is nil for the closed family.
type Event struct {
	Kind     Kind
	Wallet   string // Display name from the wallet list
	Address  string
	Coin     string
	Previous *Position
	Current  *Position
}

// Scale reports ScaleIn when the absolute size grew and ScaleOut otherwise.
// Only meaningful for KindScaled.
func (e Event) Scale() Scale {
	if e.Previous == nil || e.Current == nil {
		return ""
	}
	if e.Current.AbsSize() > e.Previous.AbsSize() {
		return ScaleIn
	}
	return ScaleOut
}

// Flipped reports a scaled event whose direction changed sign in one step.
func (e Event) Flipped() bool {
	if e.Previous == nil || e.Current == nil {
		return false
	}
	return e.Previous.Direction() != e.Current.Direction()
}

// Last returns the most recent known state of the position.
func (e Event) Last() Position {
	if e.Current != nil {
		return *e.Current
	}
	if e.Previous != nil {
		return *e.Previous
	}
	return Position{}
}

// Classify compares the current snapshot of a wallet with the previous one
// and returns one event per changed coin. Opened events come first, then
// scaled, then closures; each group is ordered by coin.
func Classify(walletName, walletAddress string, current, previous Set) []Event {
	var opened, scaled, closed []Event

	for _, coin := range current.Coins() {
		cur := current[coin]
		prev, ok := previous[coin]
		if !ok {
			opened = append(opened, Event{
				Kind:    KindOpened,
				Wallet:  walletName,
				Address: walletAddress,
				Coin:    coin,
				Current: &cur,
			})
			continue
		}
		if prev.Size != cur.Size {
			scaled = append(scaled, Event{
				Kind:     KindScaled,
				Wallet:   walletName,
				Address:  walletAddress,
				Coin:     coin,
				Previous: &prev,
				Current:  &cur,
			})
		}
	}

	for _, coin := range previous.Coins() {
		if _, ok := current[coin]; ok {
			continue
		}
		prev := previous[coin]
		closed = append(closed, Event{
			Kind:     closureKind(prev),
			Wallet:   walletName,
			Address:  walletAddress,
			Coin:     coin,
			Previous: &prev,
		})
	}

	events := make([]Event, 0, len(opened)+len(scaled)+len(closed))
	events = append(events, opened...)
	events = append(events, scaled...)
	return append(events, closed...)
}

// closureKind guesses from the last sampled PnL whether a position that
// disappeared was liquidated. It is a heuristic, not a venue signal.
func closureKind(last Position) Kind {
	if last.LiquidationPrice == nil {
		return KindManualClose
	}
	threshold := math.Abs(last.EntryPrice-*last.LiquidationPrice) * last.AbsSize() * liquidationFactor
	if last.UnrealizedPnl < -threshold {
		return KindLiquidated
	}
	return KindManualClose
}
