package position

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func btc() Position {
	return Position{
		Size:             1,
		EntryPrice:       50000,
		PositionValue:    Float(50000),
		UnrealizedPnl:    0,
		LiquidationPrice: Float(45000),
		Leverage:         10,
	}
}

// go test -v --run TestClassifyFirstSighting
func TestClassifyFirstSighting(t *testing.T) {
	events := Classify("whale", "0xabc", Set{"BTC": btc()}, Set{})

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, KindOpened, ev.Kind)
	assert.Equal(t, "BTC", ev.Coin)
	assert.Equal(t, "whale", ev.Wallet)
	assert.Equal(t, "0xabc", ev.Address)
	assert.Nil(t, ev.Previous)
	require.NotNil(t, ev.Current)
	assert.Equal(t, Long, ev.Current.Direction())
}

// go test -v --run TestClassifyIdempotent
func TestClassifyIdempotent(t *testing.T) {
	sets := []Set{
		{},
		{"BTC": btc()},
		{"ETH": {Size: -3, EntryPrice: 3000, UnrealizedPnl: 12}, "SOL": {Size: 10, EntryPrice: 150}},
	}
	for i, s := range sets {
		assert.Empty(t, Classify("w", "0x1", s, s), "set %d", i)
	}
}

// go test -v --run TestClassifyClosure
func TestClassifyClosure(t *testing.T) {
	tests := []struct {
		name string
		last Position
		want Kind
	}{
		{
			name: "loss beyond threshold is a liquidation",
			last: Position{Size: 10, EntryPrice: 100, LiquidationPrice: Float(90), UnrealizedPnl: -95.5},
			want: KindLiquidated,
		},
		{
			name: "moderate loss is a manual close",
			last: Position{Size: 10, EntryPrice: 100, LiquidationPrice: Float(90), UnrealizedPnl: -50},
			want: KindManualClose,
		},
		{
			name: "loss exactly at threshold is a manual close",
			last: Position{Size: 10, EntryPrice: 100, LiquidationPrice: Float(90), UnrealizedPnl: -95},
			want: KindManualClose,
		},
		{
			name: "short uses absolute size",
			last: Position{Size: -10, EntryPrice: 100, LiquidationPrice: Float(110), UnrealizedPnl: -96},
			want: KindLiquidated,
		},
		{
			name: "missing liquidation price is a manual close",
			last: Position{Size: 10, EntryPrice: 100, UnrealizedPnl: -100000},
			want: KindManualClose,
		},
		{
			name: "profit is a manual close",
			last: Position{Size: 10, EntryPrice: 100, LiquidationPrice: Float(90), UnrealizedPnl: 40},
			want: KindManualClose,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Classify("w", "0x1", Set{}, Set{"ETH": tt.last})
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Kind)
			assert.Nil(t, events[0].Current)
			assert.Equal(t, tt.last, events[0].Last())
		})
	}
}

// go test -v --run TestClassifyScaled
func TestClassifyScaled(t *testing.T) {
	tests := []struct {
		name    string
		old     float64
		new     float64
		scale   Scale
		flipped bool
	}{
		{"long grows", 1, 2, ScaleIn, false},
		{"long shrinks", 2, 0.5, ScaleOut, false},
		{"short grows", -1, -4, ScaleIn, false},
		{"short shrinks", -4, -1, ScaleOut, false},
		{"flip with larger size", 1, -3, ScaleIn, true},
		{"flip with equal size", 2, -2, ScaleOut, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Set{"ETH": {Size: tt.old, EntryPrice: 3000}}
			cur := Set{"ETH": {Size: tt.new, EntryPrice: 3100, LiquidationPrice: Float(2500)}}

			events := Classify("w", "0x1", cur, prev)
			require.Len(t, events, 1)
			ev := events[0]
			assert.Equal(t, KindScaled, ev.Kind)
			assert.Equal(t, tt.scale, ev.Scale())
			assert.Equal(t, tt.flipped, ev.Flipped())
			assert.Equal(t, tt.old, ev.Previous.Size)
			assert.Equal(t, tt.new, ev.Current.Size)
		})
	}
}

// go test -v --run TestClassifyIgnoresNonSizeChanges
func TestClassifyIgnoresNonSizeChanges(t *testing.T) {
	prev := Set{"BTC": btc()}
	moved := btc()
	moved.UnrealizedPnl = -1200
	moved.PositionValue = Float(48800)
	moved.Leverage = 20

	assert.Empty(t, Classify("w", "0x1", Set{"BTC": moved}, prev))
}

// go test -v --run TestClassifyOrder
func TestClassifyOrder(t *testing.T) {
	prev := Set{
		"SOL":  {Size: 5, EntryPrice: 150},
		"ARB":  {Size: 100, EntryPrice: 1},
		"ETH":  {Size: 1, EntryPrice: 3000},
		"DOGE": {Size: 1000, EntryPrice: 0.1},
	}
	cur := Set{
		"ETH":  {Size: 2, EntryPrice: 3000},
		"DOGE": {Size: 500, EntryPrice: 0.1},
		"XRP":  {Size: 10, EntryPrice: 0.5},
		"BTC":  {Size: 0.1, EntryPrice: 60000},
	}

	events := Classify("w", "0x1", cur, prev)

	var got []string
	for _, ev := range events {
		got = append(got, fmt.Sprintf("%s:%s", ev.Kind, ev.Coin))
	}
	assert.Equal(t, []string{
		"opened:BTC",
		"opened:XRP",
		"scaled:DOGE",
		"scaled:ETH",
		"closed:ARB",
		"closed:SOL",
	}, got)

	// identical inputs, identical output
	assert.Equal(t, events, Classify("w", "0x1", cur, prev))
}

// go test -v --run TestClassifyKeySets
func TestClassifyKeySets(t *testing.T) {
	coins := []string{"BTC", "ETH", "SOL", "ARB", "DOGE", "HYPE", "XRP", "AVAX"}
	rng := rand.New(rand.NewSource(42))

	randomSet := func() Set {
		s := Set{}
		for _, coin := range coins {
			if rng.Intn(2) == 0 {
				continue
			}
			size := float64(rng.Intn(5) + 1)
			if rng.Intn(2) == 0 {
				size = -size
			}
			s[coin] = Position{
				Size:             size,
				EntryPrice:       float64(rng.Intn(1000) + 1),
				UnrealizedPnl:    float64(rng.Intn(200) - 100),
				LiquidationPrice: Float(float64(rng.Intn(1000) + 1)),
			}
		}
		return s
	}

	for i := 0; i < 200; i++ {
		prev, cur := randomSet(), randomSet()
		events := Classify("w", "0x1", cur, prev)

		opened := map[string]bool{}
		closed := map[string]bool{}
		for _, ev := range events {
			switch ev.Kind {
			case KindOpened:
				opened[ev.Coin] = true
			case KindManualClose, KindLiquidated:
				closed[ev.Coin] = true
			case KindScaled:
				require.Contains(t, prev, ev.Coin)
				require.Contains(t, cur, ev.Coin)
				require.NotEqual(t, prev[ev.Coin].Size, cur[ev.Coin].Size)
			}
		}

		for coin := range cur {
			_, inPrev := prev[coin]
			assert.Equal(t, !inPrev, opened[coin], "iteration %d coin %s", i, coin)
		}
		for coin := range prev {
			_, inCur := cur[coin]
			assert.Equal(t, !inCur, closed[coin], "iteration %d coin %s", i, coin)
		}
		for coin := range opened {
			assert.Contains(t, cur, coin)
		}
		for coin := range closed {
			assert.Contains(t, prev, coin)
		}
	}
}
