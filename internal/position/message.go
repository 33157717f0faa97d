package position

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// unknown is printed in place of optional values the venue did not report.
const unknown = "N/A"

// Message renders the event as the plain-text alert sent to the notification sinks.
func (e Event) Message() string {
	var b strings.Builder

	switch e.Kind {
	case KindOpened:
		p := e.Last()
		fmt.Fprintf(&b, "📈 **%s** opened a new %s position on **%s**\n", e.Wallet, p.Direction(), e.Coin)
		fmt.Fprintf(&b, "• Size: %s\n", formatSize(p.Size))
		fmt.Fprintf(&b, "• Value: %s $\n", formatOptional(p.PositionValue))
		fmt.Fprintf(&b, "• Entry price: %s\n", formatPrice(p.EntryPrice))
		fmt.Fprintf(&b, "• Liquidation: %s", formatOptional(p.LiquidationPrice))

	case KindScaled:
		icon := "🔼"
		if e.Scale() == ScaleOut {
			icon = "🔽"
		}
		fmt.Fprintf(&b, "%s **%s** scaled %s on **%s**\n", icon, e.Wallet, e.Scale(), e.Coin)
		fmt.Fprintf(&b, "• Size: %s → %s\n", formatSize(e.Previous.Size), formatSize(e.Current.Size))
		if e.Flipped() {
			fmt.Fprintf(&b, "• Direction flipped: %s → %s\n", e.Previous.Direction(), e.Current.Direction())
		}
		fmt.Fprintf(&b, "• Entry price: %s\n", formatPrice(e.Current.EntryPrice))
		fmt.Fprintf(&b, "• Liquidation: %s", formatOptional(e.Current.LiquidationPrice))

	case KindManualClose, KindLiquidated:
		reason := "❌ Manual close"
		if e.Kind == KindLiquidated {
			reason = "💥 Probable liquidation"
		}
		p := e.Last()
		fmt.Fprintf(&b, "%s for **%s** on **%s**\n", reason, e.Wallet, e.Coin)
		fmt.Fprintf(&b, "• Previous size: %s at %s", formatSize(p.Size), formatPrice(p.EntryPrice))

	default:
		fmt.Fprintf(&b, "%s: %s on %s", e.Kind, e.Wallet, e.Coin)
	}

	return b.String()
}

func formatSize(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatOptional(v *float64) string {
	if v == nil {
		return unknown
	}
	return formatPrice(*v)
}
