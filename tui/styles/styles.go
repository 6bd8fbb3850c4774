// Package styles defines shared lipgloss styles and money formatting
// for the TUI.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // purple
	AccentColor  = lipgloss.Color("#F59E0B") // amber
	GainColor    = lipgloss.Color("#10B981") // green
	LossColor    = lipgloss.Color("#EF4444") // red
	TextColor    = lipgloss.Color("#E5E7EB")
	MutedColor   = lipgloss.Color("#6B7280")
	BgColor      = lipgloss.Color("#111827")
	BorderColor  = lipgloss.Color("#374151")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(PrimaryColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(PrimaryColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)
)

// Value styles
var (
	GainStyle = lipgloss.NewStyle().Foreground(GainColor)
	LossStyle = lipgloss.NewStyle().Foreground(LossColor)

	MoneyStyle = lipgloss.NewStyle().Foreground(TextColor).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(MutedColor)

	StarStyle      = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	StarEmptyStyle = lipgloss.NewStyle().Foreground(MutedColor)

	PausedStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true).
			Blink(true)

	PositiveEventStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(GainColor).
				Foreground(GainColor).
				Bold(true).
				Padding(0, 2)

	NegativeEventStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(LossColor).
				Foreground(LossColor).
				Bold(true).
				Padding(0, 2)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BgColor).
			Foreground(TextColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(MutedColor)
)

// RenderTitle renders a panel title.
func RenderTitle(title string) string {
	return TitleStyle.Render("── " + title + " ──")
}

// Money renders a decimal amount as dollars with two places and
// thousands separators, e.g. $10,020.00.
func Money(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]
	out := ""
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out += ","
		}
		out += string(c)
	}
	if neg {
		return "-$" + out + frac
	}
	return "$" + out + frac
}

// SignedMoney is Money with an explicit leading sign for deltas.
func SignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return Money(d)
	}
	return "+" + Money(d)
}

// Price renders a simulated price. Valuation assets use a condensed
// form ($22.0K, $1.3M) since their figures run to six digits.
func Price(price float64, valuation bool) string {
	if !valuation {
		return Money(decimal.NewFromFloat(price).Round(2))
	}
	switch {
	case price >= 1_000_000:
		return fmt.Sprintf("$%.1fM", price/1_000_000)
	case price >= 1_000:
		return fmt.Sprintf("$%.1fK", price/1_000)
	default:
		return fmt.Sprintf("$%.0f", price)
	}
}

// Clock renders remaining time units as M:SS.
func Clock(remaining int64) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
}

// Stars renders n of out filled stars, e.g. ★★☆.
func Stars(n, out int) string {
	s := ""
	for i := 0; i < out; i++ {
		if i < n {
			s += StarStyle.Render("★")
		} else {
			s += StarEmptyStyle.Render("☆")
		}
	}
	return s
}
