package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mubymubu/Iqtisad/internal/session"
	"github.com/Mubymubu/Iqtisad/tui/styles"
)

// StatusPanel shows the countdown clock and the player's balances.
type StatusPanel struct {
	snap session.Snapshot

	focused bool
	width   int
	height  int
}

// NewStatusPanel creates a new status panel.
func NewStatusPanel() *StatusPanel {
	return &StatusPanel{}
}

// Init initializes the panel.
func (p *StatusPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages. The status panel is display-only.
func (p *StatusPanel) Update(msg tea.Msg) (*StatusPanel, tea.Cmd) {
	return p, nil
}

// SetSnapshot updates the displayed session state.
func (p *StatusPanel) SetSnapshot(snap session.Snapshot) { p.snap = snap }

// SetFocus sets the focus state.
func (p *StatusPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *StatusPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *StatusPanel) View() string {
	var b strings.Builder

	clock := styles.Clock(p.snap.TimeRemaining)
	title := "Session " + clock
	if p.snap.TimeRemaining <= 10 && p.snap.TimeRemaining > 0 {
		title = "Session " + styles.LossStyle.Render(clock)
	}
	b.WriteString(styles.RenderTitle(title))
	if p.snap.Paused {
		b.WriteString("  " + styles.PausedStyle.Render("⏸ PAUSED"))
	}
	b.WriteString("\n\n")

	gain := p.snap.NetWorth.Sub(p.snap.StartingBalance)
	gainStr := styles.LossStyle.Render(styles.SignedMoney(gain))
	if !gain.IsNegative() {
		gainStr = styles.GainStyle.Render(styles.SignedMoney(gain))
	}

	b.WriteString(fmt.Sprintf("%s %s\n", styles.HeaderStyle.Render("Cash      "), styles.MoneyStyle.Render(styles.Money(p.snap.Cash))))
	b.WriteString(fmt.Sprintf("%s %s\n", styles.HeaderStyle.Render("Portfolio "), styles.MoneyStyle.Render(styles.Money(p.snap.PortfolioValue))))
	b.WriteString(fmt.Sprintf("%s %s  %s\n", styles.HeaderStyle.Render("Net worth "), styles.MoneyStyle.Render(styles.Money(p.snap.NetWorth)), gainStr))
	b.WriteString(fmt.Sprintf("%s %d\n", styles.HeaderStyle.Render("Trades    "), p.snap.TradeCount))

	if p.snap.GoalBased {
		b.WriteString("\n")
		reached := gain.GreaterThanOrEqual(p.snap.ProfitGoal)
		goal := fmt.Sprintf("Goal: earn %s", styles.Money(p.snap.ProfitGoal))
		if reached {
			goal += "  ✓"
			b.WriteString(styles.GainStyle.Render(goal))
		} else {
			b.WriteString(styles.MutedStyle.Render(goal))
		}
		b.WriteString("\n")
	}

	style := styles.PanelStyle
	if p.focused {
		style = styles.FocusedPanelStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
