package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mubymubu/Iqtisad/internal/session"
	"github.com/Mubymubu/Iqtisad/tui/styles"
)

// DebriefPanel is the post-session results screen.
type DebriefPanel struct {
	snap      session.Snapshot
	bestStars int

	width  int
	height int
}

// NewDebriefPanel creates a new debrief panel.
func NewDebriefPanel() *DebriefPanel {
	return &DebriefPanel{}
}

// Init initializes the panel.
func (p *DebriefPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages; the root model owns the replay keys.
func (p *DebriefPanel) Update(msg tea.Msg) (*DebriefPanel, tea.Cmd) {
	return p, nil
}

// SetSnapshot updates the displayed session state.
func (p *DebriefPanel) SetSnapshot(snap session.Snapshot) { p.snap = snap }

// SetBestStars sets the saved best rating for this level.
func (p *DebriefPanel) SetBestStars(stars int) { p.bestStars = stars }

// SetSize sets the panel dimensions.
func (p *DebriefPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *DebriefPanel) View() string {
	var b strings.Builder

	gain := p.snap.NetWorth.Sub(p.snap.StartingBalance)

	if p.snap.GoalBased {
		if p.snap.StarRating > 0 {
			b.WriteString(styles.GainStyle.Render("GOAL REACHED"))
		} else {
			b.WriteString(styles.LossStyle.Render("OUT OF TIME"))
		}
	} else {
		b.WriteString(styles.TitleStyle.Render("SESSION OVER"))
	}
	b.WriteString("\n\n")

	if p.snap.GoalBased {
		b.WriteString(styles.Stars(p.snap.StarRating, 1))
	} else {
		b.WriteString(styles.Stars(p.snap.StarRating, 3))
	}
	b.WriteString("\n\n")

	gainStr := styles.LossStyle.Render(styles.SignedMoney(gain))
	if !gain.IsNegative() {
		gainStr = styles.GainStyle.Render(styles.SignedMoney(gain))
	}

	b.WriteString(fmt.Sprintf("Started with    %s\n", styles.Money(p.snap.StartingBalance)))
	b.WriteString(fmt.Sprintf("Finished with   %s\n", styles.Money(p.snap.NetWorth)))
	b.WriteString(fmt.Sprintf("Net result      %s\n", gainStr))
	b.WriteString(fmt.Sprintf("Trades          %d\n", p.snap.TradeCount))
	if !p.snap.GoalBased {
		best := p.bestStars
		if p.snap.StarRating > best {
			best = p.snap.StarRating
		}
		b.WriteString(fmt.Sprintf("Best rating     %s\n", styles.Stars(best, 3)))
	}
	b.WriteString("\n")

	b.WriteString(styles.StatusBarKeyStyle.Render("r") + styles.StatusBarDescStyle.Render(" play again") +
		"   " + styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"))

	card := styles.FocusedPanelStyle.Render(b.String())
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, card)
}
