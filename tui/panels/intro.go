package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mubymubu/Iqtisad/internal/session"
	"github.com/Mubymubu/Iqtisad/tui/styles"
)

// IntroPanel is the pre-session briefing screen.
type IntroPanel struct {
	snap      session.Snapshot
	bestStars int

	width  int
	height int
}

// NewIntroPanel creates a new intro panel.
func NewIntroPanel() *IntroPanel {
	return &IntroPanel{}
}

// Init initializes the panel.
func (p *IntroPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages; the root model owns the start key.
func (p *IntroPanel) Update(msg tea.Msg) (*IntroPanel, tea.Cmd) {
	return p, nil
}

// SetSnapshot updates the displayed session state.
func (p *IntroPanel) SetSnapshot(snap session.Snapshot) { p.snap = snap }

// SetBestStars sets the previously saved best rating for this level.
func (p *IntroPanel) SetBestStars(stars int) { p.bestStars = stars }

// SetSize sets the panel dimensions.
func (p *IntroPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *IntroPanel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("IQTISAD"))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render("a market trading simulation"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Level           %s\n", strings.ToUpper(p.snap.LevelID)))
	b.WriteString(fmt.Sprintf("Duration        %s\n", styles.Clock(p.snap.Duration)))
	b.WriteString(fmt.Sprintf("Starting cash   %s\n", styles.Money(p.snap.StartingBalance)))
	if p.snap.GoalBased {
		b.WriteString(fmt.Sprintf("Goal            earn %s before time runs out\n", styles.Money(p.snap.ProfitGoal)))
	} else {
		b.WriteString(fmt.Sprintf("Best rating     %s\n", styles.Stars(p.bestStars, 3)))
	}
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Assets"))
	b.WriteString("\n")
	for _, a := range p.snap.Assets {
		b.WriteString(fmt.Sprintf("  %-10s %12s\n", a.Name, styles.Price(a.Price, a.Valuation)))
	}
	b.WriteString("\n")

	b.WriteString(styles.MutedStyle.Render("Buy low, sell high. News moves prices; the clock does not wait."))
	b.WriteString("\n\n")
	b.WriteString(styles.StatusBarKeyStyle.Render("enter") + styles.StatusBarDescStyle.Render(" start") +
		"   " + styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"))

	card := styles.FocusedPanelStyle.Render(b.String())
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, card)
}
