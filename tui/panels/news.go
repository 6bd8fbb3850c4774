package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mubymubu/Iqtisad/internal/news"
	"github.com/Mubymubu/Iqtisad/tui/styles"
)

// NewsPanel shows the active market event as a banner and the recent
// headline tape below it. During the tutorial it also rotates hints.
type NewsPanel struct {
	active    *news.Event
	headlines []news.Event
	hint      string

	focused bool
	width   int
	height  int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages. The news panel is display-only.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	return p, nil
}

// SetEvent sets the active event banner; nil clears it.
func (p *NewsPanel) SetEvent(ev *news.Event) { p.active = ev }

// SetHeadlines replaces the headline tape, newest first.
func (p *NewsPanel) SetHeadlines(headlines []news.Event) { p.headlines = headlines }

// SetHint sets the tutorial hint line; empty hides it.
func (p *NewsPanel) SetHint(hint string) { p.hint = hint }

// SetFocus sets the focus state.
func (p *NewsPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var b strings.Builder

	b.WriteString(styles.RenderTitle("News"))
	b.WriteString("\n\n")

	if p.active != nil {
		banner := fmt.Sprintf("⚡ %s  (%+.0f%% %s)",
			p.active.Headline, p.active.Impact*100, p.active.AssetName)
		style := styles.NegativeEventStyle
		if p.active.Direction == news.DirectionPositive {
			style = styles.PositiveEventStyle
		}
		b.WriteString(style.Render(banner))
		b.WriteString("\n\n")
	}

	// Newest first, bounded by the panel height.
	max := p.height - 6
	if max < 3 {
		max = 3
	}
	shown := 0
	for i := len(p.headlines) - 1; i >= 0 && shown < max; i-- {
		ev := p.headlines[i]
		mark := styles.LossStyle.Render("▼")
		if ev.Direction == news.DirectionPositive {
			mark = styles.GainStyle.Render("▲")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			styles.MutedStyle.Render(styles.Clock(ev.Time)), mark, ev.Headline))
		shown++
	}
	if shown == 0 && p.active == nil {
		b.WriteString(styles.MutedStyle.Render("no headlines yet"))
		b.WriteString("\n")
	}

	if p.hint != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render("💡 " + p.hint))
	}

	style := styles.PanelStyle
	if p.focused {
		style = styles.FocusedPanelStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
