package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/tui/styles"
)

// BoardPanel lists the session's assets with price, movement and the
// player's position, and tracks which asset the trade keys act on.
type BoardPanel struct {
	assets   []asset.Asset
	selected int

	focused bool
	width   int
	height  int
}

// NewBoardPanel creates a new asset board panel.
func NewBoardPanel() *BoardPanel {
	return &BoardPanel{focused: true}
}

// Init initializes the panel.
func (p *BoardPanel) Init() tea.Cmd {
	return nil
}

// Update handles selection movement.
func (p *BoardPanel) Update(msg tea.Msg) (*BoardPanel, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || len(p.assets) == 0 {
		return p, nil
	}

	switch {
	case key.Matches(k, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selected > 0 {
			p.selected--
		}
	case key.Matches(k, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selected < len(p.assets)-1 {
			p.selected++
		}
	case key.Matches(k, key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"))):
		n := int(k.String()[0] - '1')
		if n < len(p.assets) {
			p.selected = n
		}
	}
	return p, nil
}

// SetAssets replaces the displayed assets, preserving the selection.
func (p *BoardPanel) SetAssets(assets []asset.Asset) {
	p.assets = assets
	if p.selected >= len(assets) {
		p.selected = 0
	}
}

// Selected returns the currently selected asset ID, or "" when the
// board is empty.
func (p *BoardPanel) Selected() asset.ID {
	if len(p.assets) == 0 {
		return ""
	}
	return p.assets[p.selected].ID
}

// SetFocus sets the focus state.
func (p *BoardPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *BoardPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *BoardPanel) View() string {
	var b strings.Builder

	b.WriteString(styles.RenderTitle("Market"))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-2s %-10s %12s %9s %5s %12s %14s",
		"#", "ASSET", "PRICE", "CHANGE", "QTY", "AVG COST", "VALUE")
	b.WriteString(styles.HeaderStyle.Render(header))
	b.WriteString("\n")

	for i, a := range p.assets {
		avgCost, value := "-", "-"
		if a.Owned() {
			avgCost = styles.Money(a.AvgCost)
			value = styles.Money(a.MarketValue())
		}

		// Pad each column before styling so ANSI codes never skew
		// the layout.
		name := fmt.Sprintf("%-10s", a.Name)
		price := fmt.Sprintf("%12s", styles.Price(a.Price, a.Valuation))
		change := fmt.Sprintf("%+8.2f%%", a.ChangePct)
		pos := fmt.Sprintf("%5d %12s %14s", a.Quantity, avgCost, value)

		if i == p.selected {
			row := fmt.Sprintf("▸ %-2d %s %s %s %s", i+1, name, price, change, pos)
			b.WriteString(styles.SelectedRowStyle.Render(row))
		} else {
			changeStyled := styles.LossStyle.Render(change)
			if a.Gain {
				changeStyled = styles.GainStyle.Render(change)
			}
			b.WriteString(fmt.Sprintf("  %-2d %s %s %s %s", i+1, name, price, changeStyled, pos))
		}
		b.WriteString("\n")
	}

	if len(p.assets) == 0 {
		b.WriteString(styles.MutedStyle.Render("  no tradable assets"))
		b.WriteString("\n")
	}

	style := styles.PanelStyle
	if p.focused {
		style = styles.FocusedPanelStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
