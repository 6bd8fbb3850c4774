// Package tui is the terminal front end: an intro briefing, the live
// trading board, and the debrief screen, all driven by session
// snapshots.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/internal/ledger"
	"github.com/Mubymubu/Iqtisad/internal/session"
	"github.com/Mubymubu/Iqtisad/internal/session/service"
	"github.com/Mubymubu/Iqtisad/tui/panels"
	"github.com/Mubymubu/Iqtisad/tui/styles"
)

// PanelFocus represents which trading panel is currently focused.
type PanelFocus int

const (
	FocusBoard  PanelFocus = 0
	FocusStatus PanelFocus = 1
	FocusNews   PanelFocus = 2
)

const panelCount = 3

// Model is the main TUI application model.
type Model struct {
	svc *service.Service

	snap      session.Snapshot
	bestStars int

	// Panels
	boardPanel   *panels.BoardPanel
	statusPanel  *panels.StatusPanel
	newsPanel    *panels.NewsPanel
	introPanel   *panels.IntroPanel
	debriefPanel *panels.DebriefPanel

	// Focus management
	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	// Status
	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model.
func NewModel(svc *service.Service) *Model {
	m := &Model{
		svc:          svc,
		boardPanel:   panels.NewBoardPanel(),
		statusPanel:  panels.NewStatusPanel(),
		newsPanel:    panels.NewNewsPanel(),
		introPanel:   panels.NewIntroPanel(),
		debriefPanel: panels.NewDebriefPanel(),
	}
	m.applySnapshot(svc.Snapshot())
	m.bestStars = svc.BestStars(m.snap.LevelID)
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.boardPanel.Init(),
		m.statusPanel.Init(),
		m.newsPanel.Init(),
		m.introPanel.Init(),
		m.debriefPanel.Init(),
		m.listenSnapshots(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case snapshotMsg:
		wasDebrief := m.snap.Phase == session.PhaseDebrief
		m.applySnapshot(session.Snapshot(msg))
		if m.snap.Phase == session.PhaseDebrief && !wasDebrief {
			// Persistence may have just raised the saved best.
			m.bestStars = m.svc.BestStars(m.snap.LevelID)
		}
		cmds = append(cmds, m.listenSnapshots())

	case tradeResultMsg:
		m.statusMsg = msg.message
	}

	// Remaining keys go to the focused trading panel.
	if m.snap.Phase == session.PhaseTrading {
		m.updateFocusedPanel(msg, &cmds)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusBoard:
		m.boardPanel, cmd = m.boardPanel.Update(msg)
	case FocusStatus:
		m.statusPanel, cmd = m.statusPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.snap.Phase {
	case session.PhaseIntro:
		if msg.String() == "enter" || msg.String() == " " {
			return m.command(m.svc.Start, "")
		}

	case session.PhaseTrading:
		switch msg.String() {
		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % panelCount
		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = panelCount - 1
			}
		case "b":
			return m.trade(m.svc.Buy, "bought")
		case "s":
			return m.trade(m.svc.Sell, "sold")
		case " ", "p":
			if m.snap.Paused {
				return m.command(m.svc.Resume, "")
			}
			return m.command(m.svc.Pause, "")
		case "e":
			return m.command(m.svc.EndGame, "")
		}

	case session.PhaseDebrief:
		if msg.String() == "r" {
			m.statusMsg = ""
			return m.command(m.svc.PlayAgain, "")
		}
	}
	return nil
}

// command wraps a service call in a tea.Cmd so the funnel round trip
// never blocks rendering.
func (m *Model) command(fn func() error, okMsg string) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return tradeResultMsg{message: "✗ " + err.Error()}
		}
		return tradeResultMsg{message: okMsg}
	}
}

func (m *Model) trade(fn func(asset.ID) error, verb string) tea.Cmd {
	id := m.boardPanel.Selected()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		err := fn(id)
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return tradeResultMsg{message: "✗ not enough cash for " + string(id)}
		case err != nil:
			return tradeResultMsg{message: "✗ " + err.Error()}
		}
		return tradeResultMsg{message: "✓ " + verb + " 1 " + string(id)}
	}
}

func (m *Model) applySnapshot(snap session.Snapshot) {
	m.snap = snap
	m.boardPanel.SetAssets(snap.Assets)
	m.statusPanel.SetSnapshot(snap)
	m.newsPanel.SetEvent(snap.ActiveEvent)
	m.newsPanel.SetHeadlines(snap.Headlines)
	m.newsPanel.SetHint(m.currentHint())
	m.introPanel.SetSnapshot(snap)
	m.introPanel.SetBestStars(m.bestStars)
	m.debriefPanel.SetSnapshot(snap)
	m.debriefPanel.SetBestStars(m.bestStars)
}

// tutorialHints rotate on the news panel during goal-based sessions.
var tutorialHints = []string{
	"Select an asset with ↑/↓ and press b to buy one unit.",
	"Press s to sell. You profit when the price rose since you bought.",
	"Watch the change column. Green means the price just moved up.",
	"News shocks move a price immediately. React before the clock runs out.",
}

func (m *Model) currentHint() string {
	if !m.snap.GoalBased || m.snap.Phase != session.PhaseTrading {
		return ""
	}
	elapsed := m.snap.Duration - m.snap.TimeRemaining
	return tutorialHints[int(elapsed/8)%len(tutorialHints)]
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.snap.Phase {
	case session.PhaseIntro:
		m.introPanel.SetSize(m.width, m.height)
		return m.introPanel.View()
	case session.PhaseDebrief:
		m.debriefPanel.SetSize(m.width, m.height)
		return m.debriefPanel.View()
	}

	// Update focus states
	m.boardPanel.SetFocus(m.focusedPanel == FocusBoard)
	m.statusPanel.SetFocus(m.focusedPanel == FocusStatus)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)

	// Trading layout:
	// ┌───────────────────────┬───────────────┐
	// │        Market         │    Session    │
	// │                       ├───────────────┤
	// │                       │     News      │
	// ├───────────────────────┴───────────────┤
	// │               status bar              │
	// └───────────────────────────────────────┘
	leftWidth := m.width * 3 / 5
	rightWidth := m.width - leftWidth
	bodyHeight := m.height - 3
	statusHeight := bodyHeight * 2 / 5
	newsHeight := bodyHeight - statusHeight

	m.boardPanel.SetSize(leftWidth-2, bodyHeight-2)
	m.statusPanel.SetSize(rightWidth-2, statusHeight-2)
	m.newsPanel.SetSize(rightWidth-2, newsHeight-2)

	right := lipgloss.JoinVertical(lipgloss.Left, m.statusPanel.View(), m.newsPanel.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.boardPanel.View(), right)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("↑↓") + styles.StatusBarDescStyle.Render(" select"),
		styles.StatusBarKeyStyle.Render("b") + styles.StatusBarDescStyle.Render(" buy"),
		styles.StatusBarKeyStyle.Render("s") + styles.StatusBarDescStyle.Render(" sell"),
		styles.StatusBarKeyStyle.Render("space") + styles.StatusBarDescStyle.Render(" pause"),
		styles.StatusBarKeyStyle.Render("e") + styles.StatusBarDescStyle.Render(" end"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := help[0]
	for _, h := range help[1:] {
		helpStr += " │ " + h
	}

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) listenSnapshots() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.svc.Snapshots()
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// snapshotMsg carries a fresh session snapshot from the service.
type snapshotMsg session.Snapshot

// tradeResultMsg is sent after a command is processed.
type tradeResultMsg struct {
	message string
}
