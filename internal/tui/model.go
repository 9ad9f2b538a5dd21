package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/botboard-io/botboard/internal/client"
	"github.com/botboard-io/botboard/internal/models"
)

// Model is the root Bubbletea model for the dashboard.
type Model struct {
	src        client.Source
	preferReal bool
	interval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	// Data
	board       *client.Board
	rows        []client.Row
	activities  []models.Activity
	activityFor string
	lastUpdated time.Time
	loading     bool
	stale       bool // last refresh failed; showing older data

	// UI state
	selected     int
	focusedPanel int
	showHelp     bool
	splitRatio   float64
	width        int
	height       int
	err          error

	// Child components
	spinner  spinner.Model
	progress progress.Model
	detail   viewport.Model
	help     help.Model

	now func() time.Time
}

// NewModel creates the initial dashboard model.
func NewModel(src client.Source, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		src:        src,
		preferReal: opts.PreferReal,
		interval:   opts.Interval,
		ctx:        ctx,
		cancel:     cancel,
		splitRatio: 0.4,
		loading:    true,
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorCyan))),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		detail:     viewport.New(0, 0),
		help:       help.New(),
		now:        time.Now,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchBoardCmd(m.ctx, m.src, m.preferReal),
		m.spinner.Tick,
		pollTick(m.interval),
	)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case BoardLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.stale = m.board != nil
			m.err = fmt.Errorf("refresh failed: %w", msg.Err)
			return m, clearErrorAfter(5 * time.Second)
		}
		prevID := m.selectedID()
		m.board = msg.Board
		m.rows = msg.Board.Rows()
		m.lastUpdated = msg.At
		m.stale = false
		m.reselect(prevID)
		if id := m.selectedID(); id != "" {
			cmds = append(cmds, fetchActivityCmd(m.ctx, m.src, id))
		}
		m.refreshDetail()
		return m, tea.Batch(cmds...)

	case ActivityLoadedMsg:
		if msg.BotID != m.selectedID() {
			return m, nil
		}
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = fmt.Errorf("activity for %s: %w", msg.BotID, msg.Err)
			cmds = append(cmds, clearErrorAfter(5*time.Second))
		}
		m.activities = msg.Records
		m.activityFor = msg.BotID
		m.refreshDetail()
		return m, tea.Batch(cmds...)

	case pollTickMsg:
		m.loading = true
		return m, tea.Batch(fetchBoardCmd(m.ctx, m.src, m.preferReal), pollTick(m.interval))

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, dashboardKeys.Help, dashboardKeys.Back) {
			m.showHelp = false
		} else if key.Matches(msg, dashboardKeys.Quit) {
			m.cancel()
			return *m, tea.Quit
		}
		return *m, nil
	}

	switch {
	case key.Matches(msg, dashboardKeys.Quit):
		m.cancel()
		return *m, tea.Quit

	case key.Matches(msg, dashboardKeys.Help):
		m.showHelp = true
		return *m, nil

	case key.Matches(msg, dashboardKeys.Tab):
		m.focusedPanel = 1 - m.focusedPanel
		return *m, nil

	case key.Matches(msg, dashboardKeys.Back):
		m.focusedPanel = panelBots
		return *m, nil

	case key.Matches(msg, dashboardKeys.Refresh):
		m.loading = true
		return *m, fetchBoardCmd(m.ctx, m.src, m.preferReal)

	case key.Matches(msg, dashboardKeys.Variant):
		m.preferReal = !m.preferReal
		m.loading = true
		return *m, fetchBoardCmd(m.ctx, m.src, m.preferReal)
	}

	if m.focusedPanel == panelDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return *m, cmd
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, dashboardKeys.Up):
		cmd = m.moveSelection(-1)
	case key.Matches(msg, dashboardKeys.Down):
		cmd = m.moveSelection(1)
	}
	return *m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	if msg.Action != tea.MouseActionPress {
		return *m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.X > layout.dividerCol {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return *m, cmd
		}
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		cmd := m.moveSelection(delta)
		return *m, cmd

	case tea.MouseButtonLeft:
		if msg.X > layout.dividerCol {
			m.focusedPanel = panelDetail
			return *m, nil
		}
		m.focusedPanel = panelBots
		// Header line plus top border precede the first card.
		row := msg.Y - 2
		if row < 0 {
			return *m, nil
		}
		start := visibleWindow(m.selected, len(m.rows), layout.innerHeight())
		idx := start + row/cardHeight
		if idx < len(m.rows) && idx != m.selected {
			cmd := m.moveSelection(idx - m.selected)
			return *m, cmd
		}
	}
	return *m, nil
}

func (m *Model) moveSelection(delta int) tea.Cmd {
	if len(m.rows) == 0 {
		return nil
	}
	next := m.selected + delta
	if next < 0 {
		next = 0
	}
	if next >= len(m.rows) {
		next = len(m.rows) - 1
	}
	if next == m.selected {
		return nil
	}
	m.selected = next
	m.activities = nil
	m.activityFor = ""
	m.detail.GotoTop()
	m.refreshDetail()
	return fetchActivityCmd(m.ctx, m.src, m.selectedID())
}

func (m *Model) selectedID() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return ""
	}
	return m.rows[m.selected].ID
}

// reselect keeps the selection on the same bot across refreshes.
func (m *Model) reselect(id string) {
	for i, r := range m.rows {
		if r.ID == id {
			m.selected = i
			return
		}
	}
	if m.selected >= len(m.rows) {
		m.selected = max(len(m.rows)-1, 0)
	}
}

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	m.detail.Width = layout.rightInner()
	m.detail.Height = layout.innerHeight()
	m.help.Width = m.width
	m.refreshDetail()
}

func (m *Model) refreshDetail() {
	var activities []models.Activity
	if m.activityFor == m.selectedID() {
		activities = m.activities
	}
	m.detail.SetContent(renderDetail(m.board, m.selectedID(), activities, m.detail.Width, m.now()))
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}

	layout := computeLayout(m.width, m.height, m.splitRatio)
	header := renderHeader(m.board, m.spinner.View(), m.loading, m.width)

	start := visibleWindow(m.selected, len(m.rows), layout.innerHeight())
	list := renderBotList(m.rows[start:], m.selected-start, m.progress, layout.leftInner(), m.now())

	body := renderPanels(list, m.detail.View(), layout, m.focusedPanel)
	status := renderStatusBar(&m, m.width)

	view := strings.Join([]string{header, body, status}, "\n")
	if m.showHelp {
		view = renderOverlay(view, renderHelp(m.width), m.width, m.height)
	}
	return view
}
