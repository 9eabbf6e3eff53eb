package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tally/internal/api"
	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/prefs"
	"github.com/five82/tally/internal/selection"
	"github.com/five82/tally/internal/state"
	"github.com/five82/tally/internal/table"
)

// View represents the current active view.
type View int

const (
	ViewTable View = iota
	ViewLogs
)

type customersSnapshot = state.Snapshot[[]customer.Customer]

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   api.Service
	Client    *state.Client                     // refetches registered queries after mutations
	Customers *state.Query[[]customer.Customer] // registered with Client
	PollTick  time.Duration
	ThemeName string
	PageSize  int
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	service   api.Service
	client    *state.Client
	query     *state.Query[[]customer.Customer]
	prefsPath string
	logPath   string
	pollTick  time.Duration
	now       func() time.Time

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Data state
	snapshot    customersSnapshot
	lastUpdated time.Time

	// Table state
	sel    *selection.Store
	engine *table.Engine
	cursor int

	// Overlays
	form    *formState
	confirm *confirmState
	pending bool
	toasts  []toast

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	pageSize := opts.PageSize
	if !table.ValidPageSize(pageSize) {
		pageSize = table.DefaultPageSize
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	client := opts.Client
	if client == nil {
		client = state.NewClient()
	}

	sel := &selection.Store{}
	m := Model{
		ctx:         ctx,
		service:     opts.Service,
		client:      client,
		query:       opts.Customers,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		now:         time.Now,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		currentView: ViewTable,
		spinner:     sp,
		sel:         sel,
		engine:      table.NewEngine(&sel.Selected, pageSize),
		logState:    newLogState(),
	}
	if m.query != nil {
		m.snapshot = m.query.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.query != nil {
		cmds = append(cmds, fetchCustomersCmd(m.ctx, m.query))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(customersSnapshot(msg))
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.form != nil {
		return m.renderForm()
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take precedence over the
// active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.currentView == ViewLogs {
			m.currentView = ViewTable
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewLogs {
			m.currentView = ViewTable
			return m, nil
		}
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleTableKey(msg)
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.query != nil {
		m.applySnapshot(m.query.Snapshot())
	}
	m.expireToasts(now)

	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot stores the latest query state, raising an error toast when
// a new fetch failure is recorded.
func (m *Model) applySnapshot(next customersSnapshot) {
	if next.LastError != nil && next.ConsecutiveFailures > m.snapshot.ConsecutiveFailures {
		m.pushError(next.LastError, queryFallback)
	}
	if !next.LastUpdated.IsZero() {
		m.lastUpdated = next.LastUpdated
	}
	m.snapshot = next
	if next.HasData {
		m.engine.Clamp(len(next.Data))
	}
	m.clampCursor()
}

// rows returns the cached customers.
func (m Model) rows() []customer.Customer {
	return m.snapshot.Data
}

// project computes the current table view.
func (m Model) project() table.View {
	return m.engine.Project(m.rows())
}

// findCustomer looks up a cached customer by id.
func (m Model) findCustomer(id string) (customer.Customer, bool) {
	for _, c := range m.rows() {
		if c.ID == id {
			return c, true
		}
	}
	return customer.Customer{}, false
}

// savePrefs persists the theme and rows per page. Failures are ignored.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:       m.theme.Name,
		RowsPerPage: m.engine.PageSize(),
	})
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return m.overlayToasts(b.String())
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderTable()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg customersSnapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCustomersCmd loads the collection, refetching if it is stale.
func fetchCustomersCmd(ctx context.Context, q *state.Query[[]customer.Customer]) tea.Cmd {
	return func() tea.Msg {
		_, _ = q.Get(ctx)
		return snapshotMsg(q.Snapshot())
	}
}

// refetchCustomersCmd forces a refetch of the collection.
func refetchCustomersCmd(ctx context.Context, q *state.Query[[]customer.Customer]) tea.Cmd {
	return func() tea.Msg {
		_ = q.InvalidateAndRefetch(ctx)
		return snapshotMsg(q.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
