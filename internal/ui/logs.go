package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/logtail"
)

// logLevels is the cycle order of the minimum level filter.
var logLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// logState holds all log-related state.
type logState struct {
	entries  []logtail.Entry
	level    int // index into logLevels
	follow   bool
	err      error
	loadedAt time.Time
}

func newLogState() logState {
	return logState{follow: true}
}

// levelLabel returns the active minimum level.
func (s logState) levelLabel() string {
	return logLevels[s.level]
}

// visible returns the entries passing the level filter.
func (s logState) visible() []logtail.Entry {
	return logtail.Filter(s.entries, logLevels[s.level])
}

type logLinesMsg struct {
	lines []string
	err   error
	at    time.Time
}

// refreshLogs reads the tail of the log file.
func (m Model) refreshLogs() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	path := m.logPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogFetchLimit)
		return logLinesMsg{lines: lines, err: err, at: time.Now()}
	}
}

// handleLogLines stores a log read result.
func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.entries = logtail.ParseAll(msg.lines)
		m.logState.loadedAt = msg.at
	}
	m.updateLogViewport()
}

// updateLogViewport resizes the viewport and re-renders its content.
func (m *Model) updateLogViewport() {
	// Box height = m.height - 3 (header, cmdbar, status line)
	// Box inner = box height - 2 (borders)
	width := max(m.width-4, 1)
	height := max(m.height-5, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	contentHeight := m.height - 3

	title := "Application Log"
	if m.logState.level > 0 {
		title = fmt.Sprintf("Application Log (%s+)", m.logState.levelLabel())
	}

	box := m.renderTitledBox(title, m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + bg.FillLine(m.renderLogStatus(styles, bg), m.width)
}

// renderLogStatus renders the line under the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logPath == "" {
		return bg.Space() + bg.Render("Logging to a file is disabled", styles.MutedText)
	}
	if m.logState.err != nil {
		return bg.Space() + bg.Render(m.logState.err.Error(), styles.DangerText)
	}

	follow := "paused"
	followStyle := styles.WarningText
	if m.logState.follow {
		follow = "following"
		followStyle = styles.SuccessText
	}
	shown := len(m.logState.visible())
	return bg.Space() + bg.Render(truncate(m.logPath, 60), styles.MutedText) + bg.Spaces(2) +
		bg.Render(fmt.Sprintf("%d/%d lines", shown, len(m.logState.entries)), styles.Text) + bg.Spaces(2) +
		bg.Render(follow, followStyle)
}

// renderLogContent colourises the filtered entries.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	entries := m.logState.visible()
	if len(entries) == 0 {
		return bg.Render("No log lines", styles.MutedText)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.renderLogEntry(e, styles, bg))
	}
	return strings.Join(lines, "\n")
}

// renderLogEntry renders one entry as "15:04:05 LEVEL message key=value".
func (m Model) renderLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if !e.Parsed() {
		return bg.Render(e.Raw, styles.Text)
	}

	var b strings.Builder
	if ts := shortTimestamp(e.Time); ts != "" {
		b.WriteString(bg.Render(ts, styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(fmt.Sprintf("%-5s", e.Level), levelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Message, styles.Text))
	for _, a := range e.Attrs {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(a.Value, styles.AccentText))
	}
	return b.String()
}

// shortTimestamp reduces an RFC 3339 timestamp to its clock time.
func shortTimestamp(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.Format("15:04:05")
	}
	return raw
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch logtail.LevelRank(level) {
	case 0:
		return styles.InfoText
	case 2:
		return styles.WarningText
	case 3:
		return styles.DangerText
	default:
		return styles.SuccessText
	}
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.level = (m.logState.level + 1) % len(logLevels)
		m.updateLogViewport()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = m.logViewport.AtBottom()

	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = m.logViewport.AtBottom()

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}

	return m, nil
}
