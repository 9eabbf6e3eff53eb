package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Fallback toast texts for errors without a message.
const (
	mutationFallback = "Something went wrong with the mutation"
	queryFallback    = "Something went wrong with the query"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	kind    toastKind
	text    string
	expires time.Time
}

// errorText returns err's message, or fallback when it has none.
func errorText(err error, fallback string) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallback
	}
	return err.Error()
}

// queryErrorText describes a failed fetch.
func queryErrorText(err error) string {
	return errorText(err, queryFallback)
}

// pushToast adds a toast, dropping the oldest beyond maxToasts.
func (m *Model) pushToast(kind toastKind, text string) {
	m.toasts = append(m.toasts, toast{
		kind:    kind,
		text:    text,
		expires: m.now().Add(ToastDuration),
	})
	if over := len(m.toasts) - maxToasts; over > 0 {
		m.toasts = m.toasts[over:]
	}
}

func (m *Model) pushSuccess(text string) {
	m.pushToast(toastSuccess, text)
}

func (m *Model) pushError(err error, fallback string) {
	m.pushToast(toastError, errorText(err, fallback))
}

// expireToasts drops toasts that have timed out.
func (m *Model) expireToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// renderToast renders one toast line.
func (m Model) renderToast(t toast, width int) string {
	color, icon := m.theme.Success, "✓"
	if t.kind == toastError {
		color, icon = m.theme.Danger, "✗"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Bold(true).
		Padding(0, 1).
		Render(icon + " " + truncate(t.text, width-4))
}

// overlayToasts draws the toasts right-aligned over the last lines of
// base, above the bottom border.
func (m Model) overlayToasts(base string) string {
	if len(m.toasts) == 0 || m.width <= 0 {
		return base
	}
	lines := strings.Split(base, "\n")
	maxWidth := min(m.width-4, 60)

	row := len(lines) - 2
	for i := len(m.toasts) - 1; i >= 0 && row >= 0; i-- {
		rendered := m.renderToast(m.toasts[i], maxWidth)
		w := lipgloss.Width(rendered)
		left := clipLine(lines[row], max(m.width-w-2, 0))
		if gap := m.width - w - 2 - lipgloss.Width(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		lines[row] = left + rendered
		row--
	}
	return strings.Join(lines, "\n")
}
