package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("tally", styles.Logo),
		bg.Render("Customers", styles.Text.Bold(true)),
	}

	snap := m.snapshot
	switch {
	case snap.Loading():
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Loading customers...", styles.WarningText.Bold(true)))
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("OFFLINE", styles.DangerText),
			bg.Render(truncate(queryErrorText(snap.LastError), 48), styles.MutedText))
	case snap.LastError != nil:
		parts = append(parts, bg.Render("Refresh failed", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render(fmt.Sprintf("%d records", len(snap.Data)), styles.SuccessText))
	}

	if snap.Fetching && snap.HasData {
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Syncing", styles.InfoText))
	}
	if m.pending {
		parts = append(parts, bg.Render("Saving...", styles.WarningText))
	}
	if snap.Stale {
		parts = append(parts, bg.Render("stale", styles.FaintText))
	}
	if !m.lastUpdated.IsZero() && m.width >= LayoutCompactWidth {
		age := m.now().Sub(m.lastUpdated)
		label := "updated " + humanizeDuration(age)
		if age >= time.Second {
			label += " ago"
		}
		parts = append(parts, bg.Render(label, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(clipLine(strings.Join(parts, sep), max(m.width-2, 0)))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	var lead []string

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"f", "Level " + m.logState.levelLabel()},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"L/esc", "Table"},
			{"?", "More"},
		}
	default:
		if n := m.sel.Selected.Len(); n > 0 {
			lead = append(lead, bg.Render(fmt.Sprintf("%d selected", n), styles.AccentText.Bold(true)))
			edit := "Add"
			if n == 1 {
				edit = "Edit"
			}
			commands = []cmd{
				{"n", edit},
				{"d", "Delete"},
				{"c", "Clear"},
				{"space", "Toggle"},
				{"a", "Page"},
				{"?", "More"},
			}
		} else {
			commands = []cmd{
				{"n", "Add"},
				{"v", "View"},
				{"e", "Edit"},
				{"x", "Delete"},
				{"space", "Select"},
				{"s", "Sort"},
				{"←/→", "Page"},
				{"+/-", "Rows"},
				{"L", "Logs"},
				{"?", "More"},
			}
		}
	}

	colon := bg.Sep(":")
	segments := lead
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	line := strings.Join(segments, bg.Spaces(2))
	return styles.Header.Width(m.width).Render(clipLine(line, max(m.width-2, 0)))
}
