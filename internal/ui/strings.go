package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to the given display width, adding an
// ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= limit {
		return value
	}
	runes := []rune(value)
	if limit <= 3 {
		return string(runes[:min(limit, len(runes))])
	}
	out := make([]rune, 0, limit)
	width := 0
	for _, r := range runes {
		w := lipgloss.Width(string(r))
		if width+w > limit-3 {
			break
		}
		out = append(out, r)
		width += w
	}
	return string(out) + "..."
}

// fit truncates value to width and pads it with spaces on the right.
func fit(value string, width int) string {
	return padRight(truncate(value, width), width)
}

// fitRight truncates value to width and pads it on the left.
func fitRight(value string, width int) string {
	return padLeft(truncate(value, width), width)
}

// padRight pads a string with spaces to the given display width.
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// padLeft right-aligns s within width.
func padLeft(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// humanizeDuration renders a duration compactly, e.g. "2h 3m".
func humanizeDuration(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dd", int(d.Hours())/24)
}

// pluralize returns singular when n is one, otherwise plural.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
