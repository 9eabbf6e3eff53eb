package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the description
	// column is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the row number column.
	LayoutWideWidth = 120
)

// Fixed chrome heights.
const (
	// chromeHeight covers the header and command bar.
	chromeHeight = 2

	// tableChromeHeight covers the box borders, column header and footer.
	tableChromeHeight = 5
)

// Log display limits.
const (
	// LogFetchLimit is the maximum number of log lines read per refresh.
	LogFetchLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a toast stays on screen.
	ToastDuration = 4 * time.Second

	// maxToasts caps the number of stacked toasts.
	maxToasts = 3
)
