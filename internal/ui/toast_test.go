package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestToastsCapAndExpire(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	m.now = func() time.Time { return now }

	for i := range 5 {
		m.pushSuccess(fmt.Sprintf("toast %d", i))
	}
	if len(m.toasts) != maxToasts || m.toasts[0].text != "toast 2" {
		t.Fatalf("toasts = %+v, want the newest %d", m.toasts, maxToasts)
	}

	m.expireToasts(now.Add(ToastDuration - time.Millisecond))
	if len(m.toasts) != maxToasts {
		t.Fatalf("expired too early: %d left", len(m.toasts))
	}
	m.expireToasts(now.Add(ToastDuration))
	if len(m.toasts) != 0 {
		t.Fatalf("toasts left after expiry: %d", len(m.toasts))
	}
}

func TestErrorTextFallbacks(t *testing.T) {
	cases := []struct {
		err      error
		fallback string
		want     string
	}{
		{nil, mutationFallback, "Something went wrong with the mutation"},
		{errors.New("  "), queryFallback, "Something went wrong with the query"},
		{errors.New("add customer: boom"), mutationFallback, "add customer: boom"},
	}
	for _, tc := range cases {
		if got := errorText(tc.err, tc.fallback); got != tc.want {
			t.Fatalf("errorText(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestOverlayToastsRightAligned(t *testing.T) {
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	m.width = 40
	m.pushError(errors.New("boom"), mutationFallback)

	row := strings.Repeat("x", 40)
	base := strings.Join([]string{row, row, row, row}, "\n")
	lines := strings.Split(m.overlayToasts(base), "\n")

	if !strings.Contains(lines[2], "✗ boom") {
		t.Fatalf("toast not drawn on the line above the border: %q", lines[2])
	}
	if !strings.HasPrefix(lines[2], "xxxx") {
		t.Fatalf("left side of the line should be kept: %q", lines[2])
	}
	if w := lipgloss.Width(lines[2]); w > 40 {
		t.Fatalf("line width = %d, want <= 40", w)
	}
	if lines[3] != row {
		t.Fatal("bottom line should be untouched")
	}
}
