// Package config loads tally's runtime settings.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. The TOML file given to Load, or ~/.config/tally/config.toml
//  3. TALLY_* environment variables
//  4. Command-line flags, applied by the caller
//
// A missing file is not an error. Empty strings in the file fall back to
// the defaults.
//
// # Default Values
//
//   - Simulated backend latency: 300ms
//   - Rows per page: 10
//   - Background refresh: disabled
//   - Log file: ~/.local/state/tally/tally.log
//   - Telemetry output: ~/.local/state/tally/telemetry.jsonl (when enabled)
//
// # TOML Format
//
//	latency_ms = 300
//	page_size = 10
//	refresh_seconds = 0
//	seed_file = "~/customers.yaml"
//	log_file = "~/.local/state/tally/tally.log"
//	log_level = "info"
//
//	[telemetry]
//	enabled = false
//	output = "~/.local/state/tally/telemetry.jsonl"
//
// Every key is optional. Paths accept a leading tilde.
//
// # Environment
//
// Each key has a TALLY_ variable: TALLY_LATENCY_MS, TALLY_PAGE_SIZE,
// TALLY_REFRESH_SECONDS, TALLY_SEED_FILE, TALLY_LOG_FILE, TALLY_LOG_LEVEL,
// TALLY_TELEMETRY_ENABLED and TALLY_TELEMETRY_OUTPUT.
//
// # Error Handling
//
// Load returns errors for unreadable files, malformed TOML, malformed
// environment values, negative durations and unknown log levels.
package config
