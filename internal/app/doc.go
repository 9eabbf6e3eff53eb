// Package app provides the orchestration layer for tally.
//
// # Overview
//
// This package wires together configuration, logging, the in-memory
// backend, telemetry, the query client and the UI. It is the composition
// root where every dependency is created and connected.
//
// # Architecture
//
//  1. Load ~/.config/tally/config.toml and TALLY_* overrides, then apply flags
//  2. Open the application log (slog text records, read back by the log view)
//  3. Build the mockapi store from the embedded or configured seed
//  4. Wrap the service with OpenTelemetry metrics and traces
//  5. Register the customers query with a state.Client
//  6. Launch the background refresher when a refresh interval is set
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Components
//
//   - app.go: Run, flag overrides, runtime setup and teardown
//   - refresher.go: background refetch loop with exponential backoff
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        config.toml + env
//	       ├─────> openLog()            slog text handler
//	       ├─────> mockapi.New()        seeded store, simulated latency
//	       ├─────> api.Instrument()     metrics + spans
//	       ├─────> state.Register()     customers query
//	       ├─────> StartRefresher()     goroutine
//	       │          └──> Query.Fetch() every interval, backoff on failure
//	       └─────> ui.Run()             blocks
//	                  └──> reads Query snapshots on every tick
//
// # Backoff
//
// Each consecutive refresh failure doubles the wait, capped at 30s. A
// successful fetch resets the cadence to the configured interval.
//
// # Shutdown
//
// Cancelling the context stops the refresher and the UI. Telemetry is
// flushed and the log file closed before Run returns. An interrupted UI is
// not reported as an error.
package app
