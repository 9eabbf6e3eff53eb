// Package api is the data access layer between the UI and the customer
// record store.
//
// Service is the stable call contract: list, add, update and batch delete,
// each taking a context so a slow or stalled backend never blocks the UI
// goroutine directly. Local adapts the in-process mockapi.Store to that
// contract. Instrument wraps any Service with OpenTelemetry spans and
// latency/call metrics; with the default no-op providers it costs a couple
// of function calls.
package api
