// Package logtail reads the tail of tally's log file for the Logs view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// proportional to the window rather than the file. A missing file yields
// no lines and no error; the log is created lazily on first write.
//
// Parse splits lines written by log/slog's text handler
// (time=... level=INFO msg="..." key=value) into an Entry so the UI can
// colour levels and attributes. Lines in any other shape are kept verbatim.
package logtail
