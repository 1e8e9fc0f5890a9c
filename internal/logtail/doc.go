// Package logtail reads the tail of framegrid's log file and parses the
// slog text-handler lines it finds there.
//
// # Reading
//
// Tail streams a file through Parse and keeps the last N records, so memory
// use is bounded by N regardless of file size. A missing file is not an
// error: the log overlay simply shows nothing until the first entry is
// written.
//
//	records, err := logtail.Tail(cfg.LogPath(), 200)
//
// # Parsing
//
// Parse understands the key=value layout written by slog.TextHandler:
//
//	time=2026-10-18T14:32:15.120+02:00 level=WARN msg="mutation rejected" request="add-frame (0,2) @next-beat" error="returned status 409"
//
// time, level and msg are lifted into Record fields; every other pair is kept
// in order in Attrs. Quoted values are unquoted with strconv. Lines in any
// other format come back with only Raw set so callers can still show them.
//
// Styling is left to the UI.
package logtail
