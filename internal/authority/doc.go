// Package authority provides an HTTP client for the server that owns the
// ground-truth grid.
//
// # Overview
//
// The authority holds the grid and runs the transport. framegrid never edits
// its local mirror directly: it reads updates from the authority and sends
// mutation requests back, each tagged with a timing directive.
//
// # Endpoints
//
//   - GET  /api/grid?since=N     Update{version, grid, events, statuses}
//   - POST /api/frames/set       {timing, frames: [{cell, frame}]}
//   - POST /api/frames/add       {timing, line, index, frame}
//   - POST /api/frames/remove    {timing, line, index}
//   - POST /api/lines/set        {timing, lines: [{line, value}]}
//
// A nil grid in an Update means the authority has nothing newer than the
// requested version. Events are listed in the order the authority applied
// them and are relative to the grid shape just before each one.
//
// # Error Handling
//
// Transport failures, HTTP statuses >= 400 and undecodable payloads are
// returned as wrapped errors. Callers decide whether to retry: the poller
// backs off, the commit protocol logs and drops the rest of a sequence.
package authority
