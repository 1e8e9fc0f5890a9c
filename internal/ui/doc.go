// Package ui is the terminal front end for framegrid, built on Bubble Tea.
//
// # Structure
//
//   - model.go: Options, Model, Init/Update/View and Run
//   - pointer.go: mouse press, motion and release routed to the editor engine
//   - layout.go: frame geometry and the hit regions derived from it
//   - canvas.go: a rune/paint grid rendered in styled runs
//   - render.go: grid painting and status bar text
//   - overlays.go: help and log overlays
//   - theme.go: color themes and lipgloss styles
//
// # Event Flow
//
//  1. Init starts a command blocking on state.Subscription.Next
//  2. Each batch of mirror changes goes to editor.Engine.Apply, then the
//     command is re-issued
//  3. Keys go to the engine's dispatch table; the shell keeps q, ?, L, o, T
//  4. A press picks an interaction from the region under the pointer:
//     "edge" resizes, "cell" selects and drags, anything else is a marquee
//  5. While the pointer is captured a 16ms tick calls FrameTick, so a burst
//     of motion costs one engine update per frame
//
// View rebuilds the hit map from the same geometry it paints, so a region
// always matches what is on screen.
//
// # Preferences
//
// Theme (T) and orientation (o) changes are saved to prefs.toml. Edits made
// to that file while framegrid runs arrive through Options.PrefsUpdates and
// are applied live.
package ui
