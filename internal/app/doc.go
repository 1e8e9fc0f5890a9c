// Package app is the composition root for framegrid.
//
// # Overview
//
// Run wires configuration, logging, the authority client, the mirror store,
// the background poller, the commit protocol and the terminal UI, then blocks
// until the user quits or the context is cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config.toml
//	       ├─────> prefs.Load()           Read prefs.toml (never fatal)
//	       ├─────> openLogger()           slog text handler on framegrid.log
//	       ├─────> authority.NewClient()  HTTP client for the authority
//	       ├─────> store.Subscribe()      Ordered change feed for the UI
//	       ├─────> StartPoller()          Pull updates into the store
//	       ├─────> commit.NewProtocol()   Send mutation sequences
//	       ├─────> prefs.Watch()          Live preference reload
//	       └─────> ui.Run()               Start TUI (blocks)
//
//	Poller loop:
//	┌─────────────────────────────────────────┐
//	│ FetchUpdate(since = snapshot.Version)   │
//	│  └─> store.Update()                     │
//	│       └─> Subscription.Next() in the UI │
//	│            └─> editor.Engine.Apply()    │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller asks for everything newer than the last version it saw. On
// failure the store keeps its grid and records the error; the next attempt is
// delayed by calculateBackoff, doubling per consecutive failure up to 30s.
// The first failure and every tenth after it are logged, as is recovery.
//
// # Error Handling
//
// Fatal (returned from Run): an unreadable or invalid config file, a log file
// that cannot be opened, an unparseable api_bind.
//
// Recoverable (logged, the editor keeps running): poll failures, rejected
// mutations, a prefs file that cannot be watched.
//
// # Logging
//
// stderr belongs to the terminal UI, so all records go to
// <log_dir>/framegrid.log. The -debug flag lowers the level to Debug, which
// adds every mutation sent and every interaction that ends.
package app
