// Package config loads framegrid's process configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/framegrid/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Fields
//
//	api_bind = "127.0.0.1:8420"           # authority host:port or URL
//	log_dir = "~/.local/share/framegrid"  # framegrid.log is written here
//	request_timeout = 5                   # seconds per authority request
//
// Paths beginning with ~ are expanded against the user's home directory and
// made absolute. A malformed file or a negative timeout is an error; the
// caller treats it as fatal at startup.
//
// Editor preferences (theme, snap, orientation) live in the prefs package,
// not here: they change at runtime and are written back by the UI.
package config
