// Package config loads the layered docscan configuration.
//
// Built-in defaults are overridden by docscan.toml, then by the
// docscan.<DOCSCAN_ENV>.toml overlay, then by DOCSCAN_* environment
// variables. A .env file next to the config files is read first and never
// overrides variables already set. Each component package owns its section
// type and defaults; this package only assembles and validates them.
//
// Example docscan.toml:
//
//	[camera]
//	dir = "./frames"
//
//	[remote]
//	base_url = "https://docs.example.com"
//	user_id = 7
//
//	[guidance]
//	dwell_ms = 1200
//
//	[redis]
//	addr = "localhost:6379"
package config
