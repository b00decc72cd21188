// Package config loads the gantry configuration file.
//
// # Overview
//
// The config names the controller to talk to, the credentials to present
// and the local runtime settings for the console and the one-shot commands.
// Everything has a default except the host, which has to come from the file
// or the --host flag.
//
// # Resolution Order
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/gantry/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Empty fields in an existing file keep their defaults
//
// GANTRY_PASSWORD, when set, replaces the password from the file so the
// secret can stay out of the config.
//
// # TOML Format
//
//	host = "192.168.1.100"
//	port = 0                     # 0 means the scheme default
//	scheme = "http"
//	username = "admin"
//	password = "pharos"
//	personality = "designer"     # designer, expert or generic
//	keepalive_seconds = 270
//	request_timeout_seconds = 10 # 0 disables the per-request timeout
//	refresh_seconds = 5
//	log_level = "info"
//	log_file = "~/.local/state/gantry/gantry.log"
//
// # Path Expansion
//
// Tilde paths are expanded to the home directory and relative paths are
// made absolute against the working directory.
//
// # Validation
//
// Load rejects unknown personalities, schemes other than http and https,
// and out-of-range ports. The host is deliberately not validated here:
// the session rejects malformed addresses with its own error kind.
package config
