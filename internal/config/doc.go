// Package config provides the canvaskeys configuration.
//
// Configuration is a single TOML file. Missing keys keep their defaults:
//
//	log_level = "info"
//
//	[store]
//	backend = "file"
//	path = "~/.config/canvaskeys/keybinds.json"
//	watch = true
//
//	[ready]
//	max_attempts = 100
//	interval = "100ms"
//
//	[pointer]
//	sentinel_buttons = 1337
//
//	[terminal]
//	release_timeout = "250ms"
//
// The CLI layers CANVASKEYS_* environment variables on top of the file.
package config
