// Package config loads keymask definition files.
//
// A definition file declares global settings, extra pattern tokens and a
// list of named masks:
//
//	[settings]
//	log_level = "info"
//	history_limit = 100
//	policy = "all"
//
//	[tokens]
//	h = { class = "[0-9a-fA-F]" }
//	v = { expr = "char in ['a', 'e', 'i', 'o', 'u']" }
//
//	[[masks]]
//	name = "phone"
//	pattern = "(999) 999-9999"
//
//	[[masks]]
//	name = "intl"
//	script = "intl.lua"
//	pattern = "+9 999 999 9999"
//
// TOML and YAML are both accepted; the format follows the file extension.
// Settings may be overridden by KEYMASK_* environment variables.
//
// # Sub-packages
//
//   - loader: strict TOML/YAML decoding with positioned parse errors
//   - watcher: fsnotify-based file watching with debounced reloads
package config
