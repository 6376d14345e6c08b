// Package config loads, normalizes, and validates renamer configuration.
//
// Settings come from a TOML file (by default ~/.config/renamer/config.toml,
// falling back to ./renamer.toml) layered over repository defaults. Command
// line flags are applied on top by the CLI. Duration settings accept plain
// seconds, Go duration strings, or clock notation.
package config
