// Package config loads, normalizes, and validates soundrip configuration.
//
// It supplies repository defaults, expands user paths, reads TOML files, and
// honours the BOT_TOKEN environment fallback. Derived values such as the
// direct file-URL prefix are computed exactly once during normalization and
// exposed read-only, so downstream code never reassembles endpoint strings.
package config
