// Package config loads and validates papercast configuration from TOML.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/papercast/config.toml, then ./papercast.toml, falling back to
// built-in defaults when no file exists. Load returns a fully normalized
// config: paths expanded to absolute form, the base URL stripped of trailing
// slashes, and logging values lowercased.
package config
