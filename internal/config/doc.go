// Package config loads, normalizes, and validates the TOML configuration
// shared by every command.
package config
