// Package config handles configuration management for libsync.
// It layers the embedded defaults, an optional TOML file, LIBSYNC_*
// environment variables and command-line overrides, in that order.
package config
