// Package paths provides the default file locations used by libsync.
//
// Locations follow the XDG Base Directory specification:
//
//   - State: $XDG_STATE_HOME/libsync (run report, detail log, diagnostic log)
//   - Config: $XDG_CONFIG_HOME/libsync/config.toml
//
// # Environment Variables
//
//   - LIBSYNC_STATE_DIR: overrides the state directory
//   - LIBSYNC_CONFIG: overrides the configuration file path
//
// A leading ~ in either override is expanded to the user's home directory.
package paths
