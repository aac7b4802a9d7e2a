package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvStateDir overrides the XDG state directory for libsync
	EnvStateDir = "LIBSYNC_STATE_DIR"

	// EnvConfigFile overrides the configuration file location
	EnvConfigFile = "LIBSYNC_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// File and directory names
const (
	AppDirName            = "libsync"
	ConfigFileName        = "config.toml"
	ReportFileName        = "report.txt"
	DetailLogFileName     = "detail.log"
	DiagnosticLogFileName = "libsync.log"
)

// StateDir returns the directory holding the run report and logs.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// ConfigDir returns the user configuration directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFile returns the user configuration file path.
func ConfigFile() string {
	if file := os.Getenv(EnvConfigFile); file != "" {
		return expandHome(file)
	}
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// ReportFile returns the default plain-text run report path.
func ReportFile() string {
	return filepath.Join(StateDir(), ReportFileName)
}

// DetailLogFile returns the default detail stream path.
func DetailLogFile() string {
	return filepath.Join(StateDir(), DetailLogFileName)
}

// DiagnosticLogFile returns the path of libsync's own diagnostic log.
func DiagnosticLogFile() string {
	return filepath.Join(StateDir(), DiagnosticLogFileName)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to HOME env var
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			// Can't expand, return as-is
			return path
		}
	}

	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
