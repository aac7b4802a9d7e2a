package libsync

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Music library maintenance with a structured run report"
	MsgScanShort       = "Inventory the library and report what was found"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man page"

	// Status messages
	MsgRunClean       = "Run finished cleanly"
	MsgRunWarnings    = "Run finished with %d warning(s)"
	MsgRunErrors      = "Run finished with %d error(s) and %d warning(s)"
	MsgReportLocation = "Report written to %s"
	MsgVersionFormat  = "libsync version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrOpenDetail  = "failed to open detail log: %w"
	MsgErrLoadStyles  = "failed to load styles: %w"
	MsgErrScanAborted = "Scan aborted: {err}"
	MsgErrUnexpected  = "Unexpected failure: {panic}"
	MsgErrNoCommand   = "no command specified"
	MsgErrMisuse      = "Internal error (misuse fault): %s\n"
	MsgErrPanic       = "Internal error: %v\n"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Mark the run as a dry run in the report"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/libsync/config.toml)"
	MsgFlagFormat   = "Console format: auto, term or text"
	MsgFlagTable    = "Also print per-album counts as a table"
	MsgFlagTitle    = "Override the report title"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
	MsgFlagManDir   = "Write one man page per command into this directory"
)

// Long descriptions
const (
	MsgRootLong = `libsync keeps a personal music library in shape. Every run records what it
did in a structured report: counts per album and per step, plus the warnings
and errors that need attention. The report is printed at the end of the run
and written to the state directory.

The exit code is 0 for a clean run, 2 when warnings were recorded and 1 when
errors were recorded.`

	MsgScanLong = `Scan walks the library root (or the directory given as argument), groups
audio files by album folder and reports, per album, the tracks found, tracks
that are not in the preferred format and albums without cover art.

Nothing on disk is changed.`
)
