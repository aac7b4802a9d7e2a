package libsync

import (
	"fmt"
	"io"
	"os"

	"github.com/musiclib/libsync/pkg/config"
	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/output/styles"
	"github.com/musiclib/libsync/pkg/report"
	"github.com/musiclib/libsync/pkg/scan"
	"github.com/musiclib/libsync/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	global *globalOptions
	root   string
	dryRun bool
	table  bool
	title  string
}

// loadConfig loads the configuration with the persistent flags applied on
// top of overrides.
func loadConfig(global *globalOptions, overrides map[string]interface{}) (*config.Config, error) {
	if overrides == nil {
		overrides = make(map[string]interface{})
	}
	if global.format != "" {
		overrides["output.format"] = global.format
	}

	cfg, err := config.Load(config.LoadOptions{File: global.configFile, Overrides: overrides})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	if cfg.Logging.Verbosity > global.verbosity {
		logging.SetupLogger(cfg.Logging.Verbosity)
	}
	return cfg, nil
}

// newAggregator wires an aggregator to the detail log file, the command's
// output and the configured report file. The returned func closes the
// detail log.
func newAggregator(cmd *cobra.Command, cfg *config.Config) (*report.Aggregator, func(), error) {
	detail, err := logging.OpenLogFile(cfg.Logging.DetailFile)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrOpenDetail, err)
	}

	out := cmd.OutOrStdout()
	styleCfg := styles.Default()
	if cfg.Output.StylesFile != "" {
		styleCfg, err = styles.Load(cfg.Output.StylesFile)
		if err != nil {
			_ = detail.Close()
			return nil, nil, fmt.Errorf(MsgErrLoadStyles, err)
		}
	}

	agg := report.New(
		report.WithDetail(detail),
		report.WithConsole(out),
		report.WithReportFile(cfg.Report.File),
		report.WithStyles(styleCfg.Build(ui.NewRenderer(out, consoleFormat(cfg, out)))),
		report.WithTitle(cfg.Report.Title),
	)
	return agg, func() { _ = detail.Close() }, nil
}

// consoleFormat resolves the configured format against the actual output.
// Anything that is not a file, such as a buffer in tests, gets plain text
// unless colour was asked for explicitly.
func consoleFormat(cfg *config.Config, out io.Writer) ui.Format {
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return ui.FormatText
	}
	if f, ok := out.(*os.File); ok {
		return ui.Resolve(format, f)
	}
	if format == ui.FormatAuto {
		return ui.FormatText
	}
	return format
}

func runScan(cmd *cobra.Command, opts scanOptions) (err error) {
	logger := logging.GetLogger("cmd.scan")

	overrides := make(map[string]interface{})
	if opts.root != "" {
		overrides["library.root"] = opts.root
	}
	if opts.title != "" {
		overrides["report.title"] = opts.title
	}
	cfg, err := loadConfig(opts.global, overrides)
	if err != nil {
		return err
	}

	agg, closeDetail, err := newAggregator(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeDetail()

	runLabel := "scan " + cfg.Library.Root
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if errors.AsMisuse(r) != nil {
			agg.Render(runLabel, opts.dryRun)
			panic(r)
		}
		logger.Error().Interface("panic", r).Msg("Scan panicked")
		agg.Exception(MsgErrUnexpected, fmt.Errorf("%v", r),
			report.InScope(""), report.Uncounted(), report.With("panic", fmt.Sprint(r)))
		agg.Render(runLabel, opts.dryRun)
		err = finish(cmd, agg, cfg)
	}()

	logger.Info().Str("root", cfg.Library.Root).Bool("dryRun", opts.dryRun).Msg("Starting scan")
	res, scanErr := scan.New(agg, cfg.Library).Run(cmd.Context())
	if scanErr != nil {
		logger.Error().Err(scanErr).Msg("Scan aborted")
		agg.Error(MsgErrScanAborted, report.InScope(""), report.Uncounted(), report.With("err", scanErr.Error()))
	} else {
		logger.Info().Int("albums", res.Albums).Int("tracks", res.Tracks).Msg("Scan completed")
	}

	agg.Render(runLabel, opts.dryRun)
	if opts.table {
		fmt.Fprintln(cmd.OutOrStdout(), instanceTable(agg.Instances()))
	}
	return finish(cmd, agg, cfg)
}

// finish prints the run outcome and turns the totals into the exit code.
func finish(cmd *cobra.Command, agg *report.Aggregator, cfg *config.Config) error {
	w := cmd.ErrOrStderr()
	errCount, warnCount := agg.CountErrors(), agg.CountWarnings()

	switch ExitCode(errCount, warnCount) {
	case ExitErrors:
		pterm.Error.WithWriter(w).Printfln(MsgRunErrors, errCount, warnCount)
	case ExitWarnings:
		pterm.Warning.WithWriter(w).Printfln(MsgRunWarnings, warnCount)
	default:
		pterm.Success.WithWriter(w).Println(MsgRunClean)
	}
	pterm.Info.WithWriter(w).Printfln(MsgReportLocation, cfg.Report.File)

	return exitErrorFor(errCount, warnCount)
}
