package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/output/styles"
	"github.com/musiclib/libsync/pkg/reportfile"
)

// TimeFormat is the layout of the report title timestamp.
const TimeFormat = "2006-01-02 15:04:05"

// Section headings of the report.
const (
	ItemsHeading  = "Items processed:"
	GlobalHeading = "Global:"
	NoneMarker    = "(none)"
)

// Rendered is the outcome of Render. Both forms come from the same lines.
type Rendered struct {
	Lines []string
}

// Plain returns the report as written to the report file.
func (r *Rendered) Plain() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Colored returns the report with every line styled through reg.
func (r *Rendered) Colored(reg styles.Registry) string {
	var b strings.Builder
	for _, line := range r.Lines {
		b.WriteString(colorize(reg, line))
		b.WriteByte('\n')
	}
	return b.String()
}

// Build lays out the report for the current state without writing it
// anywhere. It does not change any state.
func (a *Aggregator) Build(runLabel string, dryRun bool) *Rendered {
	var info, global []*instance
	byScope := make(map[string][]*instance)

	for _, inst := range a.reg.ordered {
		if !inst.reportable() {
			continue
		}
		switch {
		case inst.scope == "" && inst.alwaysShow && inst.count == 0:
			info = append(info, inst)
		case inst.scope != "":
			byScope[inst.scope] = append(byScope[inst.scope], inst)
		default:
			global = append(global, inst)
		}
	}

	labels := make([]string, 0, len(byScope))
	for label := range byScope {
		labels = append(labels, label)
	}
	for label := range a.records {
		if _, ok := byScope[label]; !ok && label != "" {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	sortInstances(info)
	sortInstances(global)

	lines := []string{
		fmt.Sprintf("%s - %s", a.title, a.now().Format(TimeFormat)),
		fmt.Sprintf("Run: %s, DRY_RUN=%t", runLabel, dryRun),
		"",
	}

	if len(info) > 0 {
		for _, inst := range info {
			lines = append(lines, inst.summaryText())
		}
		lines = append(lines, "")
	}

	if len(labels) == 0 {
		lines = append(lines, ItemsHeading+" "+NoneMarker)
	} else {
		lines = append(lines, ItemsHeading)
		for _, label := range labels {
			lines = append(lines, "  "+label)
			group := byScope[label]
			sortInstances(group)
			for _, inst := range group {
				lines = append(lines, instanceLine(inst, inst.def.level+2))
			}
			for _, rec := range a.records[label] {
				lines = append(lines, rec.Lines("    ")...)
			}
		}
	}

	lines = append(lines, "", GlobalHeading)
	if len(global) == 0 && len(a.records[""]) == 0 {
		lines = append(lines, "  "+NoneMarker)
	}
	for _, inst := range global {
		lines = append(lines, instanceLine(inst, inst.def.level+1))
	}
	for _, rec := range a.records[""] {
		lines = append(lines, rec.Lines("  ")...)
	}

	return &Rendered{Lines: lines}
}

func instanceLine(inst *instance, depth int) string {
	return strings.Repeat("  ", depth) + strings.Repeat("-", depth) + " " + inst.summaryText()
}

// Render builds the report, overwrites the report file when one is
// configured and prints the coloured report to the console stream. It is
// safe to call at any point of a run and any number of times.
func (a *Aggregator) Render(runLabel string, dryRun bool) *Rendered {
	out := a.Build(runLabel, dryRun)
	a.log.Debug().Str("run", runLabel).Bool("dry_run", dryRun).Int("lines", len(out.Lines)).Msg("report rendered")

	if a.reportPath != "" {
		if err := reportfile.Write(a.reportPath, out.Plain()); err != nil {
			a.log.Warn().Err(err).Str("path", a.reportPath).Msg("report file not written")
			a.Error("Could not write report to {path}: {err}", InScope(""), Uncounted(),
				With("path", a.reportPath), With("err", err.Error()))
		}
	}

	for _, line := range out.Lines {
		logging.Line(a.console, colorize(a.styles, line))
	}
	return out
}

var titleStamp = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// classify picks the style of a report line from its text alone.
func classify(line string) string {
	switch {
	case strings.Contains(line, "[ERROR]"):
		return styles.Error
	case strings.Contains(line, "[WARN]"):
		return styles.Warning
	case line == GlobalHeading, strings.HasPrefix(line, ItemsHeading), titleStamp.MatchString(line):
		return styles.Title
	case strings.TrimSpace(line) == NoneMarker:
		return styles.Muted
	case isScopeHeader(line):
		return styles.Scope
	}
	return ""
}

// isScopeHeader matches the "  <label>" lines of the items section. Other
// lines at that indent are global instances ("  - "), records ("  [WARN] ")
// and their continuations ("  .. ").
func isScopeHeader(line string) bool {
	if len(line) < 3 || !strings.HasPrefix(line, "  ") || line[2] == ' ' {
		return false
	}
	rest := line[2:]
	if strings.HasPrefix(rest, "- ") || strings.HasPrefix(rest, ".. ") {
		return false
	}
	for _, lvl := range []Level{LevelInfo, LevelVerbose, LevelWarn, LevelError} {
		if strings.HasPrefix(rest, lvl.Tag()+" ") {
			return false
		}
	}
	return true
}

func colorize(reg styles.Registry, line string) string {
	name := classify(line)
	if name == "" || line == "" {
		return line
	}
	return reg.Get(name).Render(line)
}
