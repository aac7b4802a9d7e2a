package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/output/styles"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processAlbum(agg *Aggregator, label string, tracks ...string) {
	s := agg.SetScope(Scope{Label: label})
	for _, track := range tracks {
		l := agg.SetLeaf(track)
		agg.Info("MOVE %item% -> dest")
		agg.UnsetLeaf(l)
	}
	agg.UnsetScope(s)
}

func TestScenarioSingleAlbum(t *testing.T) {
	agg := newTestRun(t).agg

	k1 := agg.OpenHeader("Step 1: Process downloads", Summary("%msg% (%count% albums)"))
	a1 := agg.SetScope(Scope{Label: "Lorde - Pure Heroine (2013)"})
	i1 := agg.SetLeaf("01 - Tennis Court.flac")
	agg.Info("MOVE %item% -> dest")
	agg.UnsetLeaf(i1)
	agg.UnsetScope(a1)
	agg.CloseHeader(k1)

	out := agg.Render("downloads", false)
	assert.Equal(t, []string{
		"Library sync report - 2024-05-01 12:00:00",
		"Run: downloads, DRY_RUN=false",
		"",
		"Items processed:",
		"  Lorde - Pure Heroine (2013)",
		"    -- Step 1: Process downloads (1 albums)",
		"",
		"Global:",
		"  (none)",
	}, out.Lines)
}

func TestScenarioRepeatedLeaf(t *testing.T) {
	agg := newTestRun(t).agg

	k1 := agg.OpenHeader("Step 1: Process downloads", Summary("%msg% (%count% albums)"))
	a1 := agg.SetScope(Scope{Label: "Lorde - Pure Heroine (2013)"})
	i1 := agg.SetLeaf("01 - Tennis Court.flac")
	agg.Info("MOVE %item% -> dest")
	agg.Info("MOVE %item% -> dest")
	agg.UnsetLeaf(i1)
	agg.UnsetScope(a1)
	agg.CloseHeader(k1)

	views := findInstances(agg.Instances(), "Lorde - Pure Heroine (2013)")
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].Count)
	assert.Contains(t, agg.Build("x", false).Lines, "    -- Step 1: Process downloads (1 albums)")
}

func TestScenarioItemWithoutLeaf(t *testing.T) {
	agg := newTestRun(t).agg
	requireMisuse(t, errors.ErrLeafPlaceholderNoLeaf, func() {
		agg.Info("No cover found for %item%")
	})
}

func TestScenarioHeaderWithItemLeavesStateAlone(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	agg.OpenHeader("X", Summary("%msg%"))
	before := agg.Instances()
	detailBefore := run.detail.String()

	requireMisuse(t, errors.ErrHeaderLeafPlaceholder, func() {
		agg.OpenHeader("Y %item%", Summary("%msg%"))
	})

	assert.Equal(t, 1, agg.Depth())
	assert.Len(t, agg.instStack, 1)
	assert.Equal(t, before, agg.Instances())
	assert.Len(t, agg.reg.defs, 1)
	assert.Equal(t, detailBefore, run.detail.String())
}

func TestScenarioTwoScopesUnderOneHeader(t *testing.T) {
	agg := newTestRun(t).agg

	k := agg.OpenHeader("Step 1: Process downloads", Summary("%msg% (%count% albums)"))
	processAlbum(agg, "Lorde - Pure Heroine (2013)", "01.flac", "02.flac")
	processAlbum(agg, "Lorde - Melodrama (2017)", "01.flac")
	agg.CloseHeader(k)

	first := findInstances(agg.Instances(), "Lorde - Pure Heroine (2013)")
	second := findInstances(agg.Instances(), "Lorde - Melodrama (2017)")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, 2, first[0].Count)
	assert.Equal(t, 1, second[0].Count)
	assert.Equal(t, k, first[0].Key)
	assert.Equal(t, k, second[0].Key)

	lines := agg.Build("x", false).Lines
	assert.Equal(t, []string{
		"Items processed:",
		"  Lorde - Melodrama (2017)",
		"    -- Step 1: Process downloads (1 albums)",
		"  Lorde - Pure Heroine (2013)",
		"    -- Step 1: Process downloads (2 albums)",
	}, lines[3:8])
}

func TestRevisitedScopeReusesInstance(t *testing.T) {
	agg := newTestRun(t).agg

	k := agg.OpenHeader("Step", Summary("%msg% (%count%)"))
	processAlbum(agg, "A", "1")
	processAlbum(agg, "B", "1")
	processAlbum(agg, "A", "1", "2")
	agg.CloseHeader(k)

	views := findInstances(agg.Instances(), "A")
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].Count)
}

func TestAlwaysShowFiltering(t *testing.T) {
	agg := newTestRun(t).agg

	shown := agg.OpenHeader("Step 3: Report", AlwaysShow())
	agg.CloseHeader(shown)
	hidden := agg.OpenHeader("Step 4: Nothing")
	agg.CloseHeader(hidden)

	lines := agg.Build("x", true).Lines
	assert.Equal(t, []string{
		"Library sync report - 2024-05-01 12:00:00",
		"Run: x, DRY_RUN=true",
		"",
		"Step 3: Report",
		"",
		"Items processed: (none)",
		"",
		"Global:",
		"  (none)",
	}, lines)
}

func TestRenderNestingAndWarnings(t *testing.T) {
	agg := newTestRun(t, WithTitle("Maintenance")).agg

	step := agg.OpenHeader("Step 2: Artwork", Summary("%msg% (%N% albums)"), CountToken("%n%"))
	s := agg.SetScope(Scope{Label: "Beach House - Bloom (2012)"})
	sub := agg.OpenHeader("Resize", Summary("%msg%: %count% images"))
	l := agg.SetLeaf("cover.jpg")
	agg.Warn("Cover too small\n300x300")
	agg.UnsetLeaf(l)
	agg.CloseHeader(sub)
	agg.UnsetScope(s)

	l = agg.SetLeaf("global-item")
	agg.Info("counted globally")
	agg.UnsetLeaf(l)
	agg.Error("Backup target offline")
	agg.CloseHeader(step)

	agg.Warn("Orphan warning", InScope("Unknown Artist - Demos"))

	assert.Equal(t, []string{
		"Maintenance - 2024-05-01 12:00:00",
		"Run: sync, DRY_RUN=false",
		"",
		"Items processed:",
		"  Beach House - Bloom (2012)",
		"    -- Step 2: Artwork (1 albums)",
		"      --- Resize: 1 images",
		"    [WARN] Cover too small",
		"    .. 300x300",
		"  Unknown Artist - Demos",
		"    [WARN] Orphan warning",
		"",
		"Global:",
		"  - Step 2: Artwork (1 albums)",
		"  [ERROR] Backup target offline",
	}, agg.Build("sync", false).Lines)
}

func TestRenderIsDeterministic(t *testing.T) {
	agg := newTestRun(t).agg

	k := agg.OpenHeader("Step", Summary("%msg% (%count%)"))
	processAlbum(agg, "Z", "1")
	processAlbum(agg, "A", "1", "2")
	processAlbum(agg, "M", "1")
	agg.CloseHeader(k)
	agg.Warn("w")

	first := agg.Build("run", false)
	second := agg.Build("run", false)
	assert.Equal(t, first.Plain(), second.Plain())
	assert.Equal(t, first.Plain(), agg.Render("run", false).Plain())
}

func TestRenderWritesReportAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "report.txt")
	run := newTestRun(t, WithReportFile(path))
	agg := run.agg

	k := agg.OpenHeader("Step 1")
	processAlbum(agg, "Album", "track")
	agg.CloseHeader(k)
	run.console.Reset()

	out := agg.Render("run", false)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.Plain(), string(data))
	assert.Equal(t, out.Lines, run.consoleLines())
	assert.Equal(t, 0, agg.CountErrors())
}

func TestRenderReportsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	path := filepath.Join(blocker, "report.txt")

	run := newTestRun(t, WithReportFile(path))
	agg := run.agg
	s := agg.SetScope(Scope{Label: "Album"})

	assert.NotPanics(t, func() { agg.Render("run", false) })

	assert.Equal(t, 1, agg.CountErrors())
	global := agg.Warnings("")
	require.Len(t, global, 1)
	assert.True(t, strings.HasPrefix(global[0].Message, "Could not write report to "+path+": "), global[0].Message)
	assert.Empty(t, agg.Warnings("Album"))
	agg.UnsetScope(s)

	assert.Contains(t, agg.Build("run", false).Lines, "  [ERROR] "+global[0].Message)
}

func TestRenderWriteFailureKeepsCounts(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	agg := newTestRun(t, WithReportFile(filepath.Join(blocker, "report.txt"))).agg
	agg.OpenHeader("Step 1", Summary("%msg% (%count%)"))
	agg.SetScope(Scope{Label: "Album"})
	agg.SetLeaf("track-2")

	first := agg.Render("run", false)
	require.Len(t, findInstances(agg.Instances(), "Album"), 1)
	assert.Equal(t, 0, findInstances(agg.Instances(), "Album")[0].Count)
	assert.Equal(t, 1, agg.CountErrors())

	second := agg.Build("run", false)
	assert.NotContains(t, second.Lines, "    -- Step 1 (1)")
	assert.Equal(t, first.Lines[:len(first.Lines)-1], second.Lines[:len(second.Lines)-1])
	assert.Equal(t, "  (none)", first.Lines[len(first.Lines)-1])
	assert.True(t, strings.HasPrefix(second.Lines[len(second.Lines)-1], "  [ERROR] Could not write report to "))
}

func TestUncountedLineLeavesCountsAlone(t *testing.T) {
	agg := newTestRun(t).agg
	agg.OpenHeader("Step 1", Summary("%msg% (%count%)"))
	agg.SetScope(Scope{Label: "Album"})
	agg.SetLeaf("track-1")

	agg.Error("run failed", Uncounted())
	assert.Equal(t, 0, findInstances(agg.Instances(), "Album")[0].Count)
	assert.Equal(t, 1, agg.CountErrors())

	agg.Warn("real problem with %item%")
	assert.Equal(t, 1, findInstances(agg.Instances(), "Album")[0].Count)
}

func TestClearResetsRunState(t *testing.T) {
	agg := newTestRun(t).agg

	agg.OpenHeader("Step")
	agg.SetScope(Scope{Label: "A"})
	agg.SetLeaf("x")
	agg.Warn("w %item%")
	agg.Error("e")

	agg.Clear()

	assert.Equal(t, 0, agg.Depth())
	assert.Equal(t, "", agg.ScopeLabel())
	assert.Equal(t, "", agg.LeafID())
	assert.Equal(t, 0, agg.CountWarnings())
	assert.Equal(t, 0, agg.CountErrors())
	assert.Empty(t, agg.Instances())
	assert.NotPanics(t, func() { agg.SetScope(Scope{Label: "B"}) })
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Library sync report - 2024-05-01 12:00:00", styles.Title},
		{"Items processed:", styles.Title},
		{"Items processed: (none)", styles.Title},
		{"Global:", styles.Title},
		{"  Lorde - Pure Heroine (2013)", styles.Scope},
		{"  (hed) p.e. - Broken Boy Soldiers", styles.Scope},
		{"  [bracketed] - Album", styles.Scope},
		{"  ...And You Will Know Us - Source Tags", styles.Scope},
		{"  -M- - Qui de nous deux", styles.Scope},
		{"    -- Step 1 (1 albums)", ""},
		{"  - Step 1", ""},
		{"  (none)", styles.Muted},
		{"    [WARN] lossy", styles.Warning},
		{"  [ERROR] broken", styles.Error},
		{"    .. continuation", ""},
		{"  .. continuation", ""},
		{"Run: x, DRY_RUN=false", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.line))
		})
	}
}

func TestColoredUsesStyles(t *testing.T) {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.ANSI256)
	reg := styles.Default().Build(r)

	out := &Rendered{Lines: []string{"Global:", "  [ERROR] broken", "plain"}}
	colored := out.Colored(reg)

	assert.Contains(t, colored, "\x1b[")
	assert.Contains(t, colored, "broken")
	assert.True(t, strings.HasSuffix(colored, "plain\n"))
	assert.Equal(t, out.Plain(), out.Colored(plainStyles()))
}
