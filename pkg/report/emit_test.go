package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/musiclib/libsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameLeafCountsOnce(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d lines", n), func(t *testing.T) {
			run := newTestRun(t)
			agg := run.agg

			k := agg.OpenHeader("Step")
			l := agg.SetLeaf("01.flac")
			for i := 0; i < n; i++ {
				agg.Info("touch %item%")
			}
			agg.UnsetLeaf(l)
			agg.CloseHeader(k)

			views := agg.Instances()
			require.Len(t, views, 1)
			assert.Equal(t, 1, views[0].Count)
			assert.Len(t, run.detailLines(), n+1, "every call is still written")
		})
	}
}

func TestDistinctLeavesCountSeparately(t *testing.T) {
	agg := newTestRun(t).agg

	k := agg.OpenHeader("Step")
	for _, id := range []string{"a", "b", "a", "c"} {
		l := agg.SetLeaf(id)
		agg.Warn("odd %item%")
		agg.UnsetLeaf(l)
	}
	agg.CloseHeader(k)

	assert.Equal(t, 3, agg.Instances()[0].Count)
	assert.Equal(t, 4, agg.CountWarnings())
}

func TestCountsEveryActiveInstance(t *testing.T) {
	agg := newTestRun(t).agg

	outer := agg.OpenHeader("outer")
	inner := agg.OpenHeader("inner")
	l := agg.SetLeaf("x")
	agg.Info("done")
	agg.UnsetLeaf(l)
	agg.CloseHeader(inner)
	agg.CloseHeader(outer)

	for _, v := range agg.Instances() {
		assert.Equal(t, 1, v.Count, v.Summary)
	}
}

func TestVerboseNeverCounts(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	k := agg.OpenHeader("Step")
	l := agg.SetLeaf("skip.flac")
	agg.Verbose("SKIP %item%")
	agg.Verbose("SKIP %item% again")
	agg.UnsetLeaf(l)
	agg.Verbose("no leaf")
	agg.CloseHeader(k)

	assert.Equal(t, 0, agg.Instances()[0].Count)
	assert.Equal(t, []string{"Step"}, run.consoleLines(), "verbose lines stay off the console")
	assert.Len(t, run.detailLines(), 4)
}

func TestLinesWithoutLeafDoNotCount(t *testing.T) {
	agg := newTestRun(t).agg

	k := agg.OpenHeader("Step")
	agg.Info("nothing open")
	agg.Error("still nothing")
	agg.CloseHeader(k)

	assert.Equal(t, 0, agg.Instances()[0].Count)
	assert.Equal(t, 1, agg.CountErrors())
}

func TestItemPlaceholderNeedsLeaf(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	requireMisuse(t, errors.ErrLeafPlaceholderNoLeaf, func() {
		agg.Info("No cover found for %item%")
	})
	requireMisuse(t, errors.ErrLeafPlaceholderNoLeaf, func() {
		agg.Warn("No cover found for %Item%")
	})
	assert.Empty(t, run.detail.String())
	assert.Equal(t, 0, agg.CountWarnings())
}

func TestLogLineLayout(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	agg.Info("top level")
	k := agg.OpenHeader("Step 1")
	agg.Warn("first\nsecond\nthird")
	s := agg.SetScope(Scope{Label: "Lorde - Pure Heroine (2013)", Vars: map[string]string{"year": "2013"}})
	agg.Info("year {year}, dest {dest}", With("dest", "/music"))
	agg.Info("already names Lorde - Pure Heroine (2013)")
	agg.Info("global despite scope", InScope(""))
	agg.Info("other album {year}", InScope("Other"))
	agg.Info("quiet", DetailOnly())
	agg.UnsetScope(s)
	agg.CloseHeader(k)

	assert.Equal(t, []string{
		"[INFO] top level",
		"Step 1",
		"  > [WARN] first",
		"  .. second",
		"  .. third",
		"  > [INFO] Lorde - Pure Heroine (2013): year 2013, dest /music",
		"  > [INFO] already names Lorde - Pure Heroine (2013)",
		"  > [INFO] global despite scope",
		"  > [INFO] Other: other album {year}",
		"  > [INFO] Lorde - Pure Heroine (2013): quiet",
	}, run.detailLines())

	console := run.consoleLines()
	assert.Len(t, console, 9)
	assert.NotContains(t, strings.Join(console, "\n"), "quiet")
}

func TestCallValuesOverrideScopeVars(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	agg.SetScope(Scope{Label: "A", Vars: map[string]string{"artist": "scope", "year": "1999"}})
	agg.Info("{artist} {year} {missing}", Vars(map[string]string{"artist": "call"}))

	assert.Equal(t, []string{"[INFO] A: call 1999 {missing}"}, run.detailLines())
}

func TestBoundValuesCannotInjectPlaceholders(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	agg.Info("dest={dest}", With("dest", "%item% {other}"))

	assert.Equal(t, []string{"[INFO] dest=%item% {other}"}, run.detailLines())
}

func TestWarningsAreRecordedPerScope(t *testing.T) {
	agg := newTestRun(t).agg

	s := agg.SetScope(Scope{Label: "Album"})
	l := agg.SetLeaf("01.mp3")
	agg.Warn("lossy %item%")
	agg.UnsetLeaf(l)
	agg.Error("broken", InScope(""))
	agg.UnsetScope(s)
	agg.Warn("global warning")

	assert.Equal(t, []Record{{Level: LevelWarn, Message: "lossy 01.mp3", Scope: "Album"}}, agg.Warnings("Album"))
	assert.Equal(t, []Record{
		{Level: LevelError, Message: "broken", Scope: ""},
		{Level: LevelWarn, Message: "global warning", Scope: ""},
	}, agg.Warnings(""))
	assert.Equal(t, 2, agg.CountWarnings())
	assert.Equal(t, 1, agg.CountErrors())
}

func TestException(t *testing.T) {
	run := newTestRun(t)
	agg := run.agg

	agg.Exception("Tagging failed for {file}", fmt.Errorf("bad frame"), With("file", "01.flac"))

	require.Equal(t, 1, agg.CountErrors())
	rec := agg.Warnings("")[0]
	assert.True(t, strings.HasPrefix(rec.Message, "Tagging failed for 01.flac\nbad frame\ngoroutine "), rec.Message)

	lines := run.detailLines()
	assert.Equal(t, "[ERROR] Tagging failed for 01.flac", lines[0])
	assert.Equal(t, ".. bad frame", lines[1])
	assert.Greater(t, len(lines), 2)
}

func TestTopInstanceKeepsLines(t *testing.T) {
	agg := newTestRun(t).agg

	outer := agg.OpenHeader("outer")
	agg.Info("for outer")
	inner := agg.OpenHeader("inner")
	agg.Info("for inner")
	agg.CloseHeader(inner)
	agg.CloseHeader(outer)

	views := agg.Instances()
	require.Len(t, views, 2)
	assert.Equal(t, []string{"  > [INFO] for outer"}, views[0].Lines)
	assert.Equal(t, []string{"    >> [INFO] for inner"}, views[1].Lines)
}

func TestLevelStrings(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "verbose", LevelVerbose.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}
