package report

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/output/styles"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testRun struct {
	agg     *Aggregator
	detail  *bytes.Buffer
	console *bytes.Buffer
}

func plainStyles() styles.Registry {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return styles.Default().Build(r)
}

func newTestRun(t *testing.T, opts ...Option) *testRun {
	t.Helper()
	run := &testRun{detail: &bytes.Buffer{}, console: &bytes.Buffer{}}
	base := []Option{
		WithDetail(run.detail),
		WithConsole(run.console),
		WithStyles(plainStyles()),
		WithClock(func() time.Time { return fixedTime }),
	}
	run.agg = New(append(base, opts...)...)
	return run
}

// detailLines returns the detail stream without its timestamps.
func (r *testRun) detailLines() []string {
	var out []string
	for _, line := range splitLines(r.detail.String()) {
		out = append(out, line[len(logging.DetailTimeFormat)+1:])
	}
	return out
}

func (r *testRun) consoleLines() []string {
	return splitLines(r.console.String())
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func requireMisuse(t *testing.T, code errors.ErrorCode, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a %s fault", code)
		fault := errors.AsMisuse(r)
		require.NotNil(t, fault, "unexpected panic value: %v", r)
		assert.Equal(t, code, fault.Code)
	}()
	fn()
}

func findInstances(views []InstanceView, scope string) []InstanceView {
	var out []InstanceView
	for _, v := range views {
		if v.Scope == scope {
			out = append(out, v)
		}
	}
	return out
}
