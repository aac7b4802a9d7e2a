package report

import (
	"io"
	"time"

	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/output/styles"
	"github.com/rs/zerolog"
)

// DefaultTitle heads the rendered report unless WithTitle overrides it.
const DefaultTitle = "Library sync report"

// Scope is the grouping context of a unit of work. Vars are available to
// {name} placeholders while the scope is open.
type Scope struct {
	Label string
	Vars  map[string]string
}

type openScope struct {
	Scope
	key string
}

type openLeaf struct {
	id  string
	key string
}

// Aggregator collects the outcome of a run. Create one with New and pass it
// to every component that reports.
type Aggregator struct {
	detail     zerolog.Logger
	console    zerolog.Logger
	log        zerolog.Logger
	reportPath string
	styles     styles.Registry
	now        func() time.Time
	title      string

	reg       *registry
	defStack  []string
	instStack []*instance
	scope     *openScope
	leaf      *openLeaf
	records   map[string][]Record
	warnCount int
	errCount  int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithDetail sends the detail stream to w.
func WithDetail(w io.Writer) Option {
	return func(a *Aggregator) {
		a.detail = logging.NewDetailLogger(w)
	}
}

// WithConsole sends the console stream to w.
func WithConsole(w io.Writer) Option {
	return func(a *Aggregator) {
		a.console = logging.NewConsoleLogger(w, true)
	}
}

// WithReportFile makes Render overwrite the plain-text report at path.
func WithReportFile(path string) Option {
	return func(a *Aggregator) {
		a.reportPath = path
	}
}

// WithStyles sets the styles used to colour the console rendering.
func WithStyles(reg styles.Registry) Option {
	return func(a *Aggregator) {
		a.styles = reg
	}
}

// WithClock replaces time.Now for the report title line.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithTitle sets the report title.
func WithTitle(title string) Option {
	return func(a *Aggregator) {
		if title != "" {
			a.title = title
		}
	}
}

// New returns an empty aggregator. Without options both streams are
// discarded and no report file is written.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		detail:  zerolog.Nop(),
		console: zerolog.Nop(),
		log:     logging.GetLogger("report"),
		now:     time.Now,
		title:   DefaultTitle,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.styles.IsZero() {
		a.styles = styles.Default().Build(nil)
	}
	a.Clear()
	return a
}

// Clear drops all run state. Streams, styles and the report path are kept.
func (a *Aggregator) Clear() {
	a.reg = newRegistry()
	a.defStack = nil
	a.instStack = nil
	a.scope = nil
	a.leaf = nil
	a.records = make(map[string][]Record)
	a.warnCount = 0
	a.errCount = 0
}

// CountWarnings returns the number of warnings recorded so far.
func (a *Aggregator) CountWarnings() int { return a.warnCount }

// CountErrors returns the number of errors recorded so far, exceptions
// included.
func (a *Aggregator) CountErrors() int { return a.errCount }

// Depth returns the number of open headers.
func (a *Aggregator) Depth() int { return len(a.defStack) }

// ScopeLabel returns the open scope label, or "" when none is open.
func (a *Aggregator) ScopeLabel() string {
	if a.scope == nil {
		return ""
	}
	return a.scope.Label
}

// LeafID returns the open leaf id, or "" when none is open.
func (a *Aggregator) LeafID() string {
	if a.leaf == nil {
		return ""
	}
	return a.leaf.id
}

// InstanceView is a read-only snapshot of one header instance.
type InstanceView struct {
	Key        string
	Category   string
	Scope      string
	Level      int
	Count      int
	AlwaysShow bool
	Summary    string
	Lines      []string
}

// Instances returns every instance created so far in creation order.
func (a *Aggregator) Instances() []InstanceView {
	views := make([]InstanceView, 0, len(a.reg.ordered))
	for _, inst := range a.reg.ordered {
		views = append(views, InstanceView{
			Key:        inst.def.key,
			Category:   inst.def.category,
			Scope:      inst.scope,
			Level:      inst.def.level,
			Count:      inst.count,
			AlwaysShow: inst.alwaysShow,
			Summary:    inst.summaryText(),
			Lines:      append([]string(nil), inst.lines...),
		})
	}
	return views
}

// Warnings returns the warnings and errors recorded under scope, "" being
// the global list.
func (a *Aggregator) Warnings(scope string) []Record {
	return append([]Record(nil), a.records[scope]...)
}
