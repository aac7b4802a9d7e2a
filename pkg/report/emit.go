package report

import (
	"runtime/debug"
	"strings"

	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/placeholder"
)

// Level is the severity of a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarn
	LevelError
)

// Tag returns the bracketed tag written in front of a line.
func (l Level) Tag() string {
	switch l {
	case LevelVerbose:
		return "[VERBOSE]"
	case LevelWarn:
		return "[WARN]"
	case LevelError:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

func (l Level) String() string {
	return strings.ToLower(strings.Trim(l.Tag(), "[]"))
}

// Record is a warning or error kept for the report.
type Record struct {
	Level   Level
	Message string
	Scope   string
}

// Lines formats the record for the report at indent.
func (r Record) Lines(indent string) []string {
	parts := strings.Split(r.Message, "\n")
	out := make([]string, 0, len(parts))
	out = append(out, indent+r.Level.Tag()+" "+parts[0])
	for _, p := range parts[1:] {
		out = append(out, indent+".. "+p)
	}
	return out
}

type logCall struct {
	vars       map[string]string
	scope      *string
	detailOnly bool
	noCount    bool
	trace      string
}

// LogOption configures a single log call.
type LogOption func(*logCall)

// With binds {name} to value for this call.
func With(name, value string) LogOption {
	return func(c *logCall) {
		if c.vars == nil {
			c.vars = make(map[string]string)
		}
		c.vars[name] = value
	}
}

// Vars binds every entry of vars for this call.
func Vars(vars map[string]string) LogOption {
	return func(c *logCall) {
		for k, v := range vars {
			With(k, v)(c)
		}
	}
}

// InScope attributes the line to label instead of the open scope. An empty
// label forces the global scope.
func InScope(label string) LogOption {
	return func(c *logCall) {
		c.scope = &label
	}
}

// Uncounted keeps the line out of dedup counting even when a leaf is open.
// Use it for faults about the run itself rather than the open item.
func Uncounted() LogOption {
	return func(c *logCall) {
		c.noCount = true
	}
}

// DetailOnly keeps the line off the console.
func DetailOnly() LogOption {
	return func(c *logCall) {
		c.detailOnly = true
	}
}

// Info records an informational line.
func (a *Aggregator) Info(msg string, opts ...LogOption) { a.logLine(msg, LevelInfo, opts) }

// Verbose records a line that is only written to the detail stream and never
// counts, typically a skipped item.
func (a *Aggregator) Verbose(msg string, opts ...LogOption) { a.logLine(msg, LevelVerbose, opts) }

// Warn records a warning.
func (a *Aggregator) Warn(msg string, opts ...LogOption) { a.logLine(msg, LevelWarn, opts) }

// Error records an error.
func (a *Aggregator) Error(msg string, opts ...LogOption) { a.logLine(msg, LevelError, opts) }

// Exception records an error followed by err and the current goroutine's
// stack.
func (a *Aggregator) Exception(msg string, err error, opts ...LogOption) {
	var b strings.Builder
	if err != nil {
		b.WriteString(err.Error())
		b.WriteByte('\n')
	}
	b.WriteString(strings.TrimRight(string(debug.Stack()), "\n"))
	trace := b.String()

	opts = append(opts, func(c *logCall) { c.trace = trace })
	a.logLine(msg, LevelError, opts)
}

// Log records msg at level.
func (a *Aggregator) Log(msg string, level Level, opts ...LogOption) {
	a.logLine(msg, level, opts)
}

func (a *Aggregator) logLine(msg string, level Level, opts []LogOption) {
	var call logCall
	for _, opt := range opts {
		opt(&call)
	}

	scopeLabel := a.ScopeLabel()
	vars := a.scopeVars()
	if call.scope != nil {
		scopeLabel = *call.scope
		if a.scope == nil || a.scope.Label != scopeLabel {
			vars = nil
		}
	}

	tmpl := placeholder.Parse(msg)
	if tmpl.HasItem() && a.leaf == nil {
		errors.Misuse(errors.ErrLeafPlaceholderNoLeaf,
			"message %q uses %s but no leaf is open", msg, placeholder.ItemToken)
	}

	bound := make(map[string]string, len(vars)+len(call.vars))
	for k, v := range vars {
		bound[k] = v
	}
	for k, v := range call.vars {
		bound[k] = v
	}
	rendered := tmpl.Bind(bound).Render(placeholder.Values{Item: a.LeafID()})
	if call.trace != "" {
		rendered += "\n" + call.trace
	}

	text := rendered
	if scopeLabel != "" && !strings.Contains(text, scopeLabel) {
		text = scopeLabel + ": " + text
	}

	depth := len(a.defStack)
	indent := levelIndent(depth)
	parts := strings.Split(text, "\n")
	lines := make([]string, 0, len(parts))
	lines = append(lines, indent+levelPrefix(depth)+level.Tag()+" "+parts[0])
	for _, p := range parts[1:] {
		lines = append(lines, indent+".. "+p)
	}

	consoleToo := level != LevelVerbose && !call.detailOnly
	for _, line := range lines {
		a.emit(line, !consoleToo)
	}

	switch level {
	case LevelWarn:
		a.records[scopeLabel] = append(a.records[scopeLabel], Record{Level: level, Message: rendered, Scope: scopeLabel})
		a.warnCount++
	case LevelError:
		a.records[scopeLabel] = append(a.records[scopeLabel], Record{Level: level, Message: rendered, Scope: scopeLabel})
		a.errCount++
	}

	if a.leaf != nil && level != LevelVerbose && !call.noCount {
		for _, inst := range a.instStack {
			inst.countLeaf(a.leaf.id)
		}
	}

	if n := len(a.instStack); n > 0 {
		top := a.instStack[n-1]
		top.lines = append(top.lines, strings.Join(lines, "\n"))
	}
}

// emit writes line to the detail stream and, unless detailOnly, to the
// console stream.
func (a *Aggregator) emit(line string, detailOnly bool) {
	logging.Line(a.detail, line)
	if !detailOnly {
		logging.Line(a.console, line)
	}
}
