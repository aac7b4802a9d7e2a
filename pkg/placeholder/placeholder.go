// Package placeholder implements message templates with three classes of
// substitution:
//
//   - immediate {name} tokens, bound when a header or log line is created
//   - the deferred count token (%count% by default), bound at report time
//   - the %item% token, bound to the open leaf id when a line is emitted
//
// A template is parsed once into segments so that each class is resolved
// independently. Values substituted into a template become literals and are
// never parsed again.
package placeholder

import (
	"strconv"
	"strings"
)

// Kind identifies what a segment holds.
type Kind int

const (
	// Literal is plain text.
	Literal Kind = iota
	// Var is an immediate {name} token.
	Var
	// Msg is the %msg% token, replaced by a header's detail message.
	Msg
	// Count is the deferred count token.
	Count
	// Item is the %item% leaf token.
	Item
)

// Tokens recognised by Parse. Matching is case-insensitive, so %Count% and
// %Item% are accepted too.
const (
	DefaultCountToken = "%count%"
	ItemToken         = "%item%"
	MsgToken          = "%msg%"
)

// Segment is one parsed piece of a template. Text is the literal text, the
// variable name for Var, or the token exactly as written for the others.
type Segment struct {
	Kind Kind
	Text string
}

// Template is an immutable parsed message.
type Template struct {
	segments []Segment
}

// Values supplies the deferred parts of a template at render time.
type Values struct {
	Count    int
	HasCount bool
	// Item is the leaf id. An empty Item renders %item% as nothing.
	Item string
}

// Parse parses s using the default count token.
func Parse(s string) Template {
	return ParseCount(s, DefaultCountToken)
}

// ParseCount parses s, treating countToken as the deferred count placeholder.
// Malformed braces and anything that is not a recognised token are kept as
// literal text.
func ParseCount(s, countToken string) Template {
	if countToken == "" {
		countToken = DefaultCountToken
	}

	var segs []Segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Kind: Literal, Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case hasTokenAt(s, i, countToken):
			flush()
			segs = append(segs, Segment{Kind: Count, Text: s[i : i+len(countToken)]})
			i += len(countToken)
		case hasTokenAt(s, i, ItemToken):
			flush()
			segs = append(segs, Segment{Kind: Item, Text: s[i : i+len(ItemToken)]})
			i += len(ItemToken)
		case hasTokenAt(s, i, MsgToken):
			flush()
			segs = append(segs, Segment{Kind: Msg, Text: s[i : i+len(MsgToken)]})
			i += len(MsgToken)
		case s[i] == '{':
			if name, n := varAt(s, i); n > 0 {
				flush()
				segs = append(segs, Segment{Kind: Var, Text: name})
				i += n
				continue
			}
			lit.WriteByte(s[i])
			i++
		default:
			lit.WriteByte(s[i])
			i++
		}
	}
	flush()

	return Template{segments: segs}
}

func hasTokenAt(s string, i int, tok string) bool {
	return len(s)-i >= len(tok) && strings.EqualFold(s[i:i+len(tok)], tok)
}

// varAt returns the identifier of a {name} token starting at s[i] and the
// token length, or 0 when there is no well-formed token there.
func varAt(s string, i int) (string, int) {
	j := i + 1
	for j < len(s) && isIdentByte(s[j], j == i+1) {
		j++
	}
	if j == i+1 || j >= len(s) || s[j] != '}' {
		return "", 0
	}
	return s[i+1 : j], j - i + 1
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// Segments returns a copy of the parsed segments.
func (t Template) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

// Has reports whether the template contains a segment of kind k.
func (t Template) Has(k Kind) bool {
	for _, seg := range t.segments {
		if seg.Kind == k {
			return true
		}
	}
	return false
}

// HasItem reports whether the template references the leaf id.
func (t Template) HasItem() bool { return t.Has(Item) }

// HasCount reports whether the template carries a deferred count.
func (t Template) HasCount() bool { return t.Has(Count) }

// WithMsg splices msg into every %msg% segment.
func (t Template) WithMsg(msg Template) Template {
	if !t.Has(Msg) {
		return t
	}
	out := make([]Segment, 0, len(t.segments)+len(msg.segments))
	for _, seg := range t.segments {
		if seg.Kind == Msg {
			out = append(out, msg.segments...)
			continue
		}
		out = append(out, seg)
	}
	return Template{segments: mergeLiterals(out)}
}

// Bind resolves {name} tokens found in vars. Unknown names stay as written.
func (t Template) Bind(vars map[string]string) Template {
	if len(vars) == 0 || !t.Has(Var) {
		return t
	}
	out := make([]Segment, len(t.segments))
	for i, seg := range t.segments {
		if seg.Kind == Var {
			if v, ok := vars[seg.Text]; ok {
				seg = Segment{Kind: Literal, Text: v}
			}
		}
		out[i] = seg
	}
	return Template{segments: mergeLiterals(out)}
}

// Render produces the final text. A count token without a count keeps its
// raw form so it can still be resolved later.
func (t Template) Render(v Values) string {
	var b strings.Builder
	for _, seg := range t.segments {
		switch seg.Kind {
		case Literal:
			b.WriteString(seg.Text)
		case Var:
			b.WriteString("{" + seg.Text + "}")
		case Count:
			if v.HasCount {
				b.WriteString(strconv.Itoa(v.Count))
			} else {
				b.WriteString(seg.Text)
			}
		case Item:
			b.WriteString(v.Item)
		case Msg:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// String returns the template with every placeholder in its raw form.
func (t Template) String() string {
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.Kind == Var {
			b.WriteString("{" + seg.Text + "}")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func mergeLiterals(segs []Segment) []Segment {
	out := segs[:0:0]
	for _, seg := range segs {
		if seg.Kind == Literal {
			if seg.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == Literal {
				out[n-1].Text += seg.Text
				continue
			}
		}
		out = append(out, seg)
	}
	return out
}
