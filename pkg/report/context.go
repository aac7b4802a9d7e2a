package report

import (
	"strings"

	"github.com/google/uuid"
	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/placeholder"
)

type headerConfig struct {
	summary    *string
	category   string
	countToken string
	alwaysShow bool
}

// HeaderOption configures OpenHeader.
type HeaderOption func(*headerConfig)

// Summary sets the report line template. %msg% stands for the detail
// message. Without it the detail message itself is the summary.
func Summary(tmpl string) HeaderOption {
	return func(c *headerConfig) {
		c.summary = &tmpl
	}
}

// Category tags the header for read-back.
func Category(category string) HeaderOption {
	return func(c *headerConfig) {
		c.category = category
	}
}

// CountToken replaces %count% as the deferred count placeholder.
func CountToken(token string) HeaderOption {
	return func(c *headerConfig) {
		c.countToken = token
	}
}

// AlwaysShow keeps the header in the report even when nothing counted.
func AlwaysShow() HeaderOption {
	return func(c *headerConfig) {
		c.alwaysShow = true
	}
}

// prepareHeader validates and builds a definition without touching state.
// The level is filled in by the caller.
func (a *Aggregator) prepareHeader(detail string, opts []HeaderOption) *definition {
	cfg := headerConfig{countToken: placeholder.DefaultCountToken}
	for _, opt := range opts {
		opt(&cfg)
	}

	detailTmpl := placeholder.ParseCount(detail, cfg.countToken)
	summarySrc := detail
	if cfg.summary != nil {
		summarySrc = *cfg.summary
	}
	summaryTmpl := placeholder.ParseCount(summarySrc, cfg.countToken).WithMsg(detailTmpl)

	if detailTmpl.HasItem() || summaryTmpl.HasItem() {
		errors.Misuse(errors.ErrHeaderLeafPlaceholder,
			"header %q must not use %s", detail, placeholder.ItemToken)
	}

	vars := a.scopeVars()
	return &definition{
		key:        uuid.NewString(),
		category:   cfg.category,
		summary:    summaryTmpl.Bind(vars),
		detail:     detailTmpl.Bind(vars).String(),
		alwaysShow: cfg.alwaysShow,
	}
}

// OpenHeader pushes a new header and returns the key that closes it. The
// detail message is written to both streams right away.
func (a *Aggregator) OpenHeader(detail string, opts ...HeaderOption) string {
	def := a.prepareHeader(detail, opts)
	a.pushHeader(def)
	return def.key
}

// ReplaceHeader closes prevKey, when it is not empty, and opens a new header
// in its place. The new header is validated before anything is closed.
func (a *Aggregator) ReplaceHeader(prevKey, detail string, opts ...HeaderOption) string {
	def := a.prepareHeader(detail, opts)
	if prevKey != "" {
		a.CloseHeader(prevKey)
	}
	a.pushHeader(def)
	return def.key
}

func (a *Aggregator) pushHeader(def *definition) {
	def.level = len(a.defStack)
	a.reg.define(def)
	a.defStack = append(a.defStack, def.key)
	a.refreshInstances()

	a.log.Debug().Str("key", def.key).Int("level", def.level).Msg("header opened")
	a.emit(levelIndent(def.level)+levelPrefix(def.level)+def.detail, false)
}

// CloseHeader pops the top header. key must be the one OpenHeader returned
// for it.
func (a *Aggregator) CloseHeader(key string) {
	n := len(a.defStack)
	if n == 0 {
		errors.Misuse(errors.ErrHeaderStackEmpty, "cannot close header %s: no header is open", key)
	}
	if top := a.defStack[n-1]; top != key {
		errors.Misuse(errors.ErrHeaderKeyMismatch,
			"cannot close header %s: the innermost open header is %s", key, top)
	}
	a.defStack = a.defStack[:n-1]
	a.instStack = a.instStack[:n-1]
	a.log.Debug().Str("key", key).Msg("header closed")
}

// SetScope opens s and returns the key that closes it.
func (a *Aggregator) SetScope(s Scope) string {
	if s.Label == "" {
		errors.Misuse(errors.ErrScopeEmptyLabel, "scope label must not be empty")
	}
	if a.scope != nil {
		errors.Misuse(errors.ErrScopeAlreadyOpen,
			"cannot open scope %q: scope %q is still open", s.Label, a.scope.Label)
	}

	vars := make(map[string]string, len(s.Vars))
	for k, v := range s.Vars {
		vars[k] = v
	}
	key := uuid.NewString()
	a.scope = &openScope{Scope: Scope{Label: s.Label, Vars: vars}, key: key}
	a.refreshInstances()

	a.log.Debug().Str("scope", s.Label).Msg("scope opened")
	return key
}

// UnsetScope closes the open scope.
func (a *Aggregator) UnsetScope(key string) {
	if a.scope == nil {
		errors.Misuse(errors.ErrScopeNotOpen, "cannot close scope %s: no scope is open", key)
	}
	if a.scope.key != key {
		errors.Misuse(errors.ErrScopeKeyMismatch,
			"cannot close scope %q with key %s", a.scope.Label, key)
	}
	label := a.scope.Label
	a.scope = nil
	a.refreshInstances()

	a.log.Debug().Str("scope", label).Msg("scope closed")
}

// SetLeaf opens the leaf id and returns the key that closes it.
func (a *Aggregator) SetLeaf(id string) string {
	if id == "" {
		errors.Misuse(errors.ErrLeafEmptyID, "leaf id must not be empty")
	}
	if a.leaf != nil {
		errors.Misuse(errors.ErrLeafAlreadyOpen,
			"cannot open leaf %q: leaf %q is still open", id, a.leaf.id)
	}
	key := uuid.NewString()
	a.leaf = &openLeaf{id: id, key: key}
	a.log.Trace().Str("leaf", id).Msg("leaf opened")
	return key
}

// UnsetLeaf closes the open leaf.
func (a *Aggregator) UnsetLeaf(key string) {
	if a.leaf == nil {
		errors.Misuse(errors.ErrLeafNotOpen, "cannot close leaf %s: no leaf is open", key)
	}
	if a.leaf.key != key {
		errors.Misuse(errors.ErrLeafKeyMismatch,
			"cannot close leaf %q with key %s", a.leaf.id, key)
	}
	a.log.Trace().Str("leaf", a.leaf.id).Msg("leaf closed")
	a.leaf = nil
}

// refreshInstances rebuilds the instance stack for the current scope.
func (a *Aggregator) refreshInstances() {
	label := a.ScopeLabel()
	stack := make([]*instance, 0, len(a.defStack))
	for _, key := range a.defStack {
		stack = append(stack, a.reg.instance(a.reg.defs[key], label))
	}
	a.instStack = stack
}

func (a *Aggregator) scopeVars() map[string]string {
	if a.scope == nil {
		return nil
	}
	return a.scope.Vars
}

func levelIndent(level int) string {
	return strings.Repeat("  ", level)
}

func levelPrefix(level int) string {
	if level == 0 {
		return ""
	}
	return strings.Repeat(">", level) + " "
}
