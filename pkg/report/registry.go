package report

import (
	"sort"

	"github.com/musiclib/libsync/pkg/placeholder"
)

// definition is the immutable template created by every OpenHeader call.
type definition struct {
	key        string
	category   string
	summary    placeholder.Template
	detail     string
	level      int
	alwaysShow bool
}

// instance counts one definition under one scope. The global scope is "".
type instance struct {
	def        *definition
	scope      string
	count      int
	counted    map[string]struct{}
	order      int
	alwaysShow bool
	lines      []string
}

// countLeaf records id once. It reports whether the count changed.
func (i *instance) countLeaf(id string) bool {
	if _, seen := i.counted[id]; seen {
		return false
	}
	i.counted[id] = struct{}{}
	i.count++
	return true
}

func (i *instance) reportable() bool {
	return i.count > 0 || i.alwaysShow
}

func (i *instance) summaryText() string {
	return i.def.summary.Render(placeholder.Values{Count: i.count, HasCount: true})
}

type instanceKey struct {
	def   string
	scope string
}

// registry owns every definition and instance of a run. Nothing is ever
// removed from it before Clear.
type registry struct {
	defs      map[string]*definition
	instances map[instanceKey]*instance
	ordered   []*instance
	seq       int
}

func newRegistry() *registry {
	return &registry{
		defs:      make(map[string]*definition),
		instances: make(map[instanceKey]*instance),
	}
}

func (r *registry) define(def *definition) {
	r.defs[def.key] = def
}

// instance returns the instance of def under scope, creating it on first use.
func (r *registry) instance(def *definition, scope string) *instance {
	k := instanceKey{def: def.key, scope: scope}
	if inst, ok := r.instances[k]; ok {
		return inst
	}
	r.seq++
	inst := &instance{
		def:        def,
		scope:      scope,
		counted:    make(map[string]struct{}),
		order:      r.seq,
		alwaysShow: def.alwaysShow,
	}
	r.instances[k] = inst
	r.ordered = append(r.ordered, inst)
	return inst
}

// sortInstances orders instances by nesting level, then by creation.
func sortInstances(list []*instance) {
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].def.level != list[b].def.level {
			return list[a].def.level < list[b].def.level
		}
		return list[a].order < list[b].order
	})
}
