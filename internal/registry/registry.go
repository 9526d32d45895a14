package registry

import (
	"fmt"
	"sort"

	"github.com/vk/passgraph/internal/pass"
	"github.com/zclconf/go-cty/cty"
)

// Module is the interface that all pass modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the pass constructors of a single application instance.
type Registry struct {
	passes map[string]*RegisteredPass
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{passes: make(map[string]*RegisteredPass)}
}

// NewWith creates a Registry populated by the given modules.
func NewWith(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// NewPass builds a pass of the given kind from its document settings.
func (r *Registry) NewPass(kind string, settings map[string]cty.Value) (pass.Pass, error) {
	rp, ok := r.passes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown pass kind %q", kind)
	}
	if settings == nil {
		settings = map[string]cty.Value{}
	}
	for name := range settings {
		if !rp.accepts(name) {
			return nil, fmt.Errorf("pass kind %q has no setting %q", kind, name)
		}
	}
	return rp.New(settings)
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.passes))
	for k := range r.passes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
