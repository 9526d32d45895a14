package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/passgraph/internal/pass"
	"github.com/zclconf/go-cty/cty"
)

// RegisteredPass holds the constructor of one pass kind and the settings
// it understands.
type RegisteredPass struct {
	Settings []string
	New      func(settings map[string]cty.Value) (pass.Pass, error)
}

func (rp *RegisteredPass) accepts(name string) bool {
	for _, s := range rp.Settings {
		if s == name {
			return true
		}
	}
	return false
}

// RegisterPass registers the constructor for a pass kind.
func (r *Registry) RegisterPass(kind string, rp *RegisteredPass) {
	if _, exists := r.passes[kind]; exists {
		panic(fmt.Sprintf("pass kind '%s' already registered", kind))
	}
	slog.Debug("Registering pass kind.", "kind", kind)
	r.passes[kind] = rp
}
