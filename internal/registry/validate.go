package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/pass"
	"github.com/zclconf/go-cty/cty"
)

// ValidateRegistry builds every registered kind with default settings and
// checks that the result reports its own kind and declares a reflection
// the graph accepts.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range r.Kinds() {
		p, err := r.passes[kind].New(map[string]cty.Value{})
		if err != nil {
			errs = append(errs, fmt.Sprintf("pass kind '%s': default construction failed: %v", kind, err))
			continue
		}
		kinded, ok := p.(pass.Kinded)
		if !ok {
			errs = append(errs, fmt.Sprintf("pass kind '%s': pass does not report its kind", kind))
		} else if kinded.Kind() != kind {
			errs = append(errs, fmt.Sprintf("pass kind '%s': pass reports kind '%s'", kind, kinded.Kind()))
		}
		if err := p.Reflect().Check(); err != nil {
			errs = append(errs, fmt.Sprintf("pass kind '%s': %v", kind, err))
		}
		logger.Debug("Pass kind validated.", "kind", kind)
	}

	if len(errs) > 0 {
		return errors.New("registry validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
