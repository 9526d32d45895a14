// Package blit provides a pass that copies its input into a swap-chain
// sized output, rescaling as needed.
package blit

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

const Kind = "blit"

// Filters accepted by the "filter" setting.
const (
	FilterLinear = "linear"
	FilterPoint  = "point"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type Pass struct {
	Filter string
}

func New(settings map[string]cty.Value) (pass.Pass, error) {
	p := &Pass{Filter: FilterLinear}
	if _, err := registry.DecodeSetting(settings, "filter", cty.String, &p.Filter); err != nil {
		return nil, err
	}
	switch p.Filter {
	case FilterLinear, FilterPoint:
	default:
		return nil, fmt.Errorf("setting \"filter\" must be %q or %q, got %q", FilterLinear, FilterPoint, p.Filter)
	}
	return p, nil
}

func (p *Pass) Kind() string { return Kind }

func (p *Pass) Reflect() pass.Reflection {
	return pass.Reflection{
		Inputs:  []resource.Field{{Name: "src", Policy: resource.PolicyEdge}},
		Outputs: []resource.Field{{Name: "dst", Policy: resource.PolicySwapChain}},
	}
}

func (p *Pass) Settings() map[string]cty.Value {
	return map[string]cty.Value{"filter": cty.StringVal(p.Filter)}
}

func (p *Pass) Execute(ctx context.Context, rc pass.RenderContext, io *pass.IO) error {
	src, dst := io.Input("src"), io.Output("dst")
	if src == nil || dst == nil {
		return fmt.Errorf("blit needs both src and dst bound")
	}
	if cl, ok := rc.(pass.CommandList); ok {
		cl.Record(pass.NameFromContext(ctx), "blit-"+p.Filter, src, dst)
	}
	return nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPass(Kind, &registry.RegisteredPass{
		Settings: []string{"filter"},
		New:      New,
	})
}
