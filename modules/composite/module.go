// Package composite provides a pass that blends an optional overlay over a
// base image.
package composite

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

const Kind = "composite"

// Module implements the registry.Module interface for this package.
type Module struct{}

type Pass struct {
	Opacity float64
}

func New(settings map[string]cty.Value) (pass.Pass, error) {
	p := &Pass{Opacity: 1}
	if _, err := registry.DecodeSetting(settings, "opacity", cty.Number, &p.Opacity); err != nil {
		return nil, err
	}
	if p.Opacity < 0 || p.Opacity > 1 {
		return nil, fmt.Errorf("setting \"opacity\" must be within [0, 1], got %g", p.Opacity)
	}
	return p, nil
}

func (p *Pass) Kind() string { return Kind }

func (p *Pass) Reflect() pass.Reflection {
	return pass.Reflection{
		Inputs: []resource.Field{
			{Name: "base", Policy: resource.PolicyEdge},
			{Name: "overlay", Policy: resource.PolicyEdge, Optional: true},
		},
		Outputs: []resource.Field{{Name: "out", Policy: resource.PolicySwapChain}},
	}
}

func (p *Pass) Settings() map[string]cty.Value {
	return map[string]cty.Value{"opacity": cty.NumberFloatVal(p.Opacity)}
}

func (p *Pass) Execute(ctx context.Context, rc pass.RenderContext, io *pass.IO) error {
	cl, ok := rc.(pass.CommandList)
	if !ok {
		return nil
	}
	name := pass.NameFromContext(ctx)
	cl.Record(name, "copy", io.Input("base"), io.Output("out"))
	if overlay := io.Input("overlay"); overlay != nil && p.Opacity > 0 {
		cl.Record(name, fmt.Sprintf("blend-%.2f", p.Opacity), overlay, io.Output("out"))
	}
	return nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPass(Kind, &registry.RegisteredPass{
		Settings: []string{"opacity"},
		New:      New,
	})
}
