// Package clearcolor provides a pass that fills its output with a constant colour.
package clearcolor

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry kind of this pass.
const Kind = "clear"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Pass clears its single output. Without a width and height the output
// follows the swap chain.
type Pass struct {
	Color  []float64
	Width  uint32
	Height uint32
}

// New decodes the pass settings.
func New(settings map[string]cty.Value) (pass.Pass, error) {
	p := &Pass{Color: []float64{0, 0, 0, 1}}
	if _, err := registry.DecodeSetting(settings, "color", cty.List(cty.Number), &p.Color); err != nil {
		return nil, err
	}
	if len(p.Color) != 4 {
		return nil, fmt.Errorf("setting \"color\" must have 4 components, got %d", len(p.Color))
	}
	if _, err := registry.DecodeSetting(settings, "width", cty.Number, &p.Width); err != nil {
		return nil, err
	}
	if _, err := registry.DecodeSetting(settings, "height", cty.Number, &p.Height); err != nil {
		return nil, err
	}
	if (p.Width == 0) != (p.Height == 0) {
		return nil, fmt.Errorf("settings \"width\" and \"height\" must be set together")
	}
	return p, nil
}

func (p *Pass) Kind() string { return Kind }

func (p *Pass) Reflect() pass.Reflection {
	out := resource.Field{Name: "color", Policy: resource.PolicySwapChain}
	if p.Width > 0 {
		out.Policy = resource.PolicyFixed
		out.Width, out.Height = p.Width, p.Height
	}
	return pass.Reflection{Outputs: []resource.Field{out}}
}

func (p *Pass) Settings() map[string]cty.Value {
	components := make([]cty.Value, 0, len(p.Color))
	for _, c := range p.Color {
		components = append(components, cty.NumberFloatVal(c))
	}
	settings := map[string]cty.Value{"color": cty.ListVal(components)}
	if p.Width > 0 {
		settings["width"] = cty.NumberUIntVal(uint64(p.Width))
		settings["height"] = cty.NumberUIntVal(uint64(p.Height))
	}
	return settings
}

func (p *Pass) Execute(ctx context.Context, rc pass.RenderContext, io *pass.IO) error {
	target := io.Output("color")
	if target == nil {
		return fmt.Errorf("output \"color\" is not bound")
	}
	ctxlog.FromContext(ctx).Debug("Clearing target.", "shape", target.Shape().String(), "color", p.Color)
	if cl, ok := rc.(pass.CommandList); ok {
		cl.Record(pass.NameFromContext(ctx), "clear", target)
	}
	return nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPass(Kind, &registry.RegisteredPass{
		Settings: []string{"color", "width", "height"},
		New:      New,
	})
}
