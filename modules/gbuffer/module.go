// Package gbuffer provides a pass that rasterises the scene into albedo,
// normal and depth targets.
package gbuffer

import (
	"context"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

const Kind = "gbuffer"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Pass draws the attached scene. With no scene it only records that the
// targets were left untouched.
type Pass struct {
	scene pass.Scene
}

func New(map[string]cty.Value) (pass.Pass, error) {
	return &Pass{}, nil
}

func (p *Pass) Kind() string { return Kind }

func (p *Pass) Reflect() pass.Reflection {
	return pass.Reflection{Outputs: []resource.Field{
		{Name: "albedo", Format: resource.FormatRGBA8Unorm, Policy: resource.PolicySwapChain},
		{Name: "normal", Format: resource.FormatRGBA16Float, Policy: resource.PolicySwapChain},
		{Name: "depth", Policy: resource.PolicySwapChain, Depth: true},
	}}
}

func (p *Pass) SetScene(scene pass.Scene) { p.scene = scene }

// Scene returns the scene the pass draws.
func (p *Pass) Scene() pass.Scene { return p.scene }

func (p *Pass) Execute(ctx context.Context, rc pass.RenderContext, io *pass.IO) error {
	op := "draw-scene"
	if p.scene == nil {
		op = "skip-empty-scene"
		ctxlog.FromContext(ctx).Debug("No scene attached, G-buffer left untouched.")
	}
	if cl, ok := rc.(pass.CommandList); ok {
		cl.Record(pass.NameFromContext(ctx), op, io.Output("albedo"), io.Output("normal"), io.Output("depth"))
	}
	return nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPass(Kind, &registry.RegisteredPass{New: New})
}
