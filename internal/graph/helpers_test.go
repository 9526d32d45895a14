package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

// stubPass records its executions into a shared journal.
type stubPass struct {
	kind       string
	reflection pass.Reflection
	err        error
	journal    *[]string
	name       string
	seen       *pass.IO
	scene      pass.Scene
	resized    [2]uint32
}

func (p *stubPass) Reflect() pass.Reflection { return p.reflection }

func (p *stubPass) Execute(_ context.Context, _ pass.RenderContext, io *pass.IO) error {
	p.seen = io
	if p.journal != nil {
		*p.journal = append(*p.journal, p.name)
	}
	return p.err
}

func (p *stubPass) Kind() string { return p.kind }

func (p *stubPass) Settings() map[string]cty.Value {
	return map[string]cty.Value{"kind": cty.StringVal(p.kind)}
}

func (p *stubPass) SetScene(scene pass.Scene) { p.scene = scene }

func (p *stubPass) OnResize(w, h uint32) { p.resized = [2]uint32{w, h} }

func fixedField(name string, w, h uint32) resource.Field {
	return resource.Field{Name: name, Policy: resource.PolicyFixed, Width: w, Height: h}
}

func edgeField(name string) resource.Field {
	return resource.Field{Name: name, Policy: resource.PolicyEdge}
}

func swapField(name string) resource.Field {
	return resource.Field{Name: name, Policy: resource.PolicySwapChain}
}

// relay has one edge-derived input and one swap-chain output.
func relay(kind string) *stubPass {
	return &stubPass{kind: kind, reflection: pass.Reflection{
		Inputs:  []resource.Field{edgeField("in")},
		Outputs: []resource.Field{swapField("out")},
	}}
}

// source has a single swap-chain output.
func source(kind string) *stubPass {
	return &stubPass{kind: kind, reflection: pass.Reflection{
		Outputs: []resource.Field{swapField("out")},
	}}
}

// stubFactory knows the "source" and "relay" kinds.
type stubFactory struct{}

func (stubFactory) NewPass(kind string, _ map[string]cty.Value) (pass.Pass, error) {
	switch kind {
	case "source":
		return source(kind), nil
	case "relay":
		return relay(kind), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

type failingAllocator struct{}

func (failingAllocator) Allocate(context.Context, string, resource.Shape) (resource.Resource, error) {
	return nil, errors.New("out of memory")
}

type recordingObserver struct {
	compiles []error
	passes   []string
}

func (o *recordingObserver) CompileFinished(_ time.Duration, err error) {
	o.compiles = append(o.compiles, err)
}

func (o *recordingObserver) PassFinished(name string, _ time.Duration, _ error) {
	o.passes = append(o.passes, name)
}
