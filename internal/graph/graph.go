package graph

import (
	"strings"
	"time"

	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
)

// Observer receives timing information about compiles and pass executions.
type Observer interface {
	CompileFinished(d time.Duration, err error)
	PassFinished(name string, d time.Duration, err error)
}

// Config holds the collaborators of a Graph. Zero values get defaults.
type Config struct {
	Allocator resource.Allocator
	Observer  Observer
	SwapChain *resource.SwapChain
}

// slot is one entry of the pass registry. Its index never changes and is
// never reused, so edges holding it cannot be redirected to another pass.
type slot struct {
	name       string
	pass       pass.Pass
	reflection pass.Reflection
	removed    bool

	// Resources set by the caller through SetInput and SetOutput.
	inputs  map[string]resource.Resource
	outputs map[string]resource.Resource
}

type fieldKey struct {
	pass  int
	field string
}

// Graph is a render-pass dependency graph.
type Graph struct {
	slots  []*slot
	byName map[string]int

	edges     []*edge
	outputs   []graphOutput
	overrides map[fieldKey]resource.Resource

	swapChain resource.SwapChain
	scene     pass.Scene

	allocator resource.Allocator
	observer  Observer

	state     State
	plan      *plan
	allocated map[fieldKey]resource.Resource
}

// New creates an empty graph. A new graph is dirty.
func New(cfg Config) *Graph {
	g := &Graph{
		byName:    make(map[string]int),
		overrides: make(map[fieldKey]resource.Resource),
		swapChain: resource.DefaultSwapChain(),
		allocator: cfg.Allocator,
		observer:  cfg.Observer,
		state:     StateDirty,
		allocated: make(map[fieldKey]resource.Resource),
	}
	if g.allocator == nil {
		g.allocator = resource.NewHeapAllocator()
	}
	if cfg.SwapChain != nil {
		g.swapChain = *cfg.SwapChain
	}
	return g
}

// AddPass registers a pass under a unique name.
func (g *Graph) AddPass(p pass.Pass, name string) error {
	if name == "" || strings.ContainsAny(name, ". \t\n") {
		return newError(ErrMalformedAddress, "invalid pass name %q", name)
	}
	if _, exists := g.byName[name]; exists {
		return newError(ErrDuplicateName, "pass %q is already registered", name)
	}
	reflection := p.Reflect()
	if err := reflection.Check(); err != nil {
		return wrapError(ErrInvalidReflection, err, "pass %q", name)
	}

	g.byName[name] = len(g.slots)
	g.slots = append(g.slots, &slot{
		name:       name,
		pass:       p,
		reflection: reflection,
		inputs:     make(map[string]resource.Resource),
		outputs:    make(map[string]resource.Resource),
	})
	if aware, ok := p.(pass.SceneAware); ok && g.scene != nil {
		aware.SetScene(g.scene)
	}
	g.markDirty()
	return nil
}

// Pass returns the pass registered under name.
func (g *Graph) Pass(name string) (pass.Pass, error) {
	_, s, err := g.lookupPass(name)
	if err != nil {
		return nil, err
	}
	return s.pass, nil
}

// RemovePass unregisters a pass. Edges and outputs that refer to it are not
// repaired; the graph stays invalid until they are removed.
func (g *Graph) RemovePass(name string) error {
	idx, s, err := g.lookupPass(name)
	if err != nil {
		return err
	}
	s.removed = true
	delete(g.byName, name)
	for key := range g.overrides {
		if key.pass == idx {
			delete(g.overrides, key)
		}
	}
	g.markDirty()
	return nil
}

// PassNames returns the registered pass names in registration order.
func (g *Graph) PassNames() []string {
	names := make([]string, 0, len(g.byName))
	for _, s := range g.slots {
		if !s.removed {
			names = append(names, s.name)
		}
	}
	return names
}

// SetScene attaches a scene and hands it to every scene-aware pass.
func (g *Graph) SetScene(scene pass.Scene) {
	g.scene = scene
	for _, s := range g.live() {
		if aware, ok := s.pass.(pass.SceneAware); ok {
			aware.SetScene(scene)
		}
	}
	g.markDirty()
}

// Scene returns the attached scene.
func (g *Graph) Scene() pass.Scene {
	return g.scene
}

// OnResizeSwapChain records the new back-buffer size, notifies resizable
// passes and marks the graph dirty so swap-chain sized fields are
// reallocated on the next compile.
func (g *Graph) OnResizeSwapChain(width, height uint32) {
	g.swapChain.Width = width
	g.swapChain.Height = height
	for _, s := range g.live() {
		if r, ok := s.pass.(pass.Resizer); ok {
			r.OnResize(width, height)
		}
	}
	g.markDirty()
}

// SetSwapChainFormats updates the back-buffer colour and depth formats.
func (g *Graph) SetSwapChainFormats(color, depth resource.Format) {
	g.swapChain.ColorFormat = color
	g.swapChain.DepthFormat = depth
	g.markDirty()
}

// SwapChain returns the current swap-chain data.
func (g *Graph) SwapChain() resource.SwapChain {
	return g.swapChain
}

func (g *Graph) live() []*slot {
	out := make([]*slot, 0, len(g.byName))
	for _, s := range g.slots {
		if !s.removed {
			out = append(out, s)
		}
	}
	return out
}

func (g *Graph) alive(idx int) bool {
	return idx >= 0 && idx < len(g.slots) && !g.slots[idx].removed
}
