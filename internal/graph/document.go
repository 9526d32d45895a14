package graph

import (
	"fmt"
	"sort"

	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

// Description is the format-neutral form of a graph used by document
// codecs. Only live passes and the edges and outputs between them are
// exported.
type Description struct {
	SwapChain resource.SwapChain
	Passes    []PassDescription
	Edges     []EdgeDescription
	Outputs   []string
	Overrides []OverrideDescription
}

// PassDescription names a pass and the registry kind and settings it is
// recreated from.
type PassDescription struct {
	Name     string
	Kind     string
	Settings map[string]cty.Value
}

type EdgeDescription struct {
	Src    string
	Dst    string
	Bounds resource.Bounds
}

// OverrideDescription records the label and shape of an override; import
// recreates it as a fresh texture.
type OverrideDescription struct {
	Address string
	Label   string
	Shape   resource.Shape
}

// Factory recreates passes from their kind and settings.
type Factory interface {
	NewPass(kind string, settings map[string]cty.Value) (pass.Pass, error)
}

// Export describes the graph. Every live pass must report its kind.
func (g *Graph) Export() (*Description, error) {
	desc := &Description{SwapChain: g.swapChain}
	for _, s := range g.live() {
		kinded, ok := s.pass.(pass.Kinded)
		if !ok {
			return nil, fmt.Errorf("export pass %q: pass %T does not report a kind", s.name, s.pass)
		}
		pd := PassDescription{Name: s.name, Kind: kinded.Kind()}
		if c, ok := s.pass.(pass.Configurable); ok {
			pd.Settings = c.Settings()
		}
		desc.Passes = append(desc.Passes, pd)
	}

	for _, e := range sortedEdges(g.edges) {
		if g.liveEdge(e) {
			desc.Edges = append(desc.Edges, EdgeDescription{Src: e.srcAddr().String(), Dst: e.dstAddr().String(), Bounds: e.bounds})
		}
	}

	for _, o := range g.outputs {
		if g.alive(o.pass) {
			desc.Outputs = append(desc.Outputs, o.addr().String())
		}
	}
	sort.Strings(desc.Outputs)

	for key, res := range g.overrides {
		if !g.alive(key.pass) {
			continue
		}
		desc.Overrides = append(desc.Overrides, OverrideDescription{
			Address: g.slots[key.pass].name + "." + key.field,
			Label:   res.Label(),
			Shape:   res.Shape(),
		})
	}
	sort.Slice(desc.Overrides, func(i, j int) bool {
		return desc.Overrides[i].Address < desc.Overrides[j].Address
	})
	return desc, nil
}

// Import builds a new graph from a description, creating passes through
// factory. The first failing step aborts the import.
func Import(desc *Description, factory Factory, cfg Config) (*Graph, error) {
	if cfg.SwapChain == nil {
		sc := desc.SwapChain
		cfg.SwapChain = &sc
	}
	g := New(cfg)

	for _, pd := range desc.Passes {
		p, err := factory.NewPass(pd.Kind, pd.Settings)
		if err != nil {
			return nil, fmt.Errorf("create pass %q of kind %q: %w", pd.Name, pd.Kind, err)
		}
		if err := g.AddPass(p, pd.Name); err != nil {
			return nil, err
		}
	}
	for _, ed := range desc.Edges {
		if err := g.AddEdge(ed.Src, ed.Dst); err != nil {
			return nil, err
		}
		if !ed.Bounds.IsZero() {
			if err := g.SetEdgeViewport(ed.Src, ed.Dst, ed.Bounds); err != nil {
				return nil, err
			}
		}
	}
	for _, addr := range desc.Outputs {
		if err := g.MarkGraphOutput(addr); err != nil {
			return nil, err
		}
	}
	for _, od := range desc.Overrides {
		if err := g.SetOverride(od.Address, resource.NewTexture(od.Label, od.Shape)); err != nil {
			return nil, err
		}
	}
	return g, nil
}
