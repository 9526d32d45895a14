package graph

import (
	"sort"

	"github.com/vk/passgraph/internal/address"
	"github.com/vk/passgraph/internal/resource"
)

// edge binds an output field to an input field of another pass. The pass
// names are kept so dangling edges can still be listed and removed.
type edge struct {
	src, dst           int
	srcName, dstName   string
	srcField, dstField string
	bounds             resource.Bounds
}

func (e *edge) srcAddr() address.Address { return address.New(e.srcName, e.srcField) }
func (e *edge) dstAddr() address.Address { return address.New(e.dstName, e.dstField) }

// EdgeInfo is the read-only description of an edge.
type EdgeInfo struct {
	Src    string
	Dst    string
	Bounds resource.Bounds
}

// AddEdge connects an output field (`pass.field`) to an input field of a
// different pass. Nothing is inserted when any check fails.
func (g *Graph) AddEdge(src, dst string) error {
	from, err := g.resolve(src, dirOutput)
	if err != nil {
		return err
	}
	to, err := g.resolve(dst, dirInput)
	if err != nil {
		return err
	}
	if from.index == to.index {
		return newError(ErrSameFields, "%s -> %s", from.addr, to.addr)
	}
	for _, e := range g.edges {
		if e.dst == to.index && e.dstField == to.addr.Field {
			return newError(ErrFieldAlreadyBound, "%s is already fed by %s", to.addr, e.srcAddr())
		}
	}
	if err := resource.Compatible(from.field, to.field); err != nil {
		return wrapError(ErrTypeMismatch, err, "%s -> %s", from.addr, to.addr)
	}

	g.edges = append(g.edges, &edge{
		src:      from.index,
		dst:      to.index,
		srcName:  from.addr.Pass,
		dstName:  to.addr.Pass,
		srcField: from.addr.Field,
		dstField: to.addr.Field,
	})
	g.markDirty()
	return nil
}

// RemoveEdge deletes the edge between two addresses. Addresses are matched
// by name, so edges whose passes were removed can still be deleted.
func (g *Graph) RemoveEdge(src, dst string) error {
	i, err := g.findEdge(src, dst)
	if err != nil {
		return err
	}
	g.edges = append(g.edges[:i], g.edges[i+1:]...)
	g.markDirty()
	return nil
}

// SetEdgeViewport attaches a region constraint to an existing edge,
// replacing any previous one. Zero bounds clear the constraint.
func (g *Graph) SetEdgeViewport(src, dst string, bounds resource.Bounds) error {
	i, err := g.findEdge(src, dst)
	if err != nil {
		return err
	}
	g.edges[i].bounds = bounds
	g.markDirty()
	return nil
}

// Edges lists every edge, including dangling ones, sorted by source then
// destination address.
func (g *Graph) Edges() []EdgeInfo {
	sorted := sortedEdges(g.edges)
	out := make([]EdgeInfo, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, EdgeInfo{Src: e.srcAddr().String(), Dst: e.dstAddr().String(), Bounds: e.bounds})
	}
	return out
}

func sortedEdges(edges []*edge) []*edge {
	out := append([]*edge(nil), edges...)
	sort.SliceStable(out, func(i, j int) bool {
		if a, b := out[i].srcAddr(), out[j].srcAddr(); !a.Equal(b) {
			return a.Less(b)
		}
		return out[i].dstAddr().Less(out[j].dstAddr())
	})
	return out
}

func (g *Graph) findEdge(src, dst string) (int, error) {
	from, err := address.Parse(src)
	if err != nil {
		return -1, err
	}
	to, err := address.Parse(dst)
	if err != nil {
		return -1, err
	}
	// Prefer an edge between live passes when a removed pass's name was reused.
	found := -1
	for i, e := range g.edges {
		if !e.srcAddr().Equal(from) || !e.dstAddr().Equal(to) {
			continue
		}
		if g.alive(e.src) && g.alive(e.dst) {
			return i, nil
		}
		if found < 0 {
			found = i
		}
	}
	if found < 0 {
		return -1, newError(ErrNotFound, "no edge %s -> %s", from, to)
	}
	return found, nil
}

func (g *Graph) liveEdge(e *edge) bool {
	return g.alive(e.src) && g.alive(e.dst)
}
