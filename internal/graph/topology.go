package graph

import (
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
)

// PassInfo describes one registered pass.
type PassInfo struct {
	Name    string
	Kind    string
	Inputs  []resource.Field
	Outputs []resource.Field
}

// Topology is a read-only snapshot of the graph for editor tooling.
type Topology struct {
	Passes  []PassInfo
	Edges   []EdgeInfo
	Outputs []string
}

// Topology snapshots the live passes in registration order together with
// every edge and marked output.
func (g *Graph) Topology() Topology {
	t := Topology{Edges: g.Edges(), Outputs: g.Outputs()}
	for _, s := range g.live() {
		info := PassInfo{
			Name:    s.name,
			Inputs:  append([]resource.Field(nil), s.reflection.Inputs...),
			Outputs: append([]resource.Field(nil), s.reflection.Outputs...),
		}
		if k, ok := s.pass.(pass.Kinded); ok {
			info.Kind = k.Kind()
		}
		t.Passes = append(t.Passes, info)
	}
	return t
}
