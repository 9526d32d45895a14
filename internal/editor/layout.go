package editor

import (
	"fmt"

	"github.com/vk/passgraph/internal/graph"
)

type node struct {
	pins       map[string]int
	nextPin    int
	properties map[string]string
}

// Layout assigns stable pin indices to pass fields and stores free-form
// node properties such as position or colour.
type Layout struct {
	nodes map[string]*node
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{nodes: make(map[string]*node)}
}

// Sync brings the layout in line with a topology. Passes that disappeared
// are dropped; fields seen for the first time get the next free pin index,
// so existing pins never move.
func (l *Layout) Sync(t graph.Topology) {
	live := make(map[string]struct{}, len(t.Passes))
	for _, p := range t.Passes {
		live[p.Name] = struct{}{}
		n, ok := l.nodes[p.Name]
		if !ok {
			n = &node{pins: make(map[string]int), properties: make(map[string]string)}
			l.nodes[p.Name] = n
		}
		for _, f := range p.Inputs {
			n.assign(f.Name)
		}
		for _, f := range p.Outputs {
			n.assign(f.Name)
		}
	}
	for name := range l.nodes {
		if _, ok := live[name]; !ok {
			delete(l.nodes, name)
		}
	}
}

func (n *node) assign(field string) {
	if _, ok := n.pins[field]; ok {
		return
	}
	n.pins[field] = n.nextPin
	n.nextPin++
}

// Pin returns the pin index of a field.
func (l *Layout) Pin(passName, field string) (int, bool) {
	n, ok := l.nodes[passName]
	if !ok {
		return 0, false
	}
	pin, ok := n.pins[field]
	return pin, ok
}

// SetProperty stores a display property on a known pass.
func (l *Layout) SetProperty(passName, key, value string) error {
	n, ok := l.nodes[passName]
	if !ok {
		return fmt.Errorf("pass %q is not in the layout", passName)
	}
	n.properties[key] = value
	return nil
}

// Properties returns a copy of the display properties of a pass.
func (l *Layout) Properties(passName string) map[string]string {
	n, ok := l.nodes[passName]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(n.properties))
	for k, v := range n.properties {
		out[k] = v
	}
	return out
}
