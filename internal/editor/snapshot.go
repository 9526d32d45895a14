package editor

import (
	json "github.com/goccy/go-json"
	"github.com/vk/passgraph/internal/graph"
	"github.com/vk/passgraph/internal/resource"
)

// Snapshot is the payload sent to the editor.
type Snapshot struct {
	Passes  []NodeSnapshot `json:"passes"`
	Edges   []EdgeSnapshot `json:"edges"`
	Outputs []string       `json:"outputs"`
}

type NodeSnapshot struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind,omitempty"`
	Inputs     []PinSnapshot     `json:"inputs"`
	Outputs    []PinSnapshot     `json:"outputs"`
	Properties map[string]string `json:"properties,omitempty"`
}

type PinSnapshot struct {
	Name     string `json:"name"`
	Pin      int    `json:"pin"`
	Format   string `json:"format"`
	Policy   string `json:"policy"`
	Optional bool   `json:"optional,omitempty"`
}

type EdgeSnapshot struct {
	Src      string    `json:"src"`
	Dst      string    `json:"dst"`
	Viewport *[2]int64 `json:"viewport,omitempty"`
}

// Snapshot syncs the layout with t and combines both into a payload.
func (l *Layout) Snapshot(t graph.Topology) Snapshot {
	l.Sync(t)
	s := Snapshot{Outputs: t.Outputs}
	if s.Outputs == nil {
		s.Outputs = []string{}
	}
	for _, p := range t.Passes {
		ns := NodeSnapshot{
			Name:       p.Name,
			Kind:       p.Kind,
			Inputs:     l.pins(p.Name, p.Inputs),
			Outputs:    l.pins(p.Name, p.Outputs),
			Properties: l.Properties(p.Name),
		}
		if len(ns.Properties) == 0 {
			ns.Properties = nil
		}
		s.Passes = append(s.Passes, ns)
	}
	for _, e := range t.Edges {
		es := EdgeSnapshot{Src: e.Src, Dst: e.Dst}
		if !e.Bounds.IsZero() {
			es.Viewport = &[2]int64{int64(e.Bounds.Width), int64(e.Bounds.Height)}
		}
		s.Edges = append(s.Edges, es)
	}
	return s
}

func (l *Layout) pins(passName string, fields []resource.Field) []PinSnapshot {
	out := make([]PinSnapshot, 0, len(fields))
	for _, f := range fields {
		pin, _ := l.Pin(passName, f.Name)
		out = append(out, PinSnapshot{
			Name:     f.Name,
			Pin:      pin,
			Format:   f.Format.String(),
			Policy:   f.Policy.String(),
			Optional: f.Optional,
		})
	}
	return out
}

// Marshal encodes the snapshot as JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}
