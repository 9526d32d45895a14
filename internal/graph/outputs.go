package graph

import (
	"sort"

	"github.com/vk/passgraph/internal/address"
	"github.com/vk/passgraph/internal/resource"
)

type graphOutput struct {
	pass     int
	passName string
	field    string
}

func (o graphOutput) addr() address.Address { return address.New(o.passName, o.field) }

// MarkGraphOutput marks `pass.field` as an externally observable result. A
// bare pass name marks every declared output of that pass. Marking an
// already marked output changes nothing.
func (g *Graph) MarkGraphOutput(target string) error {
	addr, err := address.ParseTarget(target)
	if err != nil {
		return err
	}
	idx, s, err := g.lookupPass(addr.Pass)
	if err != nil {
		return err
	}

	var fields []string
	if addr.HasField() {
		if _, err := g.resolveAddress(addr, dirOutput); err != nil {
			return err
		}
		fields = []string{addr.Field}
	} else {
		for _, f := range s.reflection.Outputs {
			fields = append(fields, f.Name)
		}
	}

	changed := false
	for _, field := range fields {
		if g.isMarked(idx, field) {
			continue
		}
		g.outputs = append(g.outputs, graphOutput{pass: idx, passName: s.name, field: field})
		changed = true
	}
	if changed {
		g.markDirty()
	}
	return nil
}

// UnmarkGraphOutput removes outputs matching `pass.field`, or every output
// of a bare pass name. Unmarking something that is not marked is a no-op.
func (g *Graph) UnmarkGraphOutput(target string) error {
	addr, err := address.ParseTarget(target)
	if err != nil {
		return err
	}
	kept := g.outputs[:0]
	removed := 0
	for _, o := range g.outputs {
		if o.passName == addr.Pass && (!addr.HasField() || o.field == addr.Field) {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	g.outputs = kept
	if removed > 0 {
		g.markDirty()
	}
	return nil
}

// Outputs lists the marked outputs as sorted `pass.field` strings.
func (g *Graph) Outputs() []string {
	out := make([]string, 0, len(g.outputs))
	for _, o := range g.outputs {
		out = append(out, o.addr().String())
	}
	sort.Strings(out)
	return out
}

// SetOutput binds a caller resource to an output field and marks it as a
// graph output. A nil resource still marks the output; the compiler then
// allocates one.
func (g *Graph) SetOutput(target string, res resource.Resource) error {
	r, err := g.resolve(target, dirOutput)
	if err != nil {
		return err
	}
	if res == nil {
		delete(r.slot.outputs, r.addr.Field)
	} else {
		r.slot.outputs[r.addr.Field] = res
	}
	g.markDirty()
	return g.MarkGraphOutput(target)
}

// Output returns the resource observable at an output field: an override,
// a caller-set resource, or what the last successful compile bound.
func (g *Graph) Output(target string) (resource.Resource, error) {
	r, err := g.resolve(target, dirOutput)
	if err != nil {
		return nil, err
	}
	if res, ok := g.overrides[r.key()]; ok {
		return res, nil
	}
	if res, ok := r.slot.outputs[r.addr.Field]; ok {
		return res, nil
	}
	return g.plan.binding(r.index, r.addr.Field, true), nil
}

// SetInput binds a caller resource to an input field. It satisfies the
// input when no edge or override feeds it. A nil resource clears it.
func (g *Graph) SetInput(target string, res resource.Resource) error {
	r, err := g.resolve(target, dirInput)
	if err != nil {
		return err
	}
	if res == nil {
		delete(r.slot.inputs, r.addr.Field)
	} else {
		r.slot.inputs[r.addr.Field] = res
	}
	g.markDirty()
	return nil
}

// Input returns the resource bound to an input field: an override, what
// the compile bound while the graph is clean, or the caller-set resource.
func (g *Graph) Input(target string) (resource.Resource, error) {
	r, err := g.resolve(target, dirInput)
	if err != nil {
		return nil, err
	}
	if res, ok := g.overrides[r.key()]; ok {
		return res, nil
	}
	if !g.Dirty() {
		if res := g.plan.binding(r.index, r.addr.Field, false); res != nil {
			return res, nil
		}
	}
	return r.slot.inputs[r.addr.Field], nil
}

// SetOverride binds a resource to an input or output field with
// precedence over edges, caller resources and allocation. A nil resource
// removes the override.
func (g *Graph) SetOverride(target string, res resource.Resource) error {
	r, err := g.resolve(target, dirEither)
	if err != nil {
		return err
	}
	if res == nil {
		delete(g.overrides, r.key())
	} else {
		g.overrides[r.key()] = res
	}
	g.markDirty()
	return nil
}

func (g *Graph) isMarked(idx int, field string) bool {
	for _, o := range g.outputs {
		if o.pass == idx && o.field == field {
			return true
		}
	}
	return false
}

// ClearOverride removes the override bound to an input or output field.
// Clearing an address without an override is a no-op.
func (g *Graph) ClearOverride(target string) error {
	r, err := g.resolve(target, dirEither)
	if err != nil {
		return err
	}
	if _, ok := g.overrides[r.key()]; !ok {
		return nil
	}
	delete(g.overrides, r.key())
	g.markDirty()
	return nil
}
