package graph

import (
	"github.com/vk/passgraph/internal/address"
	"github.com/vk/passgraph/internal/resource"
)

type direction int

const (
	dirInput direction = iota
	dirOutput
	dirEither
)

func (d direction) String() string {
	switch d {
	case dirInput:
		return "input"
	case dirOutput:
		return "output"
	default:
		return "field"
	}
}

// resolved is an address bound to a live registry slot and a declared field.
type resolved struct {
	addr   address.Address
	index  int
	slot   *slot
	field  resource.Field
	output bool
}

func (r resolved) key() fieldKey {
	return fieldKey{pass: r.index, field: r.addr.Field}
}

func (g *Graph) lookupPass(name string) (int, *slot, error) {
	idx, ok := g.byName[name]
	if !ok {
		return -1, nil, newError(ErrNotFound, "pass %q is not registered", name)
	}
	return idx, g.slots[idx], nil
}

// resolve parses a `pass.field` token and checks the field is declared in
// the requested direction.
func (g *Graph) resolve(raw string, dir direction) (resolved, error) {
	addr, err := address.Parse(raw)
	if err != nil {
		return resolved{}, err
	}
	return g.resolveAddress(addr, dir)
}

func (g *Graph) resolveAddress(addr address.Address, dir direction) (resolved, error) {
	idx, s, err := g.lookupPass(addr.Pass)
	if err != nil {
		return resolved{}, err
	}
	if dir != dirOutput {
		if f, ok := s.reflection.Input(addr.Field); ok {
			return resolved{addr: addr, index: idx, slot: s, field: f}, nil
		}
	}
	if dir != dirInput {
		if f, ok := s.reflection.Output(addr.Field); ok {
			return resolved{addr: addr, index: idx, slot: s, field: f, output: true}, nil
		}
	}
	return resolved{}, newError(ErrNotFound, "pass %q has no %s named %q", addr.Pass, dir, addr.Field)
}
