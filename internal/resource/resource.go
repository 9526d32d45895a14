package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Resource is an opaque handle with format and dimension metadata.
type Resource interface {
	// ID identifies the backing allocation. Views share their parent's ID.
	ID() uuid.UUID
	Label() string
	Shape() Shape
}

// Allocator creates resources for fields that have none bound.
type Allocator interface {
	Allocate(ctx context.Context, label string, shape Shape) (Resource, error)
}

// Texture is the handle produced by HeapAllocator.
type Texture struct {
	id    uuid.UUID
	label string
	shape Shape
}

// NewTexture creates a texture handle with a fresh identity. It is used for
// caller-supplied resources such as overrides.
func NewTexture(label string, shape Shape) *Texture {
	return &Texture{id: uuid.New(), label: label, shape: shape}
}

func (t *Texture) ID() uuid.UUID { return t.id }
func (t *Texture) Label() string { return t.label }
func (t *Texture) Shape() Shape  { return t.shape }

// View exposes a region of another resource. It shares the parent's
// identity, so consumers still observe the same backing resource.
type View struct {
	parent Resource
	bounds Bounds
}

// NewView clamps parent to bounds. Zero bounds return parent unchanged.
func NewView(parent Resource, bounds Bounds) Resource {
	if parent == nil || bounds.IsZero() {
		return parent
	}
	return &View{parent: parent, bounds: bounds}
}

func (v *View) ID() uuid.UUID { return v.parent.ID() }
func (v *View) Label() string { return v.parent.Label() }
func (v *View) Shape() Shape  { return v.bounds.Clamp(v.parent.Shape()) }

// ErrInvalidShape is returned for allocations with a zero dimension.
var ErrInvalidShape = errors.New("invalid resource shape")

// HeapAllocator is an in-memory allocator that hands out Texture handles.
// It keeps a count of allocations for diagnostics.
type HeapAllocator struct {
	allocations atomic.Int64
}

// NewHeapAllocator creates an empty allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// Allocate returns a new Texture with the given shape.
func (a *HeapAllocator) Allocate(ctx context.Context, label string, shape Shape) (Resource, error) {
	if shape.Width == 0 || shape.Height == 0 {
		return nil, fmt.Errorf("%w: %s for %q", ErrInvalidShape, shape, label)
	}
	a.allocations.Add(1)
	return NewTexture(label, shape), nil
}

// Allocations returns how many resources have been allocated so far.
func (a *HeapAllocator) Allocations() int64 {
	return a.allocations.Load()
}

// Same reports whether two resources share a backing allocation.
func Same(a, b Resource) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}
