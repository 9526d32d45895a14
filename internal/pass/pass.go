package pass

import (
	"context"

	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

// RenderContext is the device or command context supplied by the caller of
// the graph's Execute. The graph hands it to every pass unchanged.
type RenderContext any

// CommandList is implemented by render contexts that want a record of the
// work passes perform.
type CommandList interface {
	Record(pass, op string, resources ...resource.Resource)
}

// Pass is a named unit of work with declared input and output fields.
type Pass interface {
	Reflect() Reflection
	Execute(ctx context.Context, rc RenderContext, io *IO) error
}

// Kinded passes report the registry kind they were created from, which
// makes them exportable to a graph document.
type Kinded interface {
	Kind() string
}

// Configurable passes expose the settings they were created with.
type Configurable interface {
	Settings() map[string]cty.Value
}

// Scene is the opaque scene object attached to a graph.
type Scene any

// SceneAware passes receive the graph's scene when it is set and when
// they are added to a graph that already has one.
type SceneAware interface {
	SetScene(scene Scene)
}

// Resizer passes are notified when the swap chain is resized.
type Resizer interface {
	OnResize(width, height uint32)
}
