package pass

import "github.com/vk/passgraph/internal/resource"

// IO is the set of resources bound to a pass's fields for one execution.
type IO struct {
	inputs  map[string]resource.Resource
	outputs map[string]resource.Resource
}

// NewIO builds an IO view over the given bindings.
func NewIO(inputs, outputs map[string]resource.Resource) *IO {
	return &IO{inputs: inputs, outputs: outputs}
}

// Input returns the resource bound to an input field, or nil.
func (io *IO) Input(name string) resource.Resource {
	return io.inputs[name]
}

// Output returns the resource bound to an output field, or nil.
func (io *IO) Output(name string) resource.Resource {
	return io.outputs[name]
}
