package pass

import (
	"fmt"

	"github.com/vk/passgraph/internal/resource"
)

// Reflection lists the fields a pass declares, in declaration order.
type Reflection struct {
	Inputs  []resource.Field
	Outputs []resource.Field
}

// Input looks up a declared input field by name.
func (r Reflection) Input(name string) (resource.Field, bool) {
	return lookup(r.Inputs, name)
}

// Output looks up a declared output field by name.
func (r Reflection) Output(name string) (resource.Field, bool) {
	return lookup(r.Outputs, name)
}

// Check rejects reflections the graph cannot schedule: empty or duplicate
// field names and outputs that derive their shape from an edge.
func (r Reflection) Check() error {
	seen := make(map[string]struct{}, len(r.Inputs)+len(r.Outputs))
	for _, group := range [][]resource.Field{r.Inputs, r.Outputs} {
		for _, f := range group {
			if f.Name == "" {
				return fmt.Errorf("field with empty name")
			}
			if _, dup := seen[f.Name]; dup {
				return fmt.Errorf("field %q declared twice", f.Name)
			}
			seen[f.Name] = struct{}{}
		}
	}
	for _, f := range r.Outputs {
		if f.Policy == resource.PolicyEdge {
			return fmt.Errorf("output %q cannot derive its shape from an edge", f.Name)
		}
		if f.Optional {
			return fmt.Errorf("output %q cannot be optional", f.Name)
		}
	}
	return nil
}

func lookup(fields []resource.Field, name string) (resource.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return resource.Field{}, false
}
