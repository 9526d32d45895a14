package resource

import (
	"errors"
	"fmt"
)

// Policy decides where a field's dimensions come from.
type Policy int

const (
	// PolicyFixed uses the width and height declared on the field.
	PolicyFixed Policy = iota
	// PolicyEdge copies the shape of the upstream field. Legal on inputs only.
	PolicyEdge
	// PolicySwapChain follows the current back-buffer size.
	PolicySwapChain
)

func (p Policy) String() string {
	switch p {
	case PolicyFixed:
		return "fixed"
	case PolicyEdge:
		return "edge"
	case PolicySwapChain:
		return "swapchain"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Field is the resource-shape contract a pass declares for one of its
// input or output fields.
type Field struct {
	Name   string
	Format Format
	Policy Policy
	Width  uint32
	Height uint32
	// Depth selects the swap-chain depth format when Format is FormatAny.
	Depth bool
	// Optional inputs do not need to be satisfied for the graph to be valid.
	Optional bool
}

// ErrIncompatible is returned by Compatible for fields that can never be
// connected by an edge.
var ErrIncompatible = errors.New("incompatible field contracts")

// Compatible checks whether an output field can feed an input field.
// Formats must match unless either side is format-agnostic, and the two
// dimension policies must not exclude each other.
func Compatible(src, dst Field) error {
	if src.Format != FormatAny && dst.Format != FormatAny && src.Format != dst.Format {
		return fmt.Errorf("%w: format %s cannot feed %s", ErrIncompatible, src.Format, dst.Format)
	}
	if dst.Policy != PolicyFixed {
		return nil
	}
	switch src.Policy {
	case PolicyFixed:
		if src.Width != dst.Width || src.Height != dst.Height {
			return fmt.Errorf("%w: fixed %dx%d cannot feed fixed %dx%d",
				ErrIncompatible, src.Width, src.Height, dst.Width, dst.Height)
		}
	case PolicySwapChain:
		return fmt.Errorf("%w: swap-chain sized output cannot feed fixed %dx%d input",
			ErrIncompatible, dst.Width, dst.Height)
	}
	return nil
}
