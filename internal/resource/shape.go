package resource

import "fmt"

// Shape is the resolved format and dimensions of a resource.
type Shape struct {
	Width  uint32
	Height uint32
	Format Format
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d %s", s.Width, s.Height, s.Format)
}

// Bounds is a region constraint attached to an edge. A zero dimension
// leaves that axis unconstrained.
type Bounds struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether the bounds constrain nothing.
func (b Bounds) IsZero() bool {
	return b.Width == 0 && b.Height == 0
}

// Clamp limits the shape to the bounds.
func (b Bounds) Clamp(s Shape) Shape {
	if b.Width > 0 && b.Width < s.Width {
		s.Width = b.Width
	}
	if b.Height > 0 && b.Height < s.Height {
		s.Height = b.Height
	}
	return s
}
