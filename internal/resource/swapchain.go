package resource

// SwapChain holds the current back-buffer parameters consumed by
// swap-chain sized fields.
type SwapChain struct {
	Width       uint32
	Height      uint32
	ColorFormat Format
	DepthFormat Format
}

// DefaultSwapChain is used until the first resize notification.
func DefaultSwapChain() SwapChain {
	return SwapChain{
		Width:       1280,
		Height:      720,
		ColorFormat: FormatRGBA8Unorm,
		DepthFormat: FormatD32Float,
	}
}

// ShapeFor resolves the shape of a field for the given swap chain. Fixed
// fields use their declared size; swap-chain fields follow the back
// buffer. Format-agnostic fields take the swap-chain colour or depth
// format, or rgba8unorm when fixed.
func (sc SwapChain) ShapeFor(f Field) Shape {
	shape := Shape{Format: f.Format}
	switch f.Policy {
	case PolicySwapChain:
		shape.Width, shape.Height = sc.Width, sc.Height
		if shape.Format == FormatAny {
			shape.Format = sc.ColorFormat
			if f.Depth {
				shape.Format = sc.DepthFormat
			}
		}
	default:
		shape.Width, shape.Height = f.Width, f.Height
		if shape.Format == FormatAny {
			shape.Format = FormatRGBA8Unorm
			if f.Depth {
				shape.Format = FormatD32Float
			}
		}
	}
	return shape
}
