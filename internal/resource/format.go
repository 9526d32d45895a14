package resource

import "fmt"

// Format is a texel format. FormatAny marks a format-agnostic field.
type Format int

const (
	FormatAny Format = iota
	FormatRGBA8Unorm
	FormatRGBA8UnormSRGB
	FormatBGRA8Unorm
	FormatRGBA16Float
	FormatRGBA32Float
	FormatR32Float
	FormatRG16Float
	FormatD32Float
	FormatD24UnormS8
)

var formatNames = map[Format]string{
	FormatAny:            "any",
	FormatRGBA8Unorm:     "rgba8unorm",
	FormatRGBA8UnormSRGB: "rgba8unorm-srgb",
	FormatBGRA8Unorm:     "bgra8unorm",
	FormatRGBA16Float:    "rgba16float",
	FormatRGBA32Float:    "rgba32float",
	FormatR32Float:       "r32float",
	FormatRG16Float:      "rg16float",
	FormatD32Float:       "d32float",
	FormatD24UnormS8:     "d24unorm-s8",
}

// String returns the canonical lowercase name used in graph documents.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// IsDepth reports whether the format is a depth/stencil format.
func (f Format) IsDepth() bool {
	return f == FormatD32Float || f == FormatD24UnormS8
}

// ParseFormat converts a canonical format name back into a Format.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAny, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatAny, fmt.Errorf("unknown resource format %q", name)
}
