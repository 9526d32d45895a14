package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatible(t *testing.T) {
	fixed64 := Field{Name: "out", Format: FormatRGBA8Unorm, Policy: PolicyFixed, Width: 64, Height: 64}
	fixed128 := Field{Name: "in", Format: FormatRGBA8Unorm, Policy: PolicyFixed, Width: 128, Height: 128}
	swap := Field{Name: "out", Format: FormatRGBA16Float, Policy: PolicySwapChain}
	edge := Field{Name: "in", Policy: PolicyEdge}

	testCases := []struct {
		name    string
		src     Field
		dst     Field
		wantErr bool
	}{
		{name: "agnostic destination", src: swap, dst: edge},
		{name: "same fixed size", src: fixed64, dst: Field{Format: FormatAny, Policy: PolicyFixed, Width: 64, Height: 64}},
		{name: "different fixed sizes", src: fixed64, dst: fixed128, wantErr: true},
		{name: "format mismatch", src: swap, dst: Field{Format: FormatRGBA8Unorm, Policy: PolicyEdge}, wantErr: true},
		{name: "swapchain into fixed", src: Field{Policy: PolicySwapChain}, dst: fixed128, wantErr: true},
		{name: "fixed into swapchain-sized input", src: fixed64, dst: Field{Policy: PolicySwapChain}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Compatible(tc.src, tc.dst)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrIncompatible)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSwapChain_ShapeFor(t *testing.T) {
	sc := SwapChain{Width: 800, Height: 600, ColorFormat: FormatBGRA8Unorm, DepthFormat: FormatD24UnormS8}

	assert.Equal(t, Shape{800, 600, FormatBGRA8Unorm}, sc.ShapeFor(Field{Policy: PolicySwapChain}))
	assert.Equal(t, Shape{800, 600, FormatD24UnormS8}, sc.ShapeFor(Field{Policy: PolicySwapChain, Depth: true}))
	assert.Equal(t, Shape{800, 600, FormatRGBA16Float}, sc.ShapeFor(Field{Policy: PolicySwapChain, Format: FormatRGBA16Float}))
	assert.Equal(t, Shape{64, 32, FormatRGBA8Unorm}, sc.ShapeFor(Field{Policy: PolicyFixed, Width: 64, Height: 32}))
}

func TestView(t *testing.T) {
	parent := NewTexture("color", Shape{Width: 1920, Height: 1080, Format: FormatRGBA8Unorm})

	assert.Same(t, parent, NewView(parent, Bounds{}))

	view := NewView(parent, Bounds{Width: 640})
	assert.Equal(t, parent.ID(), view.ID())
	assert.Equal(t, Shape{640, 1080, FormatRGBA8Unorm}, view.Shape())
	assert.True(t, Same(parent, view))
}

func TestHeapAllocator(t *testing.T) {
	alloc := NewHeapAllocator()

	res, err := alloc.Allocate(context.Background(), "p.out", Shape{Width: 4, Height: 4, Format: FormatR32Float})
	require.NoError(t, err)
	assert.Equal(t, "p.out", res.Label())
	assert.Equal(t, int64(1), alloc.Allocations())

	_, err = alloc.Allocate(context.Background(), "p.bad", Shape{Width: 0, Height: 4})
	assert.ErrorIs(t, err, ErrInvalidShape)
	assert.Equal(t, int64(1), alloc.Allocations())
}

func TestParseFormat(t *testing.T) {
	for f, name := range formatNames {
		parsed, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAny, f)

	_, err = ParseFormat("rgb565")
	assert.Error(t, err)
}
