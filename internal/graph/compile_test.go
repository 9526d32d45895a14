package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
)

func TestCompile_EdgeSharesSourceResource(t *testing.T) {
	g := New(Config{})
	p1 := &stubPass{reflection: pass.Reflection{Outputs: []resource.Field{fixedField("out", 64, 64)}}}
	require.NoError(t, g.AddPass(p1, "P1"))
	require.NoError(t, g.AddPass(relay("relay"), "P2"))
	require.NoError(t, g.AddEdge("P1.out", "P2.in"))
	require.NoError(t, g.MarkGraphOutput("P2.out"))

	require.NoError(t, g.Compile(context.Background()))

	out, err := g.Output("P1.out")
	require.NoError(t, err)
	in, err := g.Input("P2.in")
	require.NoError(t, err)

	require.NotNil(t, in)
	assert.Equal(t, uint32(64), in.Shape().Width)
	assert.Equal(t, uint32(64), in.Shape().Height)
	assert.Same(t, out, in)
}

func TestCompile_FanOutSharesOneResource(t *testing.T) {
	g := New(Config{})
	require.NoError(t, g.AddPass(source("source"), "S"))
	require.NoError(t, g.AddPass(relay("relay"), "A"))
	require.NoError(t, g.AddPass(relay("relay"), "B"))
	require.NoError(t, g.AddEdge("S.out", "A.in"))
	require.NoError(t, g.AddEdge("S.out", "B.in"))
	require.NoError(t, g.MarkGraphOutput("A.out"))
	require.NoError(t, g.MarkGraphOutput("B.out"))
	require.NoError(t, g.Compile(context.Background()))

	a, err := g.Input("A.in")
	require.NoError(t, err)
	b, err := g.Input("B.in")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestCompile_EdgeViewportClampsView(t *testing.T) {
	g := New(Config{})
	require.NoError(t, g.AddPass(source("source"), "S"))
	require.NoError(t, g.AddPass(relay("relay"), "R"))
	require.NoError(t, g.AddEdge("S.out", "R.in"))
	require.NoError(t, g.SetEdgeViewport("S.out", "R.in", resource.Bounds{Width: 100, Height: 50}))
	require.NoError(t, g.MarkGraphOutput("R.out"))
	require.NoError(t, g.Compile(context.Background()))

	src, err := g.Output("S.out")
	require.NoError(t, err)
	in, err := g.Input("R.in")
	require.NoError(t, err)

	assert.True(t, resource.Same(src, in))
	assert.Equal(t, resource.Shape{Width: 100, Height: 50, Format: resource.FormatRGBA8Unorm}, in.Shape())
}

func TestCompile_ResizeReallocatesSwapChainFields(t *testing.T) {
	g := New(Config{SwapChain: &resource.SwapChain{
		Width: 800, Height: 600,
		ColorFormat: resource.FormatRGBA8Unorm, DepthFormat: resource.FormatD32Float,
	}})
	p := source("source")
	require.NoError(t, g.AddPass(p, "A"))
	require.NoError(t, g.MarkGraphOutput("A.out"))
	require.NoError(t, g.Compile(context.Background()))

	before, err := g.Output("A.out")
	require.NoError(t, err)
	assert.Equal(t, uint32(800), before.Shape().Width)
	assert.Equal(t, uint32(600), before.Shape().Height)
	assert.False(t, g.Dirty())

	g.OnResizeSwapChain(1920, 1080)
	assert.True(t, g.Dirty())
	assert.Equal(t, [2]uint32{1920, 1080}, p.resized)

	require.NoError(t, g.Compile(context.Background()))
	after, err := g.Output("A.out")
	require.NoError(t, err)
	assert.Equal(t, uint32(1920), after.Shape().Width)
	assert.Equal(t, uint32(1080), after.Shape().Height)
	assert.False(t, resource.Same(before, after))
}

func TestCompile_SwapChainFormats(t *testing.T) {
	g := New(Config{})
	require.NoError(t, g.AddPass(&stubPass{kind: "depth", reflection: pass.Reflection{
		Outputs: []resource.Field{
			swapField("color"),
			{Name: "depth", Policy: resource.PolicySwapChain, Depth: true},
		},
	}}, "A"))
	require.NoError(t, g.MarkGraphOutput("A"))
	require.NoError(t, g.Compile(context.Background()))

	g.SetSwapChainFormats(resource.FormatBGRA8Unorm, resource.FormatD24UnormS8)
	assert.True(t, g.Dirty())
	require.NoError(t, g.Compile(context.Background()))

	color, err := g.Output("A.color")
	require.NoError(t, err)
	assert.Equal(t, resource.FormatBGRA8Unorm, color.Shape().Format)
	depth, err := g.Output("A.depth")
	require.NoError(t, err)
	assert.Equal(t, resource.FormatD24UnormS8, depth.Shape().Format)
	assert.Equal(t, resource.SwapChain{
		Width: 1280, Height: 720,
		ColorFormat: resource.FormatBGRA8Unorm, DepthFormat: resource.FormatD24UnormS8,
	}, g.SwapChain())
}

func TestCompile_AgnosticOutputTakesConsumerFormat(t *testing.T) {
	fixedInput := func(format resource.Format) *stubPass {
		return &stubPass{reflection: pass.Reflection{
			Inputs:  []resource.Field{{Name: "in", Format: format, Policy: resource.PolicyFixed, Width: 64, Height: 64}},
			Outputs: []resource.Field{swapField("out")},
		}}
	}

	t.Run("consumers agree", func(t *testing.T) {
		g := New(Config{})
		require.NoError(t, g.AddPass(&stubPass{reflection: pass.Reflection{
			Outputs: []resource.Field{fixedField("out", 64, 64)},
		}}, "P1"))
		require.NoError(t, g.AddPass(fixedInput(resource.FormatRGBA16Float), "P2"))
		require.NoError(t, g.AddEdge("P1.out", "P2.in"))
		require.NoError(t, g.MarkGraphOutput("P2.out"))

		ok, log := g.IsValid()
		require.True(t, ok, log)
		require.NoError(t, g.Compile(context.Background()))

		out, err := g.Output("P1.out")
		require.NoError(t, err)
		assert.Equal(t, resource.Shape{Width: 64, Height: 64, Format: resource.FormatRGBA16Float}, out.Shape())
	})

	t.Run("consumers disagree", func(t *testing.T) {
		g := New(Config{})
		require.NoError(t, g.AddPass(&stubPass{reflection: pass.Reflection{
			Outputs: []resource.Field{fixedField("out", 64, 64)},
		}}, "P1"))
		require.NoError(t, g.AddPass(fixedInput(resource.FormatRGBA16Float), "P2"))
		require.NoError(t, g.AddPass(fixedInput(resource.FormatR32Float), "P3"))
		require.NoError(t, g.AddEdge("P1.out", "P2.in"))
		require.NoError(t, g.AddEdge("P1.out", "P3.in"))
		require.NoError(t, g.MarkGraphOutput("P2.out"))
		require.NoError(t, g.MarkGraphOutput("P3.out"))

		ok, log := g.IsValid()
		require.True(t, ok, log)
		require.NoError(t, g.Compile(context.Background()))

		out, err := g.Output("P1.out")
		require.NoError(t, err)
		assert.Equal(t, resource.FormatRGBA8Unorm, out.Shape().Format)
	})
}

func TestInput_DirtyGraphIgnoresStaleBinding(t *testing.T) {
	g := New(Config{})
	require.NoError(t, g.AddPass(source("source"), "S"))
	require.NoError(t, g.AddPass(relay("relay"), "R"))
	require.NoError(t, g.AddEdge("S.out", "R.in"))
	require.NoError(t, g.MarkGraphOutput("R.out"))
	require.NoError(t, g.Compile(context.Background()))

	src, err := g.Output("S.out")
	require.NoError(t, err)
	in, err := g.Input("R.in")
	require.NoError(t, err)
	assert.True(t, resource.Same(src, in))

	require.NoError(t, g.RemoveEdge("S.out", "R.in"))
	mine := resource.NewTexture("mine", resource.Shape{Width: 16, Height: 16, Format: resource.FormatRGBA8Unorm})
	require.NoError(t, g.SetInput("R.in", mine))
	require.True(t, g.Dirty())

	in, err = g.Input("R.in")
	require.NoError(t, err)
	assert.Same(t, mine, in)

	require.NoError(t, g.Compile(context.Background()))
	in, err = g.Input("R.in")
	require.NoError(t, err)
	assert.Same(t, mine, in)
}

func TestCompile_ReusesAllocationsWhenShapeIsUnchanged(t *testing.T) {
	alloc := resource.NewHeapAllocator()
	g := New(Config{Allocator: alloc})
	require.NoError(t, g.AddPass(source("source"), "A"))
	require.NoError(t, g.MarkGraphOutput("A.out"))
	require.NoError(t, g.Compile(context.Background()))
	first, err := g.Output("A.out")
	require.NoError(t, err)

	require.NoError(t, g.AddPass(source("source"), "B"))
	require.NoError(t, g.Compile(context.Background()))
	second, err := g.Output("A.out")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(2), alloc.Allocations())
}

func TestCompile_BindingPrecedence(t *testing.T) {
	g := New(Config{})
	require.NoError(t, g.AddPass(source("source"), "S"))
	require.NoError(t, g.AddPass(relay("relay"), "R"))
	require.NoError(t, g.AddEdge("S.out", "R.in"))

	callerOut := resource.NewTexture("caller", resource.Shape{Width: 8, Height: 8})
	require.NoError(t, g.SetOutput("R.out", callerOut))
	override := resource.NewTexture("override", resource.Shape{Width: 4, Height: 4})
	require.NoError(t, g.SetOverride("R.in", override))
	require.NoError(t, g.Compile(context.Background()))

	in, err := g.Input("R.in")
	require.NoError(t, err)
	assert.Same(t, override, in)
	out, err := g.Output("R.out")
	require.NoError(t, err)
	assert.Same(t, callerOut, out)

	require.NoError(t, g.ClearOverride("R.in"))
	require.NoError(t, g.Compile(context.Background()))
	in, err = g.Input("R.in")
	require.NoError(t, err)
	src, err := g.Output("S.out")
	require.NoError(t, err)
	assert.Same(t, src, in)
}

func TestCompile_Failures(t *testing.T) {
	t.Run("invalid graph stays dirty", func(t *testing.T) {
		g := New(Config{})
		require.NoError(t, g.AddPass(source("source"), "A"))

		err := g.Compile(context.Background())
		var compileErr *CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.ErrorIs(t, err, ErrCompile)
		assert.ErrorIs(t, err, ErrEmptyOutputSet)
		assert.Contains(t, compileErr.Log, "no graph outputs")
		assert.True(t, g.Dirty())
	})

	t.Run("allocation failure", func(t *testing.T) {
		g := New(Config{Allocator: failingAllocator{}})
		require.NoError(t, g.AddPass(source("source"), "A"))
		require.NoError(t, g.MarkGraphOutput("A.out"))

		err := g.Compile(context.Background())
		assert.ErrorIs(t, err, ErrCompile)
		assert.ErrorIs(t, err, ErrAllocationFailure)
		assert.True(t, g.Dirty())
	})

	t.Run("fixed input with a mismatched override", func(t *testing.T) {
		g := New(Config{})
		fixedIn := &stubPass{reflection: pass.Reflection{
			Inputs:  []resource.Field{fixedField("in", 64, 64)},
			Outputs: []resource.Field{swapField("out")},
		}}
		require.NoError(t, g.AddPass(fixedIn, "F"))
		require.NoError(t, g.SetOverride("F.in", resource.NewTexture("small", resource.Shape{Width: 32, Height: 32})))
		require.NoError(t, g.MarkGraphOutput("F.out"))

		err := g.Compile(context.Background())
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.True(t, g.Dirty())
	})
}

func TestCompile_OrderIsDeterministic(t *testing.T) {
	g := New(Config{})
	require.NoError(t, g.AddPass(relay("relay"), "C"))
	require.NoError(t, g.AddPass(source("source"), "B"))
	require.NoError(t, g.AddPass(source("source"), "A"))
	require.NoError(t, g.AddEdge("A.out", "C.in"))
	require.NoError(t, g.MarkGraphOutput("C.out"))
	require.NoError(t, g.MarkGraphOutput("B.out"))

	require.NoError(t, g.Compile(context.Background()))
	assert.Equal(t, []string{"B", "A", "C"}, g.Order())

	g.SetScene(nil)
	require.NoError(t, g.Compile(context.Background()))
	assert.Equal(t, []string{"B", "A", "C"}, g.Order())
}

func TestExecute(t *testing.T) {
	build := func(t *testing.T, journal *[]string, obs Observer) (*Graph, *stubPass) {
		t.Helper()
		g := New(Config{Observer: obs})
		a := source("source")
		a.journal, a.name = journal, "A"
		b := relay("relay")
		b.journal, b.name = journal, "B"
		require.NoError(t, g.AddPass(b, "B"))
		require.NoError(t, g.AddPass(a, "A"))
		require.NoError(t, g.AddEdge("A.out", "B.in"))
		require.NoError(t, g.MarkGraphOutput("B.out"))
		return g, b
	}

	t.Run("runs passes in dependency order", func(t *testing.T) {
		var journal []string
		obs := &recordingObserver{}
		g, b := build(t, &journal, obs)

		require.NoError(t, g.Execute(context.Background(), nil))
		assert.Equal(t, []string{"A", "B"}, journal)
		assert.Equal(t, []string{"A", "B"}, obs.passes)
		require.Len(t, obs.compiles, 1)
		assert.NoError(t, obs.compiles[0])
		require.NotNil(t, b.seen)
		assert.NotNil(t, b.seen.Input("in"))
		assert.False(t, g.Dirty())

		// A clean graph is not recompiled.
		require.NoError(t, g.Execute(context.Background(), nil))
		assert.Len(t, obs.compiles, 1)
	})

	t.Run("pass failure aborts the call", func(t *testing.T) {
		var journal []string
		g, _ := build(t, &journal, nil)
		p, err := g.Pass("A")
		require.NoError(t, err)
		boom := errors.New("device lost")
		p.(*stubPass).err = boom

		err = g.Execute(context.Background(), nil)
		assert.ErrorIs(t, err, ErrPassExecutionFailure)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"A"}, journal)
	})

	t.Run("compile failure surfaces the log", func(t *testing.T) {
		var journal []string
		g, _ := build(t, &journal, nil)
		require.NoError(t, g.RemovePass("A"))

		err := g.Execute(context.Background(), nil)
		var compileErr *CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Contains(t, compileErr.Log, "B.in")
		assert.Empty(t, journal)
		assert.True(t, g.Dirty())
	})
}
