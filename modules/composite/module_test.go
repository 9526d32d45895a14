package composite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgraph/internal/graph"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

type source struct{}

func (source) Reflect() pass.Reflection {
	return pass.Reflection{Outputs: []resource.Field{{Name: "out", Policy: resource.PolicySwapChain}}}
}
func (source) Execute(context.Context, pass.RenderContext, *pass.IO) error { return nil }

func TestNew_OpacityRange(t *testing.T) {
	_, err := New(map[string]cty.Value{"opacity": cty.NumberFloatVal(1.5)})
	assert.ErrorContains(t, err, "opacity")

	p, err := New(map[string]cty.Value{"opacity": cty.NumberFloatVal(0.5)})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p.(*Pass).Opacity)
}

func TestExecute(t *testing.T) {
	build := func(t *testing.T, withOverlay bool) *pass.Recorder {
		t.Helper()
		p, err := New(nil)
		require.NoError(t, err)

		g := graph.New(graph.Config{})
		require.NoError(t, g.AddPass(source{}, "base"))
		require.NoError(t, g.AddPass(p, "comp"))
		require.NoError(t, g.AddEdge("base.out", "comp.base"))
		if withOverlay {
			require.NoError(t, g.AddPass(source{}, "ui"))
			require.NoError(t, g.AddEdge("ui.out", "comp.overlay"))
		}
		require.NoError(t, g.MarkGraphOutput("comp.out"))

		rec := &pass.Recorder{}
		require.NoError(t, g.Execute(context.Background(), rec))
		return rec
	}

	t.Run("base only", func(t *testing.T) {
		cmds := build(t, false).Commands()
		require.Len(t, cmds, 1)
		assert.Equal(t, "copy", cmds[0].Op)
	})

	t.Run("with overlay", func(t *testing.T) {
		cmds := build(t, true).Commands()
		require.Len(t, cmds, 2)
		assert.Equal(t, "comp", cmds[1].Pass)
		assert.Equal(t, "blend-1.00", cmds[1].Op)
	})
}
