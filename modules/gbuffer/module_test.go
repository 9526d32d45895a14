package gbuffer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgraph/internal/graph"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
)

func TestExecute(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	g := graph.New(graph.Config{})
	require.NoError(t, g.AddPass(p, "gbuf"))
	require.NoError(t, g.MarkGraphOutput("gbuf"))

	rec := &pass.Recorder{}
	require.NoError(t, g.Execute(context.Background(), rec))
	require.Len(t, rec.Commands(), 1)
	assert.Equal(t, "skip-empty-scene", rec.Commands()[0].Op)

	depth, err := g.Output("gbuf.depth")
	require.NoError(t, err)
	assert.Equal(t, resource.FormatD32Float, depth.Shape().Format)
	normal, err := g.Output("gbuf.normal")
	require.NoError(t, err)
	assert.Equal(t, resource.FormatRGBA16Float, normal.Shape().Format)

	g.SetScene("sponza")
	assert.Equal(t, "sponza", p.(*Pass).Scene())

	rec.Reset()
	require.NoError(t, g.Execute(context.Background(), rec))
	require.Len(t, rec.Commands(), 1)
	assert.Equal(t, "draw-scene", rec.Commands()[0].Op)
	assert.Len(t, rec.Commands()[0].Resources, 3)
}
