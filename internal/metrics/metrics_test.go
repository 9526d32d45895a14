package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/passgraph/internal/graph"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/resource"
)

type source struct{}

func (source) Reflect() pass.Reflection {
	return pass.Reflection{Outputs: []resource.Field{{Name: "out", Policy: resource.PolicySwapChain}}}
}
func (source) Execute(context.Context, pass.RenderContext, *pass.IO) error { return nil }

func TestMetrics_ObservesGraph(t *testing.T) {
	m := New()
	g := graph.New(graph.Config{Observer: m})
	require.NoError(t, g.AddPass(source{}, "sky"))

	require.Error(t, g.Execute(context.Background(), nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("invalid")))

	require.NoError(t, g.MarkGraphOutput("sky.out"))
	require.NoError(t, g.Execute(context.Background(), nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.passExecutions.WithLabelValues("sky", "success")))
}

func TestMetrics_Results(t *testing.T) {
	m := New()
	m.CompileFinished(time.Millisecond, &graph.GraphError{Kind: graph.ErrAllocationFailure})
	m.PassFinished("blur", time.Millisecond, errors.New("boom"))
	m.FrameFinished(nil)
	m.ReloadFinished(errors.New("parse"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("bind_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.passExecutions.WithLabelValues("blur", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloadsTotal.WithLabelValues("error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.FrameFinished(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `passgraph_frames_total{result="success"} 1`))
}
