package graph

import (
	"context"
	"time"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/pass"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "passgraph.graph"

// Execute runs every pass once in compiled order, compiling first when the
// graph is dirty. rc is handed to each pass unchanged. The first failing
// pass aborts the call; work done by earlier passes is not undone.
func (g *Graph) Execute(ctx context.Context, rc pass.RenderContext) error {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "graph.execute")
	defer span.End()

	if g.Dirty() {
		if err := g.Compile(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	span.SetAttributes(attribute.Int("graph.passes", len(g.plan.order)))

	for _, idx := range g.plan.order {
		s := g.slots[idx]
		passCtx, passSpan := tracer.Start(ctx, "graph.pass",
			trace.WithAttributes(attribute.String("pass.name", s.name)),
		)
		passCtx = ctxlog.With(pass.WithName(passCtx, s.name), "pass", s.name)

		start := time.Now()
		err := s.pass.Execute(passCtx, rc, pass.NewIO(g.plan.inputs[idx], g.plan.outputs[idx]))
		if g.observer != nil {
			g.observer.PassFinished(s.name, time.Since(start), err)
		}
		if err != nil {
			ctxlog.FromContext(passCtx).Error("pass execution failed", "error", err)
			passSpan.RecordError(err)
			passSpan.SetStatus(codes.Error, err.Error())
			passSpan.End()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return wrapError(ErrPassExecutionFailure, err, "pass %q", s.name)
		}
		passSpan.End()
	}
	return nil
}
