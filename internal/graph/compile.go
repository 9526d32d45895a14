package graph

import (
	"container/heap"
	"context"
	"strings"
	"time"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/resource"
	"go.uber.org/multierr"
)

// plan is the result of a successful compile.
type plan struct {
	order   []int
	inputs  map[int]map[string]resource.Resource
	outputs map[int]map[string]resource.Resource
}

func newPlan() *plan {
	return &plan{
		inputs:  make(map[int]map[string]resource.Resource),
		outputs: make(map[int]map[string]resource.Resource),
	}
}

func (p *plan) binding(idx int, field string, output bool) resource.Resource {
	if p == nil {
		return nil
	}
	if output {
		return p.outputs[idx][field]
	}
	return p.inputs[idx][field]
}

// Order returns the pass names in the order of the last successful compile.
func (g *Graph) Order() []string {
	if g.plan == nil {
		return nil
	}
	names := make([]string, 0, len(g.plan.order))
	for _, idx := range g.plan.order {
		names = append(names, g.slots[idx].name)
	}
	return names
}

// Compile validates the graph, orders the passes and binds a resource to
// every field. On failure the graph stays dirty and the previous plan is
// kept untouched.
func (g *Graph) Compile(ctx context.Context) (err error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	defer func() {
		if err != nil {
			g.apply(eventCompileFailed)
		} else {
			g.apply(eventCompiled)
		}
		if g.observer != nil {
			g.observer.CompileFinished(time.Since(start), err)
		}
	}()

	report := g.Validate()
	if !report.Valid() {
		logger.Debug("render graph is invalid", "violations", len(report.violations))
		return &CompileError{Log: report.Log(), Cause: report.Err()}
	}

	p := newPlan()
	p.order = g.topoOrder()

	used := make(map[fieldKey]resource.Resource)
	var problems []error
	for _, idx := range p.order {
		if errs := g.bindPass(ctx, p, idx, used); len(errs) > 0 {
			problems = append(problems, errs...)
		}
	}
	if len(problems) > 0 {
		lines := make([]string, 0, len(problems))
		for _, e := range problems {
			lines = append(lines, e.Error())
		}
		return &CompileError{Log: strings.Join(lines, "\n"), Cause: multierr.Combine(problems...)}
	}

	g.plan = p
	g.allocated = used
	logger.Debug("render graph compiled", "passes", len(p.order), "elapsed", time.Since(start))
	return nil
}

// bindPass resolves the inputs and outputs of one pass. Sources are bound
// first because passes are visited in topological order.
func (g *Graph) bindPass(ctx context.Context, p *plan, idx int, used map[fieldKey]resource.Resource) []error {
	s := g.slots[idx]
	var errs []error

	inputs := make(map[string]resource.Resource, len(s.reflection.Inputs))
	for _, f := range s.reflection.Inputs {
		key := fieldKey{pass: idx, field: f.Name}
		res, ok := g.overrides[key]
		agnostic := false
		if !ok {
			if e := g.incoming(idx, f.Name); e != nil && g.alive(e.src) {
				res = resource.NewView(p.outputs[e.src][e.srcField], e.bounds)
				src, _ := g.slots[e.src].reflection.Output(e.srcField)
				agnostic = src.Format == resource.FormatAny
			} else {
				res = s.inputs[f.Name]
			}
		}
		if res == nil {
			continue
		}
		if f.Policy == resource.PolicyFixed {
			shape := res.Shape()
			want := g.swapChain.ShapeFor(f)
			if shape.Width != want.Width || shape.Height != want.Height ||
				(f.Format != resource.FormatAny && !agnostic && shape.Format != f.Format) {
				errs = append(errs, newError(ErrTypeMismatch, "%s.%s: bound %s, declared %s", s.name, f.Name, shape, want))
				continue
			}
		}
		inputs[f.Name] = res
	}

	outputs := make(map[string]resource.Resource, len(s.reflection.Outputs))
	for _, f := range s.reflection.Outputs {
		key := fieldKey{pass: idx, field: f.Name}
		if res, ok := g.overrides[key]; ok {
			outputs[f.Name] = res
			continue
		}
		if res := s.outputs[f.Name]; res != nil {
			outputs[f.Name] = res
			continue
		}
		shape := g.swapChain.ShapeFor(f)
		if f.Format == resource.FormatAny {
			if format := g.consumerFormat(idx, f.Name); format != resource.FormatAny {
				shape.Format = format
			}
		}
		if cached := g.allocated[key]; cached != nil && cached.Shape() == shape {
			used[key] = cached
			outputs[f.Name] = cached
			continue
		}
		res, err := g.allocator.Allocate(ctx, s.name+"."+f.Name, shape)
		if err != nil {
			errs = append(errs, wrapError(ErrAllocationFailure, err, "%s.%s", s.name, f.Name))
			continue
		}
		used[key] = res
		outputs[f.Name] = res
	}

	p.inputs[idx] = inputs
	p.outputs[idx] = outputs
	return errs
}

// consumerFormat returns the format every live consumer of a
// format-agnostic output declares, or FormatAny when they do not agree.
func (g *Graph) consumerFormat(idx int, field string) resource.Format {
	format := resource.FormatAny
	for _, e := range g.edges {
		if e.src != idx || e.srcField != field || !g.liveEdge(e) {
			continue
		}
		dst, _ := g.slots[e.dst].reflection.Input(e.dstField)
		switch {
		case dst.Format == resource.FormatAny:
		case format == resource.FormatAny:
			format = dst.Format
		case format != dst.Format:
			return resource.FormatAny
		}
	}
	return format
}

// indexHeap is a min-heap of registration indices, which keeps the
// topological order stable for identical topologies.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder is Kahn's algorithm over live passes. It assumes the graph was
// validated as acyclic.
func (g *Graph) topoOrder() []int {
	adj := g.adjacency()
	indegree := make([]int, len(g.slots))
	for _, succ := range adj {
		for _, n := range succ {
			indegree[n]++
		}
	}

	h := &indexHeap{}
	for i, s := range g.slots {
		if !s.removed && indegree[i] == 0 {
			heap.Push(h, i)
		}
	}

	order := make([]int, 0, len(g.byName))
	for h.Len() > 0 {
		n := heap.Pop(h).(int)
		order = append(order, n)
		for _, next := range adj[n] {
			indegree[next]--
			if indegree[next] == 0 {
				heap.Push(h, next)
			}
		}
	}
	return order
}
