package graph

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Violation is one problem found by Validate.
type Violation struct {
	Kind  error
	Pass  string
	Field string
	Msg   string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Msg)
}

func (v Violation) Unwrap() error {
	return v.Kind
}

// Report collects every violation found in one validation run.
type Report struct {
	violations []Violation
}

func (r *Report) add(kind error, passName, field, format string, args ...any) {
	r.violations = append(r.violations, Violation{
		Kind:  kind,
		Pass:  passName,
		Field: field,
		Msg:   fmt.Sprintf(format, args...),
	})
}

// Valid reports whether no violations were found.
func (r *Report) Valid() bool {
	return len(r.violations) == 0
}

// Violations returns the violations in the order they were found.
func (r *Report) Violations() []Violation {
	return append([]Violation(nil), r.violations...)
}

// Log renders one line per violation.
func (r *Report) Log() string {
	lines := make([]string, 0, len(r.violations))
	for _, v := range r.violations {
		lines = append(lines, v.Error())
	}
	return strings.Join(lines, "\n")
}

// Err combines the violations into a single error, or nil when valid.
// errors.Is matches every violation kind present.
func (r *Report) Err() error {
	var err error
	for _, v := range r.violations {
		err = multierr.Append(err, v)
	}
	return err
}

// IsValid runs the validator and returns its verdict and log.
func (g *Graph) IsValid() (bool, string) {
	report := g.Validate()
	return report.Valid(), report.Log()
}

// Validate checks the graph for dangling references, cycles, unsatisfied
// required inputs and an empty output set. All problems are collected.
func (g *Graph) Validate() *Report {
	report := &Report{}
	g.checkDangling(report)
	g.checkCycles(report)
	g.checkInputs(report)
	if len(g.outputs) == 0 {
		report.add(ErrEmptyOutputSet, "", "", "no graph outputs are marked")
	}
	return report
}

func (g *Graph) checkDangling(report *Report) {
	for _, e := range g.edges {
		if !g.alive(e.src) {
			report.add(ErrNotFound, e.srcName, e.srcField, "edge %s -> %s: source pass %q was removed", e.srcAddr(), e.dstAddr(), e.srcName)
		}
		if !g.alive(e.dst) {
			report.add(ErrNotFound, e.dstName, e.dstField, "edge %s -> %s: destination pass %q was removed", e.srcAddr(), e.dstAddr(), e.dstName)
		}
	}
	for _, o := range g.outputs {
		if !g.alive(o.pass) {
			report.add(ErrNotFound, o.passName, o.field, "graph output %s: pass %q was removed", o.addr(), o.passName)
		}
	}
}

const (
	white = iota
	gray
	black
)

// checkCycles runs a coloured depth-first search from every live pass in
// registration order and reports each back edge with the cycle it closes.
func (g *Graph) checkCycles(report *Report) {
	adj := g.adjacency()
	color := make([]int, len(g.slots))
	var stack []int

	var visit func(n int)
	visit = func(n int) {
		color[n] = gray
		stack = append(stack, n)
		for _, next := range adj[n] {
			switch color[next] {
			case white:
				visit(next)
			case gray:
				report.add(ErrCycleDetected, g.slots[next].name, "", "%s", g.cyclePath(stack, next))
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
	}

	for i, s := range g.slots {
		if !s.removed && color[i] == white {
			visit(i)
		}
	}
}

func (g *Graph) cyclePath(stack []int, start int) string {
	var names []string
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			for _, n := range stack[i:] {
				names = append(names, g.slots[n].name)
			}
			break
		}
	}
	names = append(names, g.slots[start].name)
	return strings.Join(names, " -> ")
}

// adjacency lists, per slot index, the distinct successors reachable
// through live edges in edge insertion order.
func (g *Graph) adjacency() [][]int {
	adj := make([][]int, len(g.slots))
	seen := make(map[[2]int]bool)
	for _, e := range g.edges {
		if !g.liveEdge(e) {
			continue
		}
		pair := [2]int{e.src, e.dst}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		adj[e.src] = append(adj[e.src], e.dst)
	}
	return adj
}

func (g *Graph) checkInputs(report *Report) {
	for i, s := range g.slots {
		if s.removed {
			continue
		}
		for _, f := range s.reflection.Inputs {
			if f.Optional {
				continue
			}
			if _, ok := g.overrides[fieldKey{pass: i, field: f.Name}]; ok {
				continue
			}
			if e := g.incoming(i, f.Name); e != nil {
				if g.alive(e.src) {
					continue
				}
				report.add(ErrUnsatisfiedInput, s.name, f.Name, "%s.%s: source pass %q of edge %s was removed", s.name, f.Name, e.srcName, e.srcAddr())
				continue
			}
			if s.inputs[f.Name] != nil {
				continue
			}
			report.add(ErrUnsatisfiedInput, s.name, f.Name, "%s.%s: required input has no edge, override or resource", s.name, f.Name)
		}
	}
}

// incoming returns the edge terminating at the given input, if any.
func (g *Graph) incoming(dst int, field string) *edge {
	for _, e := range g.edges {
		if e.dst == dst && e.dstField == field {
			return e
		}
	}
	return nil
}
