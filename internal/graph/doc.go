// Package graph is the render-pass dependency graph: a registry of named
// passes wired by resource edges between their fields, validated as a DAG,
// compiled into an execution plan and executed once per frame.
//
// Passes, edges and graph outputs are edited through mutation methods that
// mark the graph dirty. Validate reports every problem at once so editor
// tooling can show them together. Compile resolves a resource for every
// field (overrides, then edge propagation, then caller-set resources, then
// allocation) and fixes a deterministic execution order. Execute compiles
// when dirty and dispatches the passes in that order.
//
// Edges and outputs refer to passes by registry index. Removing a pass
// invalidates its index but leaves the edges and outputs that referred to
// it in place; Validate reports them so authoring mistakes stay visible.
//
// A Graph is not safe for concurrent use.
package graph
