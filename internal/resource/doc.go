// Package resource describes the resources that flow along render graph
// edges: their formats and shapes, the per-field shape contracts passes
// declare, and the allocator the compiler uses when a field has no bound
// resource.
//
// Resources are opaque handles. The graph only reads their shape and
// identity; GPU-side representation belongs to the allocator.
package resource
