// internal/address/doc.go

/*
Package address provides the name-based addressing surface of the render
graph, based on the canonical format `pass.field`.

The pass name is everything before the first dot and the field name is
everything after it, so field names may themselves contain dots while pass
names may not.

This package only deals with the textual form. Resolving an address against
the registered passes and their declared fields is the graph's job.
*/
package address
