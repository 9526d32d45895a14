// Package editor keeps the display metadata a graph editor needs and
// publishes topology snapshots to an editor server over socket.io.
//
// Display metadata (pin indices, node properties) lives in a Layout keyed
// by pass name, outside the graph itself. The graph never reads it.
package editor
