package graph

import "fmt"

// State is the compiled state of a graph.
type State int

const (
	// StateDirty means the graph changed since the last successful compile.
	StateDirty State = iota
	// StateClean means the stored plan matches the graph.
	StateClean
)

func (s State) String() string {
	switch s {
	case StateDirty:
		return "DIRTY"
	case StateClean:
		return "CLEAN"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type event int

const (
	eventMutated event = iota
	eventCompiled
	eventCompileFailed
)

// transitions is the full table; a failed compile never cleans the graph.
var transitions = map[State]map[event]State{
	StateDirty: {
		eventMutated:       StateDirty,
		eventCompiled:      StateClean,
		eventCompileFailed: StateDirty,
	},
	StateClean: {
		eventMutated:       StateDirty,
		eventCompiled:      StateClean,
		eventCompileFailed: StateDirty,
	},
}

func (g *Graph) apply(ev event) {
	g.state = transitions[g.state][ev]
}

func (g *Graph) markDirty() {
	g.apply(eventMutated)
}

// State returns the current compiled state.
func (g *Graph) State() State {
	return g.state
}

// Dirty reports whether the graph must be recompiled before it executes.
func (g *Graph) Dirty() bool {
	return g.state == StateDirty
}
