package pass

import (
	"context"
	"sync"

	"github.com/vk/passgraph/internal/resource"
)

type nameKey struct{}

// WithName returns a context that carries the name of the running pass.
func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, nameKey{}, name)
}

// NameFromContext returns the name of the running pass, or "" outside of
// an execution.
func NameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(nameKey{}).(string)
	return name
}

// Command is one operation recorded by a pass.
type Command struct {
	Pass      string
	Op        string
	Resources []resource.Resource
}

// Recorder is a CommandList that keeps every recorded command in memory.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
}

// Record implements CommandList.
func (r *Recorder) Record(passName, op string, resources ...resource.Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, Command{Pass: passName, Op: op, Resources: resources})
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}
