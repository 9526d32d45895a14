package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/graph"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// TopologyEvent is the socket.io event carrying snapshots.
const TopologyEvent = "graph:topology"

// ErrNotConnected is returned by Publish while the socket is down.
var ErrNotConnected = errors.New("editor connection is not established")

// Options configure Dial.
type Options struct {
	URL         string
	Namespace   string
	DialTimeout time.Duration
}

// Publisher sends topology snapshots to an editor server. Identical
// consecutive snapshots are sent only once.
type Publisher struct {
	mu     sync.Mutex
	layout *Layout
	last   []byte

	connected func() bool
	emit      func(event string, payload any)
	close     func()
}

// Dial connects to the editor server and waits for the connection to be
// acknowledged.
func Dial(ctx context.Context, o Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "editor", "url", o.URL)

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to editor", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(o.DialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", o.DialTimeout)
	}

	return &Publisher{
		layout:    NewLayout(),
		connected: io.Connected,
		emit:      func(event string, payload any) { io.Emit(event, payload) },
		close:     func() { io.Disconnect() },
	}, nil
}

// Layout returns the display metadata the publisher keeps in sync.
func (p *Publisher) Layout() *Layout {
	return p.layout
}

// Publish sends the snapshot of t unless it matches the previous one.
func (p *Publisher) Publish(ctx context.Context, t graph.Topology) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, err := p.layout.Snapshot(t).Marshal()
	if err != nil {
		return fmt.Errorf("encode topology snapshot: %w", err)
	}
	if bytes.Equal(payload, p.last) {
		return nil
	}
	if !p.connected() {
		return ErrNotConnected
	}
	ctxlog.FromContext(ctx).Debug("Publishing topology to editor.", "bytes", len(payload))
	p.emit(TopologyEvent, string(payload))
	p.last = payload
	return nil
}

// Close disconnects from the editor server.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}
