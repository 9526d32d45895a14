package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/graph"
	"github.com/vk/passgraph/internal/hcldoc"
	"github.com/vk/passgraph/internal/metrics"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/resource"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	metrics  *metrics.Metrics

	mu    sync.Mutex
	graph *graph.Graph

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger, registry and metrics. When no modules are
// given the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewWith(modules...)
	logger.Debug("All pass modules registered.", "count", len(modules), "kinds", reg.Kinds())

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  metrics.New(),
	}, nil
}

// Load reads a document and builds a graph from it. Swap-chain size from
// the configuration takes precedence over the document.
func (a *App) Load(ctx context.Context, path string) (*graph.Graph, error) {
	desc, err := hcldoc.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if a.config.SwapChainWidth > 0 {
		desc.SwapChain.Width = a.config.SwapChainWidth
		desc.SwapChain.Height = a.config.SwapChainHeight
	}
	g, err := graph.Import(desc, a.registry, graph.Config{
		Allocator: resource.NewHeapAllocator(),
		Observer:  a.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build graph from %s: %w", path, err)
	}
	return g, nil
}

// Reload replaces the running graph with a freshly loaded one. The old
// graph keeps running when the new document fails to load.
func (a *App) Reload(ctx context.Context, path string) error {
	g, err := a.Load(ctx, path)
	a.metrics.ReloadFinished(err)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.graph = g
	a.mu.Unlock()
	return nil
}

func (a *App) currentGraph() *graph.Graph {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.graph
}

// ValidateDocument loads a document and returns the validator's verdict
// and log.
func (a *App) ValidateDocument(ctx context.Context, path string) (bool, string, error) {
	g, err := a.Load(ctxlog.WithLogger(ctx, a.logger), path)
	if err != nil {
		return false, "", err
	}
	ok, log := g.IsValid()
	return ok, log, nil
}

// FormatDocument loads a document and writes it back in canonical form.
func (a *App) FormatDocument(ctx context.Context, path string, w io.Writer) error {
	g, err := a.Load(ctxlog.WithLogger(ctx, a.logger), path)
	if err != nil {
		return err
	}
	desc, err := g.Export()
	if err != nil {
		return err
	}
	_, err = w.Write(hcldoc.Encode(desc))
	return err
}
