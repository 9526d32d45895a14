package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/editor"
	"github.com/vk/passgraph/internal/pass"
	"github.com/vk/passgraph/internal/watch"
)

// Run loads the configured document and executes frames until the frame
// budget is spent or ctx is cancelled. With watching enabled a failed
// frame is logged and the loop keeps going, waiting for a fixed document.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	if err := a.Reload(ctx, a.config.DocumentPath); err != nil {
		return err
	}

	var publisher *editor.Publisher
	if a.config.EditorURL != "" {
		p, err := editor.Dial(ctx, editor.Options{URL: a.config.EditorURL, Namespace: a.config.EditorNamespace})
		if err != nil {
			a.logger.Warn("Editor connection failed, continuing without it", "error", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	if a.config.Watch {
		w, err := watch.New(a.config.DocumentPath, 0, a.Reload)
		if err != nil {
			return fmt.Errorf("failed to create document watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", a.config.DocumentPath, err)
		}
		defer w.Stop()
	}

	a.logger.Info("🚀 Starting frame loop.", "frames", a.config.Frames, "document", a.config.DocumentPath)
	rc := &pass.Recorder{}
	for frame := 0; a.config.Frames == 0 || frame < a.config.Frames; frame++ {
		if ctx.Err() != nil {
			break
		}
		err := a.frame(ctx, rc, publisher)
		if err != nil {
			if !a.config.Watch {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
			a.logger.Error("Frame failed", "frame", frame, "error", err)
		}
		if a.config.FrameInterval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(a.config.FrameInterval):
			}
		}
	}

	a.logger.Info("🏁 Frame loop finished.")
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// frame executes the current graph once. The graph is held for the whole
// frame so a reload cannot swap it mid-execution.
func (a *App) frame(ctx context.Context, rc *pass.Recorder, publisher *editor.Publisher) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rc.Reset()
	err := a.graph.Execute(ctx, rc)
	a.metrics.FrameFinished(err)
	if err != nil {
		return err
	}
	a.logger.Debug("Frame executed.", "order", a.graph.Order(), "commands", len(rc.Commands()))

	if publisher != nil {
		if err := publisher.Publish(ctx, a.graph.Topology()); err != nil {
			a.logger.Warn("Publishing topology failed", "error", err)
		}
	}
	return nil
}
