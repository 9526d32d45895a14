package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/passgraph/internal/app"
	"github.com/vk/passgraph/internal/hcldoc"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: 2, Message: err.Error()}
}

// Execute parses args and runs the selected command. Usage problems are
// reported as an ExitError with code 2.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "passgraph",
		Short: "Render pass graph runner",
		Long: `passgraph loads a render graph document, validates and compiles it,
and executes its passes frame by frame.

Example:
  passgraph run --frames 60 --swapchain-width 1920 --swapchain-height 1080 scene.hcl`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(newRunCmd(), newValidateCmd(), newFmtCmd())
	return root
}

func exactDocument(cmd *cobra.Command, args []string) error {
	return usageError(cobra.ExactArgs(1)(cmd, args))
}

// toolApp builds an app for the one-shot document commands.
func toolApp(cmd *cobra.Command, path string) (*app.App, error) {
	cfg := app.DefaultConfig()
	cfg.DocumentPath = path
	cfg.LogLevel = "error"
	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(cmd.ErrOrStderr(), config)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check graph documents and print the validation log",
		Long: `Check graph documents and print the validation log.

Each PATH is a .hcl document or a directory that is searched recursively
for .hcl documents. The command exits with status 1 when any document is
invalid.`,
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.MinimumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := hcldoc.FindDocuments(args...)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return &ExitError{Code: 2, Message: fmt.Sprintf("no %s documents found in %s", hcldoc.Extension, strings.Join(args, ", "))}
			}
			a, err := toolApp(cmd, paths[0])
			if err != nil {
				return err
			}

			var failures []string
			for _, path := range paths {
				ok, log, err := a.ValidateDocument(cmd.Context(), path)
				if err != nil {
					return err
				}
				if !ok {
					failures = append(failures, fmt.Sprintf("%s:\n%s", path, log))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)
			}
			if len(failures) > 0 {
				return &ExitError{Code: 1, Message: strings.Join(failures, "\n")}
			}
			return nil
		},
	}
}

func newFmtCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt DOCUMENT",
		Short: "Rewrite a graph document in canonical form",
		Args:  exactDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := toolApp(cmd, args[0])
			if err != nil {
				return err
			}
			if !write {
				return a.FormatDocument(cmd.Context(), args[0], cmd.OutOrStdout())
			}
			var formatted bytes.Buffer
			if err := a.FormatDocument(cmd.Context(), args[0], &formatted); err != nil {
				return err
			}
			return os.WriteFile(args[0], formatted.Bytes(), 0o644)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the document instead of stdout")
	return cmd
}

func newRunCmd() *cobra.Command {
	defaults := app.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "run [DOCUMENT]",
		Short: "Execute a graph document",
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.MaximumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			a, err := app.NewApp(cmd.OutOrStdout(), config)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to a YAML configuration file")
	flags.Int("frames", defaults.Frames, "Number of frames to execute, 0 runs until interrupted")
	flags.Duration("frame-interval", defaults.FrameInterval, "Pause between frames")
	flags.Uint32("swapchain-width", 0, "Swap-chain width, overrides the document")
	flags.Uint32("swapchain-height", 0, "Swap-chain height, overrides the document")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "Log format (text, json)")
	flags.Int("healthcheck-port", 0, "Port for the health and metrics server, 0 is disabled")
	flags.String("editor-url", "", "socket.io URL of the graph editor, empty is disabled")
	flags.String("editor-namespace", defaults.EditorNamespace, "socket.io namespace of the graph editor")
	flags.Bool("watch", false, "Reload the document when it changes on disk")
	return cmd
}

// buildConfig layers the YAML config file, then explicitly set flags, then
// the positional document path over the defaults.
func buildConfig(cmd *cobra.Command, args []string) (*app.Config, error) {
	flags := cmd.Flags()
	cfg := app.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := app.LoadConfigFile(path)
		if err != nil {
			return nil, usageError(err)
		}
		cfg = loaded
	}

	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}
	set("frames", func() (e error) { cfg.Frames, e = flags.GetInt("frames"); return })
	set("frame-interval", func() (e error) { cfg.FrameInterval, e = flags.GetDuration("frame-interval"); return })
	set("swapchain-width", func() (e error) { cfg.SwapChainWidth, e = flags.GetUint32("swapchain-width"); return })
	set("swapchain-height", func() (e error) { cfg.SwapChainHeight, e = flags.GetUint32("swapchain-height"); return })
	set("log-level", func() (e error) { cfg.LogLevel, e = flags.GetString("log-level"); return })
	set("log-format", func() (e error) { cfg.LogFormat, e = flags.GetString("log-format"); return })
	set("healthcheck-port", func() (e error) { cfg.HealthcheckPort, e = flags.GetInt("healthcheck-port"); return })
	set("editor-url", func() (e error) { cfg.EditorURL, e = flags.GetString("editor-url"); return })
	set("editor-namespace", func() (e error) { cfg.EditorNamespace, e = flags.GetString("editor-namespace"); return })
	set("watch", func() (e error) { cfg.Watch, e = flags.GetBool("watch"); return })
	if err != nil {
		return nil, usageError(err)
	}

	if len(args) > 0 {
		cfg.DocumentPath = args[0]
	}
	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return config, nil
}
