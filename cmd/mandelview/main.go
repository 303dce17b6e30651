package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/stewi1014/mandelzoom/fractal"
	"github.com/stewi1014/mandelzoom/gradient"
	"github.com/stewi1014/mandelzoom/internal/logging"
	"github.com/stewi1014/mandelzoom/profile"
)

var glDebug = false

// GLFW and GTK both want the main thread.
func init() {
	runtime.LockOSThread()
}

type Config struct {
	Toolkit    string
	Profile    string
	ConfigFile string
	Gradient   string
	MaxIter    int
}

// viewer is what a toolkit window needs to start a session.
type viewer struct {
	renderer *fractal.Renderer
	profile  profile.Profile
	logger   *slog.Logger
}

func main() {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "mandelview",
		Short: "Explore the Mandelbrot set; scroll to zoom about the cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViewer(cmd, cfg)
			if err != nil {
				return err
			}

			switch cfg.Toolkit {
			case "gtk":
				return gtkMain(cmd.Context(), v)
			case "glfw":
				return glfwMain(cmd.Context(), v)
			}
			return fmt.Errorf("unknown toolkit %q, want gtk or glfw", cfg.Toolkit)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.BoolVarP(&glDebug, "debug", "d", false, "Enable debug logging and GL debug output")
	flags.StringVarP(&cfg.Toolkit, "toolkit", "t", "gtk", "Window toolkit: gtk or glfw")
	flags.StringVarP(&cfg.Profile, "profile", "p", "interactive", fmt.Sprintf("Built-in render profile %v", profile.Names()))
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "TOML file overriding the profile")
	flags.StringVarP(&cfg.Gradient, "gradient", "g", "", fmt.Sprintf("Colour gradient %v", gradient.Names()))
	flags.IntVarP(&cfg.MaxIter, "max-iter", "i", 0, "Iteration limit")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newViewer(cmd *cobra.Command, cfg Config) (*viewer, error) {
	logger := logging.New(cmd.ErrOrStderr(), glDebug)

	p, err := profile.Builtin(cfg.Profile)
	if err != nil {
		return nil, err
	}
	if cfg.ConfigFile != "" {
		if p, err = profile.LoadFile(cfg.ConfigFile, p); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("gradient") {
		p.Gradient = cfg.Gradient
	}
	if cmd.Flags().Changed("max-iter") {
		p.MaxIter = cfg.MaxIter
	}

	renderer, err := p.Renderer(logger)
	if err != nil {
		return nil, err
	}
	return &viewer{renderer: renderer, profile: p, logger: logger}, nil
}
