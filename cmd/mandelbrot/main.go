package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stewi1014/mandelzoom/gradient"
	"github.com/stewi1014/mandelzoom/internal/logging"
	"github.com/stewi1014/mandelzoom/output"
	"github.com/stewi1014/mandelzoom/profile"
)

type Config struct {
	Debug      bool
	Profile    string
	ConfigFile string
	Output     string
	Width      int
	Height     int
	MaxIter    int
	Gradient   string
	Workers    int
	Partition  string
	Classic    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(protectNegativeArgs(cmd.Flags(), os.Args[1:]))

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "mandelbrot [flags] <center-re> <center-im> <zoom>",
		Short: "Render the Mandelbrot set to an image file",
		Long: `Renders the region of the Mandelbrot set centred on center-re + center-im*i,
magnified by zoom, and writes it to an image file.`,
		Example: `  mandelbrot 0 0 1
  mandelbrot -0.743643887 0.131825904 5000 -o seahorse.png
  mandelbrot --profile classic -g viridis -- -0.5 0 1`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	flags.StringVarP(&cfg.Profile, "profile", "p", profile.Default, fmt.Sprintf("Built-in render profile %v", profile.Names()))
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "TOML file overriding the profile")
	flags.StringVarP(&cfg.Output, "output", "o", "", fmt.Sprintf("Output file, format from extension %v", output.Formats()))
	flags.IntVar(&cfg.Width, "width", 0, "Image width in pixels")
	flags.IntVar(&cfg.Height, "height", 0, "Image height in pixels")
	flags.IntVarP(&cfg.MaxIter, "max-iter", "i", 0, "Iteration limit")
	flags.StringVarP(&cfg.Gradient, "gradient", "g", "", fmt.Sprintf("Colour gradient %v", gradient.Names()))
	flags.IntVarP(&cfg.Workers, "workers", "w", 0, "Concurrent render tasks (0 uses every CPU)")
	flags.StringVar(&cfg.Partition, "partition", "", "Row partitioning: contiguous or interleaved")
	flags.BoolVar(&cfg.Classic, "classic", false, "Use integer escape counts instead of smooth colouring")

	return cmd
}

func run(cmd *cobra.Command, cfg Config, args []string) error {
	logger := logging.New(cmd.ErrOrStderr(), cfg.Debug)
	stdout := cmd.OutOrStdout()

	var values [3]float64
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("'%s' is not a valid float64", arg)
		}
		values[i] = v
	}
	centerX, centerY, zoom := values[0], values[1], values[2]
	if zoom <= 0 {
		return fmt.Errorf("zoom '%s' must be greater than 0", args[2])
	}

	p, err := profile.Builtin(cfg.Profile)
	if err != nil {
		return err
	}
	if cfg.ConfigFile != "" {
		p, err = profile.LoadFile(cfg.ConfigFile, p)
		if err != nil {
			return err
		}
	}
	applyFlags(cmd.Flags(), cfg, &p)

	if _, err := output.FormatFor(p.Output); err != nil {
		return err
	}

	renderer, err := p.Renderer(logger)
	if err != nil {
		return err
	}

	vp := p.Viewport().ScaleAboutCenter(float64(p.Width), float64(p.Height), centerX, centerY, zoom)
	fmt.Fprintln(stdout, vp)
	logger.Debug("rendering", "profile", p.Name, "width", p.Width, "height", p.Height, "max_iter", p.MaxIter)

	start := time.Now()
	target, err := renderer.Render(cmd.Context(), vp, p.Width, p.Height)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Mandelbrot: %v\n", time.Since(start).Seconds())

	start = time.Now()
	if err := output.Save(p.Output, target); err != nil {
		return fmt.Errorf("failed to save %s: %w", p.Output, err)
	}
	fmt.Fprintf(stdout, "Saving: %v\n", time.Since(start).Seconds())

	return nil
}

func applyFlags(flags *pflag.FlagSet, cfg Config, p *profile.Profile) {
	if flags.Changed("output") {
		p.Output = cfg.Output
	}
	if flags.Changed("width") {
		p.Width = cfg.Width
	}
	if flags.Changed("height") {
		p.Height = cfg.Height
	}
	if flags.Changed("max-iter") {
		p.MaxIter = cfg.MaxIter
	}
	if flags.Changed("gradient") {
		p.Gradient = cfg.Gradient
	}
	if flags.Changed("workers") {
		p.Workers = cfg.Workers
	}
	if flags.Changed("partition") {
		p.Partition = cfg.Partition
	}
	if flags.Changed("classic") {
		p.Classic = cfg.Classic
	}
	if p.Output == "" {
		p.Output = "output.png"
	}
}

// protectNegativeArgs moves positional arguments behind a "--" so that negative
// coordinates such as -0.75 aren't parsed as shorthand flags.
func protectNegativeArgs(flags *pflag.FlagSet, args []string) []string {
	var flagArgs, positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)

		case isNumber(arg) || !strings.HasPrefix(arg, "-") || arg == "-":
			positional = append(positional, arg)

		default:
			flagArgs = append(flagArgs, arg)
			if takesValue(flags, arg) && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		}
	}

	return append(append(flagArgs, "--"), positional...)
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// takesValue reports whether arg is a flag whose value is the next argument.
// In a shorthand group such as -do only the last letter may take the next
// argument; an earlier value flag consumes the rest of the group instead.
func takesValue(flags *pflag.FlagSet, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f := flags.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}

	group := strings.TrimPrefix(arg, "-")
	for i := range len(group) {
		f := flags.ShorthandLookup(group[i : i+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			return i == len(group)-1
		}
	}
	return false
}
