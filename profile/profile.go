// Package profile holds the named render settings used by the commands and
// loads overrides for them from TOML files.
package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stewi1014/mandelzoom/fractal"
	"github.com/stewi1014/mandelzoom/gradient"
)

var ErrUnknownProfile = errors.New("unknown profile")

type Bounds struct {
	XStart float64 `toml:"x_start"`
	XEnd   float64 `toml:"x_end"`
	YStart float64 `toml:"y_start"`
	YEnd   float64 `toml:"y_end"`
}

func (b Bounds) Viewport() fractal.Viewport {
	return fractal.Viewport{XStart: b.XStart, XEnd: b.XEnd, YStart: b.YStart, YEnd: b.YEnd}
}

type Profile struct {
	Name string `toml:"-"`

	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Output  string `toml:"output"`
	Format  string `toml:"format"`
	Bounds  Bounds `toml:"bounds"`
	MaxIter int    `toml:"max_iter"`

	Gradient string `toml:"gradient"`
	Classic  bool   `toml:"classic"`

	Workers   int    `toml:"workers"`
	ChunkRows int    `toml:"chunk_rows"`
	Partition string `toml:"partition"`
}

var builtin = map[string]Profile{
	"smooth": {
		Width:     2560,
		Height:    1600,
		Output:    "output.png",
		Format:    "rgb",
		Bounds:    Bounds{-2, 2, -2, 2},
		MaxIter:   255,
		Gradient:  gradient.Default,
		ChunkRows: 1,
		Partition: "contiguous",
	},
	"classic": {
		Width:     2560,
		Height:    1600,
		Output:    "output.png",
		Format:    "rgb",
		Bounds:    Bounds{-2, 0.47, -1.12, 1.12},
		MaxIter:   200,
		Gradient:  gradient.Default,
		Classic:   true,
		ChunkRows: 1,
		Partition: "contiguous",
	},
	"interactive": {
		Width:     1200,
		Height:    800,
		Format:    "rgba",
		Bounds:    Bounds{-2, 2, -2, 2},
		MaxIter:   255,
		Gradient:  gradient.Default,
		ChunkRows: 4,
		Partition: "interleaved",
	},
}

const Default = "smooth"

func Builtin(name string) (Profile, error) {
	p, ok := builtin[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (have %v)", ErrUnknownProfile, name, Names())
	}
	p.Name = name
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile overlays the settings in a TOML file onto p. Keys missing from the
// file keep p's values; keys p doesn't know are an error.
func LoadFile(path string, p Profile) (Profile, error) {
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load profile %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Profile{}, fmt.Errorf("profile %s: unknown keys %v", path, strings.Join(keys, ", "))
	}
	return p, nil
}

func (p Profile) Viewport() fractal.Viewport {
	return p.Bounds.Viewport()
}

func (p Profile) Validate() error {
	if p.Width < 2 || p.Height < 2 {
		return fmt.Errorf("image size %vx%v must be at least 2x2", p.Width, p.Height)
	}
	if p.MaxIter < 1 {
		return fmt.Errorf("max_iter must be positive, got %v", p.MaxIter)
	}
	if p.Workers < 0 || p.ChunkRows < 0 {
		return fmt.Errorf("workers and chunk_rows must not be negative")
	}
	if err := p.Viewport().Validate(); err != nil {
		return err
	}
	if _, err := gradient.Lookup(p.Gradient); err != nil {
		return err
	}
	if _, err := fractal.ParsePartition(p.Partition); err != nil {
		return err
	}
	if _, err := fractal.ParsePixelFormat(p.Format); err != nil {
		return err
	}
	return nil
}

// Renderer builds a renderer for p, validating it first.
func (p Profile) Renderer(logger *slog.Logger) (*fractal.Renderer, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}

	grad, _ := gradient.Lookup(p.Gradient)
	partition, _ := fractal.ParsePartition(p.Partition)
	format, _ := fractal.ParsePixelFormat(p.Format)

	return &fractal.Renderer{
		MaxIter:   p.MaxIter,
		Gradient:  grad,
		Classic:   p.Classic,
		Workers:   p.Workers,
		ChunkRows: p.ChunkRows,
		Partition: partition,
		Format:    format,
		Logger:    logger,
	}, nil
}
