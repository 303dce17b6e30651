// Package gradient holds the colour tables used to colourise escape times.
package gradient

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownGradient = errors.New("unknown gradient")

// Gradient maps t in [0, 1] to a colour. Implementations must be safe to call
// from any number of goroutines.
type Gradient func(t float64) color.RGBA

// Table builds a Gradient from evenly spaced hex colour stops, blending
// neighbouring stops in CIE L*a*b*.
func Table(hexStops ...string) (Gradient, error) {
	if len(hexStops) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 stops, got %v", len(hexStops))
	}

	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("stop %v: %w", i, err)
		}
		stops[i] = c
	}

	segments := float64(len(stops) - 1)
	return func(t float64) color.RGBA {
		if math.IsNaN(t) || t <= 0 {
			t = 0
		} else if t >= 1 {
			t = 1
		}

		pos := t * segments
		i := int(pos)
		if i >= len(stops)-1 {
			i = len(stops) - 2
		}

		c := stops[i].BlendLab(stops[i+1], pos-float64(i)).Clamped()
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}
	}, nil
}

func mustTable(hexStops ...string) Gradient {
	g, err := Table(hexStops...)
	if err != nil {
		panic(err)
	}
	return g
}

var gradients = map[string]Gradient{}

// Register makes g available to Lookup under name, replacing any previous entry.
func Register(name string, g Gradient) {
	gradients[name] = g
}

func Lookup(name string) (Gradient, error) {
	g, ok := gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownGradient, name, Names())
	}
	return g, nil
}

func Names() []string {
	names := make([]string, 0, len(gradients))
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
