package fractal

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"runtime"
	"time"

	"github.com/stewi1014/mandelzoom/gradient"
	"golang.org/x/sync/errgroup"
)

// Partition selects how rows are split between render tasks. Every strategy
// produces the same image.
type Partition int

const (
	// Contiguous gives each task a block of ChunkRows adjacent rows.
	Contiguous Partition = iota
	// Interleaved gives task k of n the rows k, k+n, k+2n, ...
	// Expensive rows near the set tend to cluster, so this spreads them out.
	Interleaved
)

func (p Partition) String() string {
	switch p {
	case Contiguous:
		return "contiguous"
	case Interleaved:
		return "interleaved"
	}
	return fmt.Sprintf("Partition(%d)", int(p))
}

func ParsePartition(s string) (Partition, error) {
	switch s {
	case "contiguous", "":
		return Contiguous, nil
	case "interleaved":
		return Interleaved, nil
	}
	return 0, fmt.Errorf("unknown partition strategy %q", s)
}

type Renderer struct {
	MaxIter  int
	Gradient gradient.Gradient

	// Classic uses integer escape counts, which shows the iteration bands.
	Classic bool

	// Workers bounds the number of concurrently running tasks,
	// defaulting to GOMAXPROCS.
	Workers   int
	ChunkRows int
	Partition Partition
	Format    PixelFormat

	Logger *slog.Logger
}

// rows start, start+stride, ... below end
type rowSet struct {
	start, end, stride int
}

// Render evaluates every pixel of a width x height grid spanning vp. The corner
// pixels sit exactly on vp's corners and row 0 is vp.YStart.
//
// Degenerate sizes or an invalid viewport are caller errors and panic before any
// work starts. If ctx is cancelled the partial buffer is dropped and ctx's error
// returned.
func (r *Renderer) Render(ctx context.Context, vp Viewport, width, height int) (*RenderTarget, error) {
	if width < 2 || height < 2 {
		panic(fmt.Sprintf("fractal: cannot render %vx%v, need at least 2x2", width, height))
	}
	if err := vp.Validate(); err != nil {
		panic(err)
	}
	if r.MaxIter < 1 {
		panic(fmt.Sprintf("fractal: max iterations must be positive, got %v", r.MaxIter))
	}

	start := time.Now()
	target := NewRenderTarget(width, height, r.Format)
	step := vp.Step(width, height)
	grad := r.Gradient
	if grad == nil {
		grad = gradient.Turbo
	}
	bpp := r.Format.BytesPerPixel()

	partitions := r.partitions(height)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers())

	for _, rows := range partitions {
		group.Go(func() error {
			for row := rows.start; row < rows.end; row += rows.stride {
				if err := gctx.Err(); err != nil {
					return err
				}

				y := vp.YStart + step.Y()*float64(row)
				line := target.Row(row)
				for col, i := 0, 0; col < width; col, i = col+1, i+bpp {
					c := r.pixel(vp.XStart+step.X()*float64(col), y, grad)
					line[i] = c.R
					line[i+1] = c.G
					line[i+2] = c.B
					if bpp == 4 {
						line[i+3] = 0xff
					}
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	r.logger().Debug("rendered",
		"viewport", vp,
		"width", width,
		"height", height,
		"partitions", len(partitions),
		"partition", r.Partition,
		"elapsed", time.Since(start),
	)
	return target, nil
}

func (r *Renderer) pixel(x, y float64, grad gradient.Gradient) color.RGBA {
	if r.Classic {
		return Colour(float64(EscapeCount(x, y, r.MaxIter)), r.MaxIter, grad)
	}
	return Colour(Escape(x, y, r.MaxIter), r.MaxIter, grad)
}

func (r *Renderer) partitions(height int) []rowSet {
	if r.Partition == Interleaved {
		n := r.workers()
		if n > height {
			n = height
		}
		sets := make([]rowSet, n)
		for k := range sets {
			sets[k] = rowSet{start: k, end: height, stride: n}
		}
		return sets
	}

	chunk := r.ChunkRows
	if chunk < 1 {
		chunk = 1
	}
	sets := make([]rowSet, 0, (height+chunk-1)/chunk)
	for first := 0; first < height; first += chunk {
		sets = append(sets, rowSet{start: first, end: min(first+chunk, height), stride: 1})
	}
	return sets
}

func (r *Renderer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
