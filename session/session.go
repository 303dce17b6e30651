// Package session drives interactive zooming: scroll input is debounced into a
// single committed viewport change, which is rendered and handed to a Presenter.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stewi1014/mandelzoom/fractal"
)

// DebounceDelay is how long zoom input has to be quiet before a render starts.
const DebounceDelay = 200 * time.Millisecond

// Presenter displays session output. Methods are called from the session's
// goroutines, never concurrently, and must not call back into the Session.
// GUI implementations should hand the work to their UI thread and return.
type Presenter interface {
	// ShowZoomHint scales the currently displayed image by zoom about
	// (originX, originY), given as fractions of the canvas size. It must not
	// touch pixel data.
	ShowZoomHint(originX, originY, zoom float64)
	ClearZoomHint()
	Present(target *fractal.RenderTarget)
}

type State int

const (
	Idle State = iota
	PendingRender
)

func (s State) String() string {
	if s == PendingRender {
		return "pending render"
	}
	return "idle"
}

type Config struct {
	Renderer  *fractal.Renderer
	Presenter Presenter

	// Canvas size in pixels, as measured when the session starts.
	Width, Height int

	// Base is the rectangle shown at start, before aspect correction.
	// Defaults to fractal.DefaultViewport.
	Base *fractal.Viewport

	Logger *slog.Logger
}

type pendingRender struct {
	scheduledAt time.Time
	viewport    fractal.Viewport
	cursorX     float64
	cursorY     float64
	zoom        float64
}

type Session struct {
	renderer  *fractal.Renderer
	presenter Presenter
	logger    *slog.Logger
	debounce  Debouncer

	mu            sync.Mutex
	ctx           context.Context
	width, height int
	current       fractal.Viewport
	pending       *pendingRender
	closed        bool

	// the newest render; older renders are cancelled and never presented
	renderGeneration uint64
	cancelRender     context.CancelFunc
}

func New(cfg Config) (*Session, error) {
	if cfg.Renderer == nil || cfg.Presenter == nil {
		return nil, errors.New("session needs a renderer and a presenter")
	}
	if cfg.Width < 2 || cfg.Height < 2 {
		return nil, fmt.Errorf("canvas %vx%v is too small to render", cfg.Width, cfg.Height)
	}

	base := fractal.DefaultViewport()
	if cfg.Base != nil {
		base = *cfg.Base
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		renderer:  cfg.Renderer,
		presenter: cfg.Presenter,
		logger:    logger,
		debounce:  Debouncer{Delay: DebounceDelay},
		ctx:       context.Background(),
		width:     cfg.Width,
		height:    cfg.Height,
		current: base.ScaleAboutPoint(
			float64(cfg.Width), float64(cfg.Height),
			0, 0, 1,
		),
	}, nil
}

// Start renders the initial viewport without waiting for the debounce delay.
// Zooms arriving meanwhile stay pending until their own debounce settles.
// Renders stop when ctx is done.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	if s.closed {
		s.mu.Unlock()
		return
	}
	job := s.beginRender(s.current)
	s.mu.Unlock()

	go s.render(job)
}

// Viewport returns the committed viewport.
func (s *Session) Viewport() fractal.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return PendingRender
	}
	return Idle
}

// Scroll zooms in for upward scrolling and out otherwise.
func (s *Session) Scroll(cursorX, cursorY float64, up bool) {
	s.Zoom(cursorX, cursorY, fractal.ZoomForScroll(up))
}

// Zoom shows a zoom hint straight away and schedules a render of the zoomed
// viewport. A zoom arriving while one is pending replaces it; the replaced
// zoom is discarded, not combined.
func (s *Session) Zoom(cursorX, cursorY, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	w, h := float64(s.width), float64(s.height)
	s.presenter.ShowZoomHint(cursorX/w, cursorY/h, zoom)

	s.pending = &pendingRender{
		scheduledAt: time.Now(),
		viewport:    s.current.ScaleAboutPoint(w, h, cursorX, cursorY, zoom),
		cursorX:     cursorX,
		cursorY:     cursorY,
		zoom:        zoom,
	}
	s.debounce.Trigger(s.settle)
}

// Resize changes the canvas size. The committed viewport, or the pending one
// if a zoom is waiting, is aspect corrected for the new size on the next render.
func (s *Session) Resize(width, height int) {
	if width < 2 || height < 2 {
		s.logger.Debug("ignoring degenerate resize", "width", width, "height", height)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || (width == s.width && height == s.height) {
		return
	}

	base := s.current
	if s.pending != nil {
		base = s.pending.viewport
	}

	s.width, s.height = width, height
	s.pending = &pendingRender{
		scheduledAt: time.Now(),
		viewport:    base.AspectCorrect(float64(width), float64(height)),
		zoom:        1,
	}
	s.debounce.Trigger(s.settle)
}

// Close drops any pending zoom and cancels the running render.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = nil
	s.debounce.Stop()
	if s.cancelRender != nil {
		s.cancelRender()
		s.cancelRender = nil
	}
}

// renderJob is a render started under s.mu, identified by its generation.
type renderJob struct {
	ctx           context.Context
	cancel        context.CancelFunc
	generation    uint64
	viewport      fractal.Viewport
	width, height int
}

// beginRender supersedes any running render. s.mu must be held.
func (s *Session) beginRender(vp fractal.Viewport) renderJob {
	if s.cancelRender != nil {
		s.cancelRender()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancelRender = cancel
	s.renderGeneration++

	return renderJob{
		ctx:        ctx,
		cancel:     cancel,
		generation: s.renderGeneration,
		viewport:   vp,
		width:      s.width,
		height:     s.height,
	}
}

// settle commits the pending viewport and renders it. Only the debounce timer
// calls it.
func (s *Session) settle() {
	s.mu.Lock()
	p := s.pending
	if p == nil || s.closed {
		s.mu.Unlock()
		return
	}

	s.pending = nil
	s.current = p.viewport
	job := s.beginRender(p.viewport)
	s.mu.Unlock()

	s.logger.Debug("committed viewport",
		"viewport", p.viewport,
		"zoom", p.zoom,
		"cursor_x", p.cursorX,
		"cursor_y", p.cursorY,
		"waited", time.Since(p.scheduledAt),
	)

	s.render(job)
}

// render presents job's image unless a newer render has started since.
func (s *Session) render(job renderJob) {
	target, err := s.renderer.Render(job.ctx, job.viewport, job.width, job.height)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("render superseded", "viewport", job.viewport)
		} else {
			s.logger.Error("render failed", "viewport", job.viewport, "error", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if job.generation != s.renderGeneration || s.closed {
		return
	}
	s.cancelRender = nil
	job.cancel()

	// The hint is cleared together with presenting so the old image is not
	// shown unscaled while the new one renders.
	s.presenter.ClearZoomHint()
	s.presenter.Present(target)
}
