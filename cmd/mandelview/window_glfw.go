package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/stewi1014/mandelzoom/fractal"
	"github.com/stewi1014/mandelzoom/session"
)

func glfwMain(ctx context.Context, v *viewer) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	w, err := NewGLFWWindow(v.profile.Width, v.profile.Height)
	if err != nil {
		return err
	}
	defer w.Destroy()

	windowContext, windowQuit := context.WithCancelCause(ctx)
	defer windowQuit(nil)

	if err := w.canvas.init(); err != nil {
		return err
	}
	defer w.canvas.delete()

	width, height := w.GetFramebufferSize()
	w.canvas.resize(width, height)

	base := v.profile.Viewport()
	w.session, err = session.New(session.Config{
		Renderer:  v.renderer,
		Presenter: glfwPresenter{w},
		Width:     width,
		Height:    height,
		Base:      &base,
		Logger:    v.logger,
	})
	if err != nil {
		return err
	}
	defer w.session.Close()

	w.SetScrollCallback(w.scroll)
	w.SetFramebufferSizeCallback(w.framebufferSize)

	go func() {
		<-windowContext.Done()
		glfw.PostEmptyEvent()
	}()

	w.session.Start(windowContext)
	for !w.ShouldClose() && windowContext.Err() == nil {
		glfw.WaitEvents()
		w.queue.run()
		w.canvas.draw()
		w.SwapBuffers()
	}

	if err := context.Cause(windowContext); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// GLFWWindow is the render window when GTK is not in use.
type GLFWWindow struct {
	*glfw.Window
	canvas  canvas
	queue   uiQueue
	session *session.Session
}

func NewGLFWWindow(width, height int) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(
		width,
		height,
		"Mandelbrot",
		nil,
		nil,
	)

	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &GLFWWindow{
		Window: window,
	}

	w.MakeContextCurrent()
	err = gl.Init()
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	return w, nil
}

// scroll converts the cursor from screen coordinates to framebuffer pixels.
func (w *GLFWWindow) scroll(window *glfw.Window, xoff, yoff float64) {
	if yoff == 0 {
		return
	}

	x, y := window.GetCursorPos()
	ww, wh := window.GetSize()
	fw, fh := window.GetFramebufferSize()
	if ww > 0 && wh > 0 {
		x *= float64(fw) / float64(ww)
		y *= float64(fh) / float64(wh)
	}

	w.session.Scroll(x, y, yoff > 0)
}

func (w *GLFWWindow) framebufferSize(window *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	w.canvas.resize(width, height)
	w.session.Resize(width, height)
}

// uiQueue hands work to the GLFW main loop. post never blocks, so it is safe
// to call from the main thread itself.
type uiQueue struct {
	mu    sync.Mutex
	funcs []func()
}

func (q *uiQueue) post(f func()) {
	q.mu.Lock()
	q.funcs = append(q.funcs, f)
	q.mu.Unlock()
	glfw.PostEmptyEvent()
}

func (q *uiQueue) run() {
	q.mu.Lock()
	funcs := q.funcs
	q.funcs = nil
	q.mu.Unlock()

	for _, f := range funcs {
		f()
	}
}

type glfwPresenter struct {
	w *GLFWWindow
}

func (p glfwPresenter) ShowZoomHint(originX, originY, zoom float64) {
	p.w.queue.post(func() {
		p.w.canvas.showHint(originX, originY, zoom)
	})
}

func (p glfwPresenter) ClearZoomHint() {
	p.w.queue.post(p.w.canvas.clearHint)
}

func (p glfwPresenter) Present(target *fractal.RenderTarget) {
	p.w.queue.post(func() {
		p.w.canvas.present(target)
	})
}
