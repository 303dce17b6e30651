package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/mandelzoom/fractal"
	"github.com/stewi1014/mandelzoom/session"
)

func gtkMain(ctx context.Context, v *viewer) error {
	gtk.Init(nil)
	app, err := gtk.ApplicationNew("com.github.stewi1014.mandelzoom", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		defer recoverToCause(appQuit, v.logger)

		renderWindow := NewRenderWindow(app, appContext, appQuit, v)
		if renderWindow == nil {
			return
		}
		renderWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		renderWindow.SetTitle("Mandelbrot")
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(app.Quit)
	}()
	app.Run(nil)

	appQuit(nil)
	if err := context.Cause(appContext); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type RenderWindow struct {
	*gtk.ApplicationWindow
	gla    *gtk.GLArea
	canvas canvas

	ctx  context.Context
	quit context.CancelCauseFunc

	viewer  *viewer
	session *session.Session
}

func NewRenderWindow(
	app *gtk.Application,
	ctx context.Context,
	quit context.CancelCauseFunc,
	v *viewer,
) *RenderWindow {
	var err error
	w := &RenderWindow{
		ctx:    ctx,
		quit:   quit,
		viewer: v,
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(v.profile.Width, v.profile.Height)

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)

	w.gla.SetEvents(int(gdk.SCROLL_MASK))
	w.gla.Connect("resize", w.resize)
	w.gla.Connect("scroll-event", w.scroll)

	w.Add(w.gla)
	w.ShowAll()

	return w
}

// fail reports a startup error to the user and shuts the application down.
func (w *RenderWindow) fail(err error) {
	w.viewer.logger.Error("viewer failed", "error", err)
	showError(w.ApplicationWindow, w.viewer.logger, err)
	w.quit(err)
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()
	if err := gla.GetError(); err != nil {
		w.fail(fmt.Errorf("creating GL context: %w", err))
		return
	}

	if err := gl.Init(); err != nil {
		w.fail(fmt.Errorf("gl.Init: %w", err))
		return
	}

	if err := w.canvas.init(); err != nil {
		w.fail(err)
	}
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) {
	w.canvas.draw()
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	if w.session != nil {
		w.session.Close()
	}
	gla.MakeCurrent()
	w.canvas.delete()
}

// resize is given the size in device pixels, which is the render size.
func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	defer recoverToCause(w.quit, w.viewer.logger)
	w.canvas.resize(width, height)

	if w.session != nil {
		w.session.Resize(width, height)
		return
	}

	base := w.viewer.profile.Viewport()
	s, err := session.New(session.Config{
		Renderer:  w.viewer.renderer,
		Presenter: gtkPresenter{w},
		Width:     width,
		Height:    height,
		Base:      &base,
		Logger:    w.viewer.logger,
	})
	if err != nil {
		w.fail(err)
		return
	}

	w.session = s
	w.session.Start(w.ctx)
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) {
	defer recoverToCause(w.quit, w.viewer.logger)
	if w.session == nil {
		return
	}

	scroll := gdk.EventScrollNewFromEvent(event)
	scale := float64(gla.GetScaleFactor())
	x, y := scroll.X()*scale, scroll.Y()*scale

	switch scroll.Direction() {
	case gdk.SCROLL_UP:
		w.session.Scroll(x, y, true)
	case gdk.SCROLL_DOWN:
		w.session.Scroll(x, y, false)
	}
}

// gtkPresenter moves session output onto the GTK main loop.
type gtkPresenter struct {
	w *RenderWindow
}

func (p gtkPresenter) ShowZoomHint(originX, originY, zoom float64) {
	glib.IdleAdd(func() {
		p.w.canvas.showHint(originX, originY, zoom)
		p.w.gla.QueueRender()
	})
}

func (p gtkPresenter) ClearZoomHint() {
	glib.IdleAdd(func() {
		p.w.canvas.clearHint()
		p.w.gla.QueueRender()
	})
}

func (p gtkPresenter) Present(target *fractal.RenderTarget) {
	glib.IdleAdd(func() {
		p.w.canvas.present(target)
		p.w.gla.QueueRender()
	})
}
