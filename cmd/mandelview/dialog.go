package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gotk3/gotk3/gtk"
)

// recoverToCause turns a panic in a GTK callback into the cancel cause of the
// viewer, so the main loop shuts down and the panic is reported on exit. It
// must be deferred directly.
func recoverToCause(quit context.CancelCauseFunc, logger *slog.Logger) {
	v := recover()
	if v == nil {
		return
	}

	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	logger.Error("viewer panicked", "error", err, "stack", string(debug.Stack()))
	quit(fmt.Errorf("%w\n%s", err, debug.Stack()))
}

// showError blocks on a modal dialog describing err. The message is
// selectable so it can be copied into a bug report.
func showError(parent *gtk.ApplicationWindow, logger *slog.Logger, err error) {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_MODAL|gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"The Mandelbrot viewer cannot continue",
	)
	dialog.FormatSecondaryText("%s", err.Error())
	dialog.Connect("response", dialog.Destroy)

	messageArea, areaErr := dialog.GetMessageArea()
	if areaErr != nil {
		logger.Warn("error dialog has no message area", "error", areaErr)
	} else {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			widget, ok := item.(*gtk.Widget)
			if !ok {
				return
			}
			if label, err := gtk.WidgetToLabel(widget); err == nil {
				label.SetSelectable(true)
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
}
