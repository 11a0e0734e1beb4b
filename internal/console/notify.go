package console

import (
	"log/slog"

	"github.com/ncruces/zenity"
)

// Notifier shows a short message to the operator outside the terminal.
type Notifier interface {
	Notify(title, text string) error
}

// Desktop posts notifications through the desktop environment.
type Desktop struct{}

func (Desktop) Notify(title, text string) error {
	return zenity.Notify(text, zenity.Title(title), zenity.InfoIcon)
}

// Warner logs warnings and, when a Notifier is set, forwards them to it.
type Warner struct {
	Logger   *slog.Logger
	Notifier Notifier
}

// Warn logs msg with args and notifies the operator.
func (w Warner) Warn(msg string, args ...any) {
	w.Logger.Warn(msg, args...)
	if w.Notifier == nil {
		return
	}
	if err := w.Notifier.Notify("padmap", msg); err != nil {
		w.Logger.Debug("desktop notification failed", "error", err)
	}
}
