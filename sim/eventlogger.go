package sim

import (
	"log/slog"
	"reflect"
)

// EventLogger is a hook that logs every event the engine handles at debug
// level.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger returns a new EventLogger which writes into the logger.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &EventLogger{logger: logger}
}

type named interface {
	Name() string
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosBeforeEvent:
		attrs := []any{
			"time", float64(evt.Time()),
			"event", reflect.TypeOf(evt).String(),
		}
		if n, ok := evt.Handler().(named); ok {
			attrs = append(attrs, "handler", n.Name())
		}

		h.logger.Debug("event", attrs...)
	case HookPosAfterEvent:
		if err, ok := ctx.Detail.(error); ok && err != nil {
			h.logger.Error("event failed",
				"time", float64(evt.Time()),
				"event", reflect.TypeOf(evt).String(),
				"error", err)
		}
	}
}
