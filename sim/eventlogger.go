package sim

import "log"

// A LogHook is a hook that is responsible for recording information from the
// simulation.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a hook that prints the information of executed events.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Func writes the execution record into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosAfterEvent {
		return
	}

	record, ok := ctx.Detail.(ExecutionRecord)
	if !ok {
		return
	}

	if record.Outcome == "" {
		h.Printf("%.10f, event %s", record.Time, record.ID)
		return
	}

	h.Printf("%.10f, event %s -> %s", record.Time, record.ID, record.Outcome)
}
