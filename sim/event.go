package sim

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// An Action is the unit of deferred work attached to an Event. The scheduler
// invokes it with exclusive access to itself when the event is due, so an
// action can schedule follow-up events. The returned string is the outcome
// stored in the execution log; an empty string means the action has nothing
// to report.
type Action interface {
	Invoke(s *EventScheduler) string
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(s *EventScheduler) string

// Invoke calls f.
func (f ActionFunc) Invoke(s *EventScheduler) string {
	return f(s)
}

// An Event is something going to happen at a point in simulated time. Events
// are plain values and do not change after being scheduled. An Event without
// an action is a pure time marker.
type Event struct {
	time    VTimeInSec
	action  Action
	context map[string]string
}

// NewEvent creates an Event due at time t. Both action and context may be
// nil. The context is copied, so later changes to the argument do not leak
// into the event.
func NewEvent(t VTimeInSec, action Action, context map[string]string) Event {
	e := Event{
		time:   t,
		action: action,
	}

	if len(context) > 0 {
		e.context = make(map[string]string, len(context))
		for k, v := range context {
			e.context[k] = v
		}
	}

	return e
}

// Time returns the time that the event is going to happen.
func (e Event) Time() VTimeInSec {
	return e.time
}

// Action returns the action of the event, or nil for a time marker.
func (e Event) Action() Action {
	return e.action
}

// Context returns a copy of the context attached to the event.
func (e Event) Context() map[string]string {
	if e.context == nil {
		return nil
	}

	c := make(map[string]string, len(e.context))
	for k, v := range e.context {
		c[k] = v
	}

	return c
}

// A ScheduledEvent is an Event that a scheduler has accepted. The scheduler
// stamps it with an ID and a sequence number. The sequence number breaks
// ties between events due at the same time, in scheduling order.
type ScheduledEvent struct {
	Event

	ID       string
	sequence uint64
}

// Sequence returns the scheduling order stamp of the event. It is only
// meaningful within the scheduler that assigned it.
func (e *ScheduledEvent) Sequence() uint64 {
	return e.sequence
}

// eventBefore defines the total order of scheduled events. Earlier events
// run first. Among same-time events, the one scheduled first runs first.
func eventBefore(a, b *ScheduledEvent) bool {
	if a.Time() != b.Time() {
		return a.Time() < b.Time()
	}

	return a.sequence < b.sequence
}
