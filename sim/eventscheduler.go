package sim

import (
	"math"
	"sync"
)

// An ExecutionRecord describes one executed event: when it ran, the context
// its creator attached, and the outcome its action returned. The scheduler
// keeps the executed event itself out of the log, so action closures are
// released right after they run.
type ExecutionRecord struct {
	ID      string
	Time    VTimeInSec
	Context map[string]string
	Outcome string
}

// A StopCondition tells a running scheduler when to stop. It is evaluated
// before each event is popped, so it can observe the time and the log
// between steps.
type StopCondition func(s *EventScheduler) bool

// An EventScheduler owns a time-ordered queue of pending events and executes
// them in nondecreasing time order. Executing actions may schedule further
// events into the same scheduler, which is how process-style simulations
// chain their steps. Every scheduler instance is fully independent; there is
// no process-wide state.
type EventScheduler struct {
	HookableBase

	timeLock sync.RWMutex
	now      VTimeInSec

	queue        EventQueue
	idGenerator  IDGenerator
	nextSequence uint64

	logLock sync.RWMutex
	log     []ExecutionRecord

	running bool
}

// NewEventScheduler creates an EventScheduler with the time at 0, an empty
// pending queue, and an empty log.
func NewEventScheduler() *EventScheduler {
	s := new(EventScheduler)

	s.queue = NewEventQueue()
	//s.queue = NewInsertionQueue()
	s.idGenerator = NewSequentialIDGenerator()

	return s
}

// WithEventQueue replaces the pending queue implementation. It must be called
// before any event is scheduled.
func (s *EventScheduler) WithEventQueue(q EventQueue) *EventScheduler {
	if s.queue.Len() > 0 {
		panic("cannot replace a non-empty event queue")
	}

	s.queue = q

	return s
}

// WithIDGenerator replaces the generator that stamps IDs on scheduled events.
func (s *EventScheduler) WithIDGenerator(g IDGenerator) *EventScheduler {
	s.idGenerator = g
	return s
}

// Schedule stamps the event with an ID and its scheduling order and inserts
// it into the pending queue. It fails if the event is due before the current
// time or at a non-finite time; a failed call leaves the queue and the log
// untouched. Schedule may be called from within an executing action to
// enqueue follow-up events.
func (s *EventScheduler) Schedule(evt Event) error {
	now := s.readNow()
	t := float64(evt.Time())

	if math.IsNaN(t) || math.IsInf(t, 0) {
		return &InvalidScheduleError{
			Time:   evt.Time(),
			Now:    now,
			Reason: "event time is not finite",
		}
	}

	if evt.Time() < now {
		return &InvalidScheduleError{
			Time:   evt.Time(),
			Now:    now,
			Reason: "event time is in the past",
		}
	}

	scheduled := &ScheduledEvent{
		Event:    evt,
		ID:       s.idGenerator.Generate(),
		sequence: s.nextSequence,
	}
	s.nextSequence++

	s.queue.Push(scheduled)

	return nil
}

// ScheduleAfter schedules an event delay seconds after the current time.
func (s *EventScheduler) ScheduleAfter(
	delay VTimeInSec,
	action Action,
	context map[string]string,
) error {
	return s.Schedule(NewEvent(s.readNow()+delay, action, context))
}

// RunUntil pops and executes pending events in time order until the stop
// condition reports true or the queue is exhausted. It returns a copy of the
// complete execution log.
func (s *EventScheduler) RunUntil(stop StopCondition) []ExecutionRecord {
	if s.running {
		panic("scheduler is already running")
	}

	s.running = true
	defer func() { s.running = false }()

	for !stop(s) {
		if s.queue.Len() == 0 {
			break
		}

		s.step()
	}

	return s.Log()
}

// RunUntilMaxTime executes pending events whose time does not exceed
// maxTime. When the run stops, the current time stays at the time of the
// last executed event; it is not advanced to maxTime. It returns a copy of
// the complete execution log.
func (s *EventScheduler) RunUntilMaxTime(maxTime VTimeInSec) []ExecutionRecord {
	return s.RunUntil(func(s *EventScheduler) bool {
		next, ok := s.NextEventTime()
		return ok && next > maxTime
	})
}

func (s *EventScheduler) step() {
	evt := s.queue.Pop()
	s.writeNow(evt.Time())

	hookCtx := HookCtx{
		Domain: s,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	s.InvokeHook(hookCtx)

	outcome := ""
	if action := evt.Action(); action != nil {
		outcome = action.Invoke(s)
	}

	record := ExecutionRecord{
		ID:      evt.ID,
		Time:    evt.Time(),
		Context: evt.Context(),
		Outcome: outcome,
	}

	s.logLock.Lock()
	s.log = append(s.log, record)
	s.logLock.Unlock()

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Detail = record
	s.InvokeHook(hookCtx)
}

// CurrentTime returns the time of the last executed event, or the epoch if
// nothing has executed yet.
func (s *EventScheduler) CurrentTime() VTimeInSec {
	return s.readNow()
}

// Log returns a copy of the execution log, in execution order.
func (s *EventScheduler) Log() []ExecutionRecord {
	s.logLock.RLock()
	defer s.logLock.RUnlock()

	records := make([]ExecutionRecord, len(s.log))
	copy(records, s.log)

	return records
}

// LogLen returns the number of records in the execution log.
func (s *EventScheduler) LogLen() int {
	s.logLock.RLock()
	defer s.logLock.RUnlock()

	return len(s.log)
}

// NextEventTime returns the due time of the earliest pending event. The
// second return value is false if the queue is empty.
func (s *EventScheduler) NextEventTime() (VTimeInSec, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}

	return s.queue.Peek().Time(), true
}

// PendingEventCount returns the number of events waiting in the queue.
func (s *EventScheduler) PendingEventCount() int {
	return s.queue.Len()
}

func (s *EventScheduler) readNow() VTimeInSec {
	s.timeLock.RLock()
	t := s.now
	s.timeLock.RUnlock()
	return t
}

func (s *EventScheduler) writeNow(t VTimeInSec) {
	s.timeLock.Lock()
	s.now = t
	s.timeLock.Unlock()
}
