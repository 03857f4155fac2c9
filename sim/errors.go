package sim

import "fmt"

// An InvalidScheduleError is returned by Schedule when an event cannot be
// inserted into the pending queue. The offending event is discarded and the
// queue and the log are left untouched.
type InvalidScheduleError struct {
	Time   VTimeInSec
	Now    VTimeInSec
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("cannot schedule event at %.10f, now %.10f: %s",
		e.Time, e.Now, e.Reason)
}
