package sop

import "time"

// Classify derives the overall status of an application.
//
// The final stage decides: blank means the application is still in
// progress; a date is compared with the registration date; a placeholder
// means the last dated stage stands in for the completion date. Any value
// that fails to parse counts as absent.
func (e *Engine) Classify(rec Record) Status {
	status, _ := e.classify(rec)
	return status
}

// classify returns the status and, for completed applications, the date
// used as completion.
func (e *Engine) classify(rec Record) (Status, time.Time) {
	final := e.schedule.Final()
	kind, completed := e.inspect(rec.StageValue(final))

	switch kind {
	case KindAbsent, KindInvalid:
		return StatusInProgress, time.Time{}
	case KindPlaceholder:
		var ok bool
		completed, ok = e.effectiveCompletion(rec)
		if !ok {
			return StatusInProgress, time.Time{}
		}
	}

	registered, ok := e.registration(rec)
	if !ok {
		return StatusInProgress, time.Time{}
	}

	if DaysBetween(registered, completed) <= e.threshold {
		return StatusOnTime, completed
	}
	return StatusLate, completed
}

// effectiveCompletion scans stages from the end and returns the first
// parseable date.
func (e *Engine) effectiveCompletion(rec Record) (time.Time, bool) {
	for i := e.schedule.Len() - 1; i >= 0; i-- {
		kind, t := e.inspect(rec.StageValue(e.schedule.At(i)))
		if kind == KindDated {
			return t, true
		}
	}
	return time.Time{}, false
}
