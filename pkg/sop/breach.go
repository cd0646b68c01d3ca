package sop

// BreachVector holds one flag per stage, in schedule order.
type BreachVector []bool

// Any reports whether at least one stage is flagged.
func (v BreachVector) Any() bool {
	for _, b := range v {
		if b {
			return true
		}
	}
	return false
}

// Count returns the number of flagged stages.
func (v BreachVector) Count() int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}

// StageCheck is the per-stage detail behind a breach flag.
type StageCheck struct {
	Stage Stage     `json:"stage"`
	Value string    `json:"value"`
	Kind  ValueKind `json:"kind"`
	// Elapsed is the number of days since the previous dated stage (or the
	// registration date). Only set for dated stages.
	Elapsed *int `json:"elapsed_days,omitempty"`
	// Allowance is the budget this stage was measured against: its own SOP
	// days plus those of the undated stages before it.
	Allowance int  `json:"allowance_days"`
	Breached  bool `json:"breached"`
}

// Assessment is the full evaluation of one application.
type Assessment struct {
	Status Status       `json:"status"`
	Stages []StageCheck `json:"stages"`
	// TotalDays is final-stage date minus registration date, nil when either
	// is missing or unparseable.
	TotalDays *int `json:"total_days,omitempty"`
}

// Breaches projects the per-stage flags.
func (a Assessment) Breaches() BreachVector {
	v := make(BreachVector, len(a.Stages))
	for i, c := range a.Stages {
		v[i] = c.Breached
	}
	return v
}

// LocateBreaches flags every stage whose recorded date exceeds the
// allowance accumulated since the last dated stage. Undated stages are
// never flagged; their budget carries forward to the next dated one.
func (e *Engine) LocateBreaches(rec Record) BreachVector {
	return e.checkStages(rec).breaches()
}

// Assess classifies the application and returns per-stage detail.
func (e *Engine) Assess(rec Record) Assessment {
	checks := e.checkStages(rec)
	a := Assessment{
		Status: e.Classify(rec),
		Stages: checks,
	}

	if registered, ok := e.registration(rec); ok {
		if kind, final := e.inspect(rec.StageValue(e.schedule.Final())); kind == KindDated {
			days := DaysBetween(registered, final)
			a.TotalDays = &days
		}
	}
	return a
}

type stageChecks []StageCheck

func (c stageChecks) breaches() BreachVector {
	return Assessment{Stages: c}.Breaches()
}

func (e *Engine) checkStages(rec Record) stageChecks {
	checks := make(stageChecks, e.schedule.Len())
	for i := range checks {
		st := e.schedule.At(i)
		value := rec.StageValue(st)
		kind, _ := e.inspect(value)
		checks[i] = StageCheck{Stage: st, Value: value, Kind: kind, Allowance: st.SOPDays}
	}

	prev, ok := e.registration(rec)
	if !ok {
		return checks
	}

	accumulated := 0
	for i := range checks {
		st := checks[i].Stage
		kind, curr := e.inspect(checks[i].Value)
		if kind != KindDated {
			accumulated += st.SOPDays
			continue
		}

		elapsed := DaysBetween(prev, curr)
		allowance := accumulated + st.SOPDays
		checks[i].Elapsed = &elapsed
		checks[i].Allowance = allowance
		checks[i].Breached = elapsed > allowance

		accumulated = 0
		prev = curr
	}
	return checks
}
