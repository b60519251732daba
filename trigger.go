// trigger.go - one required condset plus alternates, and the top-level
// trigger state machine (C6). State-enum-plus-transition-methods shape
// grounded on program_executor.go's run-state handling.

package rcheevos

// TriggerState is the lifecycle state of a compiled trigger.
type TriggerState uint8

const (
	StateInactive TriggerState = iota
	StateWaiting
	StateActive
	StatePaused
	StateReset
	StateTriggered
	StateDisabled
)

// TriggerEvent is emitted by Trigger.Evaluate / Runtime.DoFrame when a
// trigger's state changes or a soft sub-state (Primed) is reached.
type TriggerEvent uint8

const (
	EventNone TriggerEvent = iota
	EventActivated
	EventPaused
	EventReset
	EventPrimed
	EventTriggered
	EventDisabled
	EventUnpaused
)

// Trigger is a required condset plus zero or more alternates: the result
// is satisfied iff the required set is satisfied AND at least one
// alternate is satisfied (or there are no alternates).
type Trigger struct {
	Required *CondSet
	Alternates []*CondSet

	State TriggerState

	MeasuredValue      uint32
	MeasuredTarget     uint32
	MeasuredAsPercent  bool
	HasHits            bool
	HasRequiredHits    bool

	hadHitsBeforeReset bool
}

// NewTrigger builds a Trigger in its initial Waiting state.
func NewTrigger(required *CondSet, alternates []*CondSet) *Trigger {
	return &Trigger{Required: required, Alternates: alternates, State: StateWaiting}
}

// evaluateSets runs the required set and every alternate, returning the
// combined truth, whether any set reported a reset, whether any set is
// paused, and the Primed flag (required AND at least one alternate,
// excluding Trigger-typed terminals, per spec.md §4.4).
func (t *Trigger) evaluateSets(peek PeekFunc, userdata any) (truth, reset, paused, primed bool, measured EvalState) {
	reqTruth, reqState := t.Required.Evaluate(peek, userdata)
	reset = reqState.WasReset
	paused = reqState.WasPaused
	primed = reqState.Primed
	measured = reqState

	altTruth := len(t.Alternates) == 0
	altPrimed := len(t.Alternates) == 0
	for _, alt := range t.Alternates {
		ok, st := alt.Evaluate(peek, userdata)
		if st.WasReset {
			reset = true
		}
		if st.WasPaused {
			paused = true
		}
		altTruth = altTruth || ok
		altPrimed = altPrimed || st.Primed
	}

	truth = reqTruth && altTruth && !reset
	primed = primed && altPrimed
	return
}

// CurrentlyTrue reports whether the trigger's condition set is satisfied
// on this frame, independent of its own state machine. Used by callers
// such as rich presence conditional clauses that need a per-frame gate
// rather than a latching achievement state (spec.md §4.7), since
// Evaluate's first-frame suppression and StateTriggered latch would
// otherwise mis-select a clause on its first true frame and then stick.
func (t *Trigger) CurrentlyTrue(peek PeekFunc, userdata any) bool {
	truth, _, _, _, _ := t.evaluateSets(peek, userdata)
	return truth
}

// Evaluate advances the trigger's state machine by one frame and returns
// any event that should be surfaced to the caller.
func (t *Trigger) Evaluate(peek PeekFunc, userdata any) TriggerEvent {
	if t.State == StateDisabled || t.State == StateTriggered {
		return EventNone
	}

	hadHits := t.HasHits
	truth, reset, paused, primed, measured := t.evaluateSets(peek, userdata)
	t.MeasuredValue = measured.MeasuredValue
	t.MeasuredTarget = measured.MeasuredTarget
	t.HasHits = t.anyHits()

	switch t.State {
	case StateWaiting:
		// Suppress a trigger that is already true the first frame it is
		// observed: it must see a false frame before it can fire.
		if truth {
			return EventNone
		}
		t.State = StateActive
		return EventActivated

	case StateActive:
		if paused {
			t.State = StatePaused
			return EventPaused
		}
		if reset {
			t.State = StateActive
			if hadHits {
				return EventReset
			}
			return EventNone
		}
		if truth {
			t.State = StateTriggered
			return EventTriggered
		}
		if primed {
			return EventPrimed
		}
		return EventNone

	case StatePaused:
		if !paused {
			t.State = StateActive
			return EventUnpaused
		}
		return EventNone
	}

	return EventNone
}

func (t *Trigger) anyHits() bool {
	for _, c := range t.Required.Conditions {
		if c.CurrentHits > 0 {
			return true
		}
	}
	for _, alt := range t.Alternates {
		for _, c := range alt.Conditions {
			if c.CurrentHits > 0 {
				return true
			}
		}
	}
	return false
}

// Reset returns a Triggered trigger to Waiting, as required by an
// explicit caller reset (spec.md §3 Invariants).
func (t *Trigger) Reset() {
	if t.State == StateDisabled {
		return
	}
	t.State = StateWaiting
	for _, c := range t.Required.Conditions {
		c.Reset()
	}
	for _, alt := range t.Alternates {
		for _, c := range alt.Conditions {
			c.Reset()
		}
	}
}

// Disable moves the trigger to Disabled regardless of its current state.
func (t *Trigger) Disable() { t.State = StateDisabled }

// Enable moves a Disabled trigger back to Waiting.
func (t *Trigger) Enable() {
	if t.State == StateDisabled {
		t.State = StateWaiting
	}
}
