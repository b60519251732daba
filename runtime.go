// runtime.go - the façade (C10): owns the active triggers, leaderboards
// and rich presence script, refreshes memrefs once per frame and emits
// state-change events in a fixed order (spec.md §4.8, §5).
//
// Mutex-guarded-struct-of-maps-plus-insertion-order shape grounded on
// program_executor.go's ProgramExecutor (a single sync.Mutex guarding a
// handful of status fields mutated from both the MMIO-write path and a
// background goroutine).

package rcheevos

import (
	"crypto/md5"
	"sync"
)

// richPresenceThrottleFrames is how often (in do_frame calls) a rich
// presence script's display clauses are re-evaluated (spec.md §4.7).
const richPresenceThrottleFrames = 60

type compiledTrigger struct {
	sourceMD5 [16]byte
	trigger   *Trigger
}

type compiledLboard struct {
	sourceMD5 [16]byte
	lboard    *Leaderboard
}

// RuntimeEventKind discriminates the two event streams do_frame produces.
type RuntimeEventKind uint8

const (
	RuntimeEventTrigger RuntimeEventKind = iota
	RuntimeEventLboard
)

// RuntimeEvent is delivered synchronously to the emit callback, in the
// order produced (spec.md §5).
type RuntimeEvent struct {
	Kind         RuntimeEventKind
	ID           uint32
	TriggerEvent TriggerEvent
	LboardEvent  LboardEvent
}

// EmitFunc receives one RuntimeEvent. It must not call DoFrame again.
type EmitFunc func(RuntimeEvent)

// Runtime is the public façade: activate/deactivate achievements and
// leaderboards by caller-supplied ID, load a rich presence script, and
// step everything once per host video frame.
type Runtime struct {
	mu sync.Mutex

	registry *Registry

	triggers    map[uint32]*compiledTrigger
	triggerIDs  []uint32
	lboards     map[uint32]*compiledLboard
	lboardIDs   []uint32

	richPresence       *RichPresence
	richPresenceMD5    [16]byte
	richPresenceLoaded bool
	rpFrameCounter     int

	log *Log
}

// NewRuntime builds an empty Runtime. A nil log discards all diagnostics.
func NewRuntime(log *Log) *Runtime {
	if log == nil {
		log = NewDiscardLog()
	}
	return &Runtime{
		registry: NewRegistry(),
		triggers: make(map[uint32]*compiledTrigger),
		lboards:  make(map[uint32]*compiledLboard),
		log:      log,
	}
}

// ActivateAchievement compiles source and installs it under id. If id
// already holds a trigger compiled from byte-identical source, the
// existing trigger is re-enabled in place instead of being recompiled
// (spec.md §4.8).
func (r *Runtime) ActivateAchievement(id uint32, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := md5.Sum([]byte(source))
	if existing, ok := r.triggers[id]; ok && existing.sourceMD5 == sum {
		existing.trigger.Enable()
		return nil
	}

	trig, err := CompileTrigger(source, r.registry)
	if err != nil {
		r.log.Warnf("activate_achievement: parse error", "id", id, "err", err)
		return err
	}

	if _, existed := r.triggers[id]; !existed {
		r.triggerIDs = append(r.triggerIDs, id)
	}
	r.triggers[id] = &compiledTrigger{sourceMD5: sum, trigger: trig}
	return nil
}

// DeactivateAchievement removes id from the active set. The compiled
// trigger and any memrefs it alone used are simply left unreferenced;
// Go's collector reclaims them once no activation maps to the id.
func (r *Runtime) DeactivateAchievement(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.triggers[id]; !ok {
		return
	}
	delete(r.triggers, id)
	r.triggerIDs = removeID(r.triggerIDs, id)
}

// ActivateLboard compiles source and installs it under id, same
// reactivate-in-place rule as ActivateAchievement.
func (r *Runtime) ActivateLboard(id uint32, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := md5.Sum([]byte(source))
	if existing, ok := r.lboards[id]; ok && existing.sourceMD5 == sum {
		existing.lboard.Enable()
		return nil
	}

	lb, err := CompileLeaderboard(source, r.registry)
	if err != nil {
		r.log.Warnf("activate_lboard: parse error", "id", id, "err", err)
		return err
	}

	if _, existed := r.lboards[id]; !existed {
		r.lboardIDs = append(r.lboardIDs, id)
	}
	r.lboards[id] = &compiledLboard{sourceMD5: sum, lboard: lb}
	return nil
}

// DeactivateLboard removes id from the active set.
func (r *Runtime) DeactivateLboard(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lboards[id]; !ok {
		return
	}
	delete(r.lboards, id)
	r.lboardIDs = removeID(r.lboardIDs, id)
}

// ActivateRichPresence replaces the current script. If source hashes the
// same as what's loaded, this is a no-op. Otherwise the new script is
// compiled against the shared registry (so it reuses any memrefs already
// interned by active achievements) and eagerly rendered once so a
// non-empty string is always available (spec.md §4.7).
func (r *Runtime) ActivateRichPresence(source string, peek PeekFunc, userdata any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := md5.Sum([]byte(source))
	if r.richPresenceLoaded && r.richPresenceMD5 == sum {
		return nil
	}

	rp, err := CompileRichPresence(source, r.registry)
	if err != nil {
		r.log.Warnf("activate_richpresence: parse error", "err", err)
		return err
	}

	r.richPresence = rp
	r.richPresenceMD5 = sum
	r.richPresenceLoaded = true
	r.rpFrameCounter = 0
	r.registry.Refresh(peek, userdata)
	rp.Evaluate(peek, userdata)
	return nil
}

// DoFrame refreshes every interned memref, evaluates every active trigger
// in insertion order, then every active leaderboard, then advances the
// rich presence throttle, emitting events synchronously as produced
// (spec.md §5's ordering guarantees).
func (r *Runtime) DoFrame(peek PeekFunc, userdata any, emit EmitFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Refresh(peek, userdata)

	for _, id := range r.triggerIDs {
		ct, ok := r.triggers[id]
		if !ok {
			continue
		}
		ev := ct.trigger.Evaluate(peek, userdata)
		if ev != EventNone && emit != nil {
			emit(RuntimeEvent{Kind: RuntimeEventTrigger, ID: id, TriggerEvent: ev})
		}
	}

	for _, id := range r.lboardIDs {
		cl, ok := r.lboards[id]
		if !ok {
			continue
		}
		ev := cl.lboard.Evaluate(peek, userdata)
		if ev != LboardEventNone && emit != nil {
			emit(RuntimeEvent{Kind: RuntimeEventLboard, ID: id, LboardEvent: ev})
		}
	}

	if r.richPresence != nil {
		r.rpFrameCounter++
		if r.rpFrameCounter >= richPresenceThrottleFrames {
			r.rpFrameCounter = 0
			r.richPresence.Evaluate(peek, userdata)
		}
	}
}

// TriggerByID returns the compiled trigger installed under id, or nil if
// none is active there. Intended for inspection tooling, not evaluation.
func (r *Runtime) TriggerByID(id uint32) *Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	ct, ok := r.triggers[id]
	if !ok {
		return nil
	}
	return ct.trigger
}

// RichPresenceText returns the most recently rendered rich presence
// string, or "" if no script is loaded.
func (r *Runtime) RichPresenceText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.richPresence == nil {
		return ""
	}
	return r.richPresence.LastRendered()
}

func removeID(ids []uint32, target uint32) []uint32 {
	for i, id := range ids {
		if id == target {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
