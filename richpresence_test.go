package rcheevos

import "testing"

func TestLookupRenderKnownAndDefault(t *testing.T) {
	lk := &Lookup{Entries: map[uint32]string{1: "Forest", 2: "Cave"}, Default: "Unknown", HasDefault: true}
	if got := lk.render(1); got != "Forest" {
		t.Errorf("render(1) = %q, want Forest", got)
	}
	if got := lk.render(99); got != "Unknown" {
		t.Errorf("render(99) = %q, want Unknown (default)", got)
	}
}

func TestLookupRenderNoDefault(t *testing.T) {
	lk := &Lookup{Entries: map[uint32]string{1: "Forest"}}
	if got := lk.render(99); got != "" {
		t.Errorf("render(99) = %q, want empty string with no default", got)
	}
}

func TestRichPresenceEvaluateFallsBackToDefault(t *testing.T) {
	rp := &RichPresence{
		Lookups: map[string]*Lookup{},
		Formats: map[string]Format{},
		Displays: []DisplayClause{
			{Trigger: NewTrigger(trivialCondSet(false), nil), Parts: []DisplayPart{{Literal: "Playing"}}},
			{Trigger: nil, Parts: []DisplayPart{{Literal: "Idle"}}},
		},
	}
	got := rp.Evaluate(nil, nil)
	if got != "Idle" {
		t.Errorf("Evaluate() = %q, want Idle (default clause)", got)
	}
}

func TestRichPresenceEvaluateSelectsConditionalClauseOnFirstTrueFrame(t *testing.T) {
	mem := map[uint32]uint32{0x1000: 1}
	peek := fakePeek(mem)
	reg := NewRegistry()

	trig, err := CompileTrigger("0xH1000=1", reg)
	if err != nil {
		t.Fatalf("CompileTrigger() error = %v", err)
	}
	rp := &RichPresence{
		Lookups: map[string]*Lookup{},
		Formats: map[string]Format{},
		Displays: []DisplayClause{
			{Trigger: trig, Parts: []DisplayPart{{Literal: "In battle"}}},
			{Trigger: nil, Parts: []DisplayPart{{Literal: "Exploring"}}},
		},
	}

	// The condition is true on this very first call: a latching Trigger
	// would suppress it (Waiting -> Active without firing), but a display
	// clause must select on the condition's plain per-frame truth.
	reg.Refresh(peek, nil)
	if got := rp.Evaluate(peek, nil); got != "In battle" {
		t.Errorf("Evaluate() = %q, want %q on the first true frame", got, "In battle")
	}
}

func TestRichPresenceEvaluateMacroWithFormat(t *testing.T) {
	score := &Value{Expression: [][]Term{{{Operand: Operand{Kind: OperandConstInt, ConstInt: 99}, Multiply: 1, Divide: 1}}}}
	formatVal := FormatValue
	rp := &RichPresence{
		Lookups: map[string]*Lookup{},
		Formats: map[string]Format{"Score": formatVal},
		Displays: []DisplayClause{
			{Trigger: nil, Parts: []DisplayPart{
				{Literal: "Score: "},
				{IsMacro: true, FormatRef: &formatVal, Value: *score},
			}},
		},
	}
	if got := rp.Evaluate(nil, nil); got != "Score: 99" {
		t.Errorf("Evaluate() = %q, want 'Score: 99'", got)
	}
}
