package rcheevos

import "testing"

func addressOperand(addr uint32, size MemSize, width uint8) Operand {
	return Operand{Kind: OperandAddress, Ref: &MemRef{Address: addr, Width: width}, View: size}
}

func TestValidateTriggerAcceptsInRangeCondition(t *testing.T) {
	cond := &Condition{Left: addressOperand(0x1000, SizeU8, 1), Operator: OpEqual, Right: Operand{Kind: OperandConstInt, ConstInt: 1}, Type: Standard}
	trig := NewTrigger(&CondSet{Conditions: []*Condition{cond}}, nil)
	if msg, ok := ValidateTrigger(trig, 0xFFFF); !ok {
		t.Fatalf("expected valid, got %q", msg)
	}
}

func TestValidateTriggerRejectsOutOfRangeAddress(t *testing.T) {
	cond := &Condition{Left: addressOperand(0x2000, SizeU8, 1), Operator: OpEqual, Right: Operand{Kind: OperandConstInt, ConstInt: 1}, Type: Standard}
	trig := NewTrigger(&CondSet{Conditions: []*Condition{cond}}, nil)
	msg, ok := ValidateTrigger(trig, 0x1000)
	if ok {
		t.Fatal("expected invalid due to out-of-range address")
	}
	if msg == "" {
		t.Fatal("expected a descriptive message")
	}
}

func TestValidateCondSetRangeDetectsNeverTrueComparison(t *testing.T) {
	cond := &Condition{
		Left:     addressOperand(0x1000, SizeU8, 1),
		Operator: OpGreaterThan,
		Right:    Operand{Kind: OperandConstInt, ConstInt: 256},
		Type:     Standard,
	}
	msg, ok := validateCondSetRange(&CondSet{Conditions: []*Condition{cond}}, 0xFFFF)
	if ok {
		t.Fatal("expected invalid: a byte can never exceed 256")
	}
	if msg != "Condition 1: Comparison is never true" {
		t.Fatalf("got %q", msg)
	}
}

func TestValidateCondSetRangeDetectsAlwaysTrueComparison(t *testing.T) {
	cond := &Condition{
		Left:     addressOperand(0x1000, SizeU8, 1),
		Operator: OpNotEqual,
		Right:    Operand{Kind: OperandConstInt, ConstInt: 256},
		Type:     Standard,
	}
	msg, ok := validateCondSetRange(&CondSet{Conditions: []*Condition{cond}}, 0xFFFF)
	if ok {
		t.Fatal("expected invalid: a byte can never equal 256, so != is always true")
	}
	if msg != "Condition 1: Comparison is always true" {
		t.Fatalf("got %q", msg)
	}
}

func TestValidateCondSetRangeDetectsDanglingAddHitsChain(t *testing.T) {
	addHits := &Condition{Left: addressOperand(0x1000, SizeU8, 1), Operator: OpEqual, Right: Operand{Kind: OperandConstInt, ConstInt: 1}, Type: AddHits}
	terminal := &Condition{Left: addressOperand(0x1001, SizeU8, 1), Operator: OpEqual, Right: Operand{Kind: OperandConstInt, ConstInt: 1}, Type: Standard, RequiredHits: 0}
	msg, ok := validateCondSetRange(&CondSet{Conditions: []*Condition{addHits, terminal}}, 0xFFFF)
	if ok {
		t.Fatal("expected invalid: AddHits chain must end on a condition with a hit target")
	}
	if msg == "" {
		t.Fatal("expected a descriptive message")
	}
}

func TestValidateCondSetRangeDetectsPointerFromPreviousFrame(t *testing.T) {
	indirect := &Condition{Left: Operand{Kind: OperandDelta, Ref: &MemRef{Address: 0x1000, Width: 4}, View: SizeU32LE}, Type: AddAddress}
	terminal := &Condition{Left: addressOperand(0x1001, SizeU8, 1), Operator: OpEqual, Right: Operand{Kind: OperandConstInt, ConstInt: 1}, Type: Standard}
	msg, ok := validateCondSetRange(&CondSet{Conditions: []*Condition{indirect, terminal}}, 0xFFFF)
	if ok {
		t.Fatal("expected invalid: AddAddress may not read a delta/prior pointer")
	}
	if msg != "Condition 1: Using pointer from previous frame" {
		t.Fatalf("got %q", msg)
	}
}

func TestValidateCondSetRangeDetectsDanglingCombiningCondition(t *testing.T) {
	addSource := &Condition{Left: addressOperand(0x1000, SizeU8, 1), Type: AddSource}
	msg, ok := validateCondSetRange(&CondSet{Conditions: []*Condition{addSource}}, 0xFFFF)
	if ok {
		t.Fatal("expected invalid: a combining condition must be followed by a terminal")
	}
	if msg != "Final condition type expects another condition to follow" {
		t.Fatalf("got %q", msg)
	}
}
