package rcheevos

import "testing"

func TestOperandResolveAddressDeltaPrior(t *testing.T) {
	r := NewRegistry()
	ref := r.Intern(0x1000, 1)
	mem := map[uint32]uint32{0x1000: 10}
	peek := fakePeek(mem)
	r.Refresh(peek, nil)
	mem[0x1000] = 20
	r.Refresh(peek, nil)

	cur := Operand{Kind: OperandAddress, Ref: ref, View: SizeU8}
	delta := Operand{Kind: OperandDelta, Ref: ref, View: SizeU8}
	prior := Operand{Kind: OperandPrior, Ref: ref, View: SizeU8}

	if got := cur.resolve(peek, nil, 0, false, 0).asUint32(); got != 20 {
		t.Errorf("Address = %d, want 20", got)
	}
	if got := delta.resolve(peek, nil, 0, false, 0).asUint32(); got != 10 {
		t.Errorf("Delta = %d, want 10", got)
	}
	if got := prior.resolve(peek, nil, 0, false, 0).asUint32(); got != 10 {
		t.Errorf("Prior = %d, want 10", got)
	}
}

func TestOperandBCDDecode(t *testing.T) {
	r := NewRegistry()
	ref := r.Intern(0x1000, 1)
	mem := map[uint32]uint32{0x1000: 0x42}
	peek := fakePeek(mem)
	r.Refresh(peek, nil)

	inner := Operand{Kind: OperandAddress, Ref: ref, View: SizeU8}
	bcd := Operand{Kind: OperandBCD, View: SizeU8, Inner: &inner}
	if got := bcd.resolve(peek, nil, 0, false, 0).asUint32(); got != 42 {
		t.Errorf("BCD(0x42) = %d, want 42", got)
	}
}

func TestOperandInvertedMasksToWidth(t *testing.T) {
	r := NewRegistry()
	ref := r.Intern(0x1000, 1)
	mem := map[uint32]uint32{0x1000: 0x0F}
	peek := fakePeek(mem)
	r.Refresh(peek, nil)

	inner := Operand{Kind: OperandAddress, Ref: ref, View: SizeU8}
	inv := Operand{Kind: OperandInverted, View: SizeU8, Inner: &inner}
	if got := inv.resolve(peek, nil, 0, false, 0).asUint32(); got != 0xF0 {
		t.Errorf("Inverted(0x0F) = 0x%X, want 0xF0", got)
	}
}

func TestOperandConstants(t *testing.T) {
	ci := Operand{Kind: OperandConstInt, ConstInt: 7}
	if got := ci.resolve(nil, nil, 0, false, 0).asInt(); got != 7 {
		t.Errorf("ConstInt = %d, want 7", got)
	}
	cf := Operand{Kind: OperandConstFloat, ConstFloat: 3.5}
	if got := cf.resolve(nil, nil, 0, false, 0).asFloat(); got != 3.5 {
		t.Errorf("ConstFloat = %v, want 3.5", got)
	}
}

func TestOperandAddressOverride(t *testing.T) {
	r := NewRegistry()
	ref := r.Intern(0x1000, 1)
	mem := map[uint32]uint32{0x1000: 1, 0x2000: 99}
	peek := fakePeek(mem)
	r.Refresh(peek, nil)

	op := Operand{Kind: OperandAddress, Ref: ref, View: SizeU8}
	if got := op.resolve(peek, nil, 0x2000, true, 0).asUint32(); got != 99 {
		t.Errorf("override read = %d, want 99", got)
	}
}
