// operand.go - the tagged operand sum type (C2).
//
// The source's C union-plus-type-byte becomes an ordinary Go struct with a
// Kind discriminator. The view (MemSize) lives on the operand, not on the
// MemRef, so one interned memref can back several differently-typed reads
// (spec.md §3, Data Model; Design Notes "Tagged-union operand").

package rcheevos

// OperandKind discriminates the operand union.
type OperandKind uint8

const (
	OperandAddress OperandKind = iota // current value
	OperandDelta                      // previous-frame value
	OperandPrior                      // last-differing value
	OperandBCD                        // wraps an inner operand, decodes as BCD
	OperandInverted                   // wraps an inner operand, bitwise NOT
	OperandConstInt
	OperandConstFloat
	OperandRecall // value captured by the most recent Remember condition
)

// Operand is a tagged value read: a memory reference through a given
// view, a constant, or the condset's Recall slot.
type Operand struct {
	Kind  OperandKind
	Ref   *MemRef // nil for consts and Recall; an address-kind operand with a nil Ref reads as 0
	View  MemSize
	Inner *Operand // for BCD/Inverted

	ConstInt   uint32
	ConstFloat float64
}

// value is the VM's internal value representation: either an integer or a
// float, tagged so arithmetic and comparison can promote correctly.
type value struct {
	isFloat bool
	i       int64
	f       float64
}

func intValue(i int64) value { return value{i: i} }
func floatValue(f float64) value { return value{isFloat: true, f: f} }

func (v value) asFloat() float64 {
	if v.isFloat {
		return v.f
	}
	return float64(v.i)
}

func (v value) asInt() int64 {
	if v.isFloat {
		return int64(v.f)
	}
	return v.i
}

func (v value) asUint32() uint32 {
	return uint32(v.asInt())
}

// resolve reads an operand's current/delta/prior value through its view,
// honoring an optional indirect address override (AddAddress). addrOverride
// is used in place of the memref's interned address when overrideActive is true, and
// the read bypasses the registry (the effective address is computed fresh
// each evaluation for indirection). recall is the condset walk's current
// Recall slot, used by OperandRecall ({recall} operands).
func (o *Operand) resolve(peek PeekFunc, userdata any, addrOverride uint32, overrideActive bool, recall uint32) value {
	switch o.Kind {
	case OperandConstInt:
		return intValue(int64(o.ConstInt))
	case OperandConstFloat:
		return floatValue(o.ConstFloat)
	case OperandAddress, OperandDelta, OperandPrior:
		return o.resolveMemref(peek, userdata, addrOverride, overrideActive)
	case OperandBCD:
		inner := o.Inner.resolve(peek, userdata, addrOverride, overrideActive, recall)
		return intValue(int64(decodeBCD(inner.asUint32())))
	case OperandInverted:
		inner := o.Inner.resolve(peek, userdata, addrOverride, overrideActive, recall)
		mask := widthMask(o.Inner.View.ByteWidth())
		return intValue(int64((^inner.asUint32()) & mask))
	case OperandRecall:
		return intValue(int64(recall))
	default:
		return intValue(0)
	}
}

func (o *Operand) resolveMemref(peek PeekFunc, userdata any, addrOverride uint32, overrideActive bool) value {
	if o.Ref == nil {
		return intValue(0)
	}
	var raw uint32
	if overrideActive {
		raw = peek(addrOverride, o.Ref.Width, userdata)
	} else {
		switch o.Kind {
		case OperandDelta:
			raw = o.Ref.Previous
		case OperandPrior:
			raw = o.Ref.Prior
		default:
			raw = o.Ref.Current
		}
	}
	if o.View.IsFloat() {
		return floatValue(decodeFloatView(raw, o.View))
	}
	return intValue(int64(decodeView(raw, o.View)))
}

// decodeBCD treats each nibble of v as a decimal digit: 0x12 -> 12.
func decodeBCD(v uint32) uint32 {
	result := uint32(0)
	mult := uint32(1)
	for v != 0 {
		digit := v & 0xF
		if digit > 9 {
			digit = 9
		}
		result += digit * mult
		mult *= 10
		v >>= 4
	}
	return result
}

func widthMask(width uint8) uint32 {
	switch width {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 3:
		return 0xFFFFFF
	default:
		return 0xFFFFFFFF
	}
}
