// validate.go - static trigger validation (spec.md §3b, supplemented from
// original_source/src/rcheevos/rc_validate.c): catches authoring mistakes
// that would otherwise only show up as a condition that's always, or
// never, true. This never runs during Evaluate; it's an optional extra
// pass a content author or the site's achievement checker can run over a
// freshly compiled Trigger.

package rcheevos

import "fmt"

// maxValue returns the largest raw value an operand can ever produce,
// used to bound comparisons without touching live memory.
func maxValue(o Operand) uint32 {
	switch o.Kind {
	case OperandConstInt:
		return o.ConstInt
	case OperandConstFloat:
		return 0xFFFFFFFF
	case OperandRecall:
		return 0xFFFFFFFF
	case OperandAddress, OperandDelta, OperandPrior:
		return maxValueForSize(o.View)
	case OperandBCD:
		// decimal-decoded, so the byte-width ceiling still bounds it loosely
		return maxValueForSize(o.Inner.View)
	case OperandInverted:
		return maxValueForSize(o.Inner.View)
	default:
		return 0xFFFFFFFF
	}
}

func maxValueForSize(size MemSize) uint32 {
	switch size {
	case SizeBit0, SizeBit1, SizeBit2, SizeBit3, SizeBit4, SizeBit5, SizeBit6, SizeBit7:
		return 1
	case SizeLowNibble, SizeHighNibble:
		return 0xF
	case SizeBitCount:
		return 8
	case SizeU8:
		return 0xFF
	case SizeU16LE, SizeU16BE:
		return 0xFFFF
	case SizeU24LE, SizeU24BE:
		return 0xFFFFFF
	default:
		return 0xFFFFFFFF
	}
}

func isMemref(o Operand) bool {
	switch o.Kind {
	case OperandAddress, OperandDelta, OperandPrior, OperandBCD, OperandInverted:
		return true
	default:
		return false
	}
}

func operandAddress(o Operand) (uint32, bool) {
	switch o.Kind {
	case OperandAddress, OperandDelta, OperandPrior:
		if o.Ref == nil {
			return 0, false
		}
		return o.Ref.Address, true
	case OperandBCD, OperandInverted:
		return operandAddress(*o.Inner)
	default:
		return 0, false
	}
}

// ValidateTrigger checks a compiled trigger's required condset and every
// alternate against maxAddress, returning a descriptive message (empty on
// success) and whether it's valid.
func ValidateTrigger(t *Trigger, maxAddress uint32) (string, bool) {
	if msg, ok := validateCondSetRange(t.Required, maxAddress); !ok {
		return "Core " + msg, false
	}
	for i, alt := range t.Alternates {
		if msg, ok := validateCondSetRange(alt, maxAddress); !ok {
			return fmt.Sprintf("Alt%d %s", i+1, msg), false
		}
	}
	return "", true
}

// validateCondSetRange ports rc_validate_condset's sequential scan: it
// tracks the running AddSource/SubSource accumulation, the AddAddress and
// AddHits chain states, and flags conditions that are vacuously true or
// false, out-of-range addresses, and dangling combining conditions.
func validateCondSetRange(set *CondSet, maxAddress uint32) (string, bool) {
	var addSourceMax uint64
	inAddHits := false
	inAddAddress := false
	isCombining := false

	for i, c := range set.Conditions {
		index := i + 1
		max := maxValue(c.Left)
		isMemref1 := isMemref(c.Left)
		isMemref2 := isMemref(c.Right)

		if !inAddAddress {
			if addr, ok := operandAddress(c.Left); ok && addr > maxAddress {
				return fmt.Sprintf("Condition %d: Address %04X out of range (max %04X)", index, addr, maxAddress), false
			}
			if addr, ok := operandAddress(c.Right); ok && addr > maxAddress {
				return fmt.Sprintf("Condition %d: Address %04X out of range (max %04X)", index, addr, maxAddress), false
			}
		} else {
			inAddAddress = false
		}

		switch c.Type {
		case AddSource:
			addSourceMax += uint64(max)
			isCombining = true
			continue
		case SubSource:
			if addSourceMax < uint64(max) {
				addSourceMax = 0xFFFFFFFF
			}
			isCombining = true
			continue
		case AddAddress:
			if c.Left.Kind == OperandDelta || c.Left.Kind == OperandPrior {
				return fmt.Sprintf("Condition %d: Using pointer from previous frame", index), false
			}
			inAddAddress = true
			isCombining = true
			continue
		case AddHits, SubHits:
			inAddHits = true
			isCombining = true
		case AndNext, OrNext, ResetNextIf:
			isCombining = true
		default:
			if inAddHits {
				if c.RequiredHits == 0 {
					return fmt.Sprintf("Condition %d: Final condition in AddHits chain must have a hit target", index), false
				}
				inAddHits = false
			}
			isCombining = false
		}

		if addSourceMax != 0 {
			overflow := addSourceMax + uint64(max)
			if overflow > 0xFFFFFFFF {
				max = 0xFFFFFFFF
			} else {
				max += uint32(addSourceMax)
			}
		}

		maxRight := maxValue(c.Right)
		if maxRight != max && addSourceMax == 0 && isMemref1 && isMemref2 {
			return fmt.Sprintf("Condition %d: Comparing different memory sizes", index), false
		}

		if isMemref1 || isMemref2 || addSourceMax != 0 {
			var minVal uint32
			if c.Right.Kind == OperandConstInt {
				minVal = c.Right.ConstInt
			} else if c.Right.Kind == OperandConstFloat {
				minVal = uint32(int64(c.Right.ConstFloat))
			}

			if msg, ok := validateRange(minVal, maxRight, c.Operator, max); !ok {
				return fmt.Sprintf("Condition %d: %s", index, msg), false
			}
		}

		addSourceMax = 0
	}

	if isCombining {
		return "Final condition type expects another condition to follow", false
	}

	return "", true
}

// validateRange ports rc_validate_range's per-operator vacuous-comparison
// checks.
func validateRange(minVal, maxVal uint32, op Operator, max uint32) (string, bool) {
	switch op {
	case OpAnd:
		if minVal > max {
			return "Mask has more bits than source", false
		}
		if minVal == 0 && maxVal == 0 {
			return "Result of mask always 0", false
		}
	case OpEqual:
		if minVal > max {
			return "Comparison is never true", false
		}
	case OpNotEqual:
		if minVal > max {
			return "Comparison is always true", false
		}
	case OpGreaterThanOrEqual:
		if minVal > max {
			return "Comparison is never true", false
		}
		if maxVal == 0 {
			return "Comparison is always true", false
		}
	case OpGreaterThan:
		if minVal >= max {
			return "Comparison is never true", false
		}
	case OpLessThanOrEqual:
		if minVal >= max {
			return "Comparison is always true", false
		}
	case OpLessThan:
		if minVal > max {
			return "Comparison is always true", false
		}
		if maxVal == 0 {
			return "Comparison is never true", false
		}
	}
	return "", true
}
