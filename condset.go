// condset.go - CondSet evaluation (C5): the three-pass walk of spec.md
// §4.3, implemented as a single forward loop over a small explicit
// accumulator struct (Design Notes: "Condset walk state... a compact
// struct passed by mutable reference through a single loop is the
// intended shape" — mirrors debug_conditions.go's single-responsibility
// compareValues plus the accumulator style of program_executor.go's step
// loop).

package rcheevos

// CondSet is an ordered chain of conditions plus its paused flag.
type CondSet struct {
	Conditions []*Condition
	IsPaused   bool
}

// EvalState carries the mutable results of one CondSet.Evaluate call.
type EvalState struct {
	WasReset         bool
	WasPaused        bool
	MeasuredValue    uint32
	MeasuredTarget   uint32
	MeasuredFromHits bool
	Primed           bool
}

// accumulators holds the running values threaded through one
// condset walk (spec.md §4.3).
type accumulators struct {
	addValue        int64
	addAddress      uint32
	addAddressActive bool
	andNext         *bool
	orNext          *bool
	resetNext       bool
	addHits         int64
	recall          uint32
}

// Evaluate walks set's conditions once, honoring pause/reset/measured
// semantics, and returns whether the set is satisfied along with the
// frame's EvalState.
func (set *CondSet) Evaluate(peek PeekFunc, userdata any) (bool, EvalState) {
	var st EvalState
	var acc accumulators

	result := true
	primedResult := true
	measuredGateOK := true
	measuredSeen := false

	for _, c := range set.Conditions {
		overrideActive := acc.addAddressActive
		overrideAddr := acc.addAddress
		if overrideActive {
			overrideAddr = c.leftAddress() + acc.addAddress
		}
		acc.addAddressActive = false

		left := c.Left.resolve(peek, userdata, overrideAddr, overrideActive && c.Left.Ref != nil, acc.recall)
		left = addSigned(left, acc.addValue)
		right := c.Right.resolve(peek, userdata, 0, false, acc.recall)

		rawTrue := evalTruth(c.Operator, left, right)

		if c.Type.IsTerminal() {
			truth := rawTrue
			if acc.andNext != nil {
				truth = truth && *acc.andNext
			}
			if acc.orNext != nil {
				truth = truth || *acc.orNext
			}

			if acc.resetNext {
				c.Reset()
				acc.resetNext = false
			}

			hitIncrement := acc.addHits
			if truth {
				hitIncrement++
			}
			if hitIncrement < 0 {
				hitIncrement = 0
			}
			if c.RequiredHits == 0 {
				c.CurrentHits += uint32(hitIncrement)
			} else if c.CurrentHits < c.RequiredHits {
				c.CurrentHits += uint32(hitIncrement)
				if c.CurrentHits > c.RequiredHits {
					c.CurrentHits = c.RequiredHits
				}
			}
			c.lastTrue = truth

			acc.addValue = 0
			acc.addHits = 0
			acc.andNext = nil
			acc.orNext = nil

			switch c.Type {
			case Standard:
				contributes := c.satisfiesTarget(truth)
				result = result && contributes
				primedResult = primedResult && contributes
			case Trigger:
				contributes := c.satisfiesTarget(truth)
				result = result && contributes
				// Trigger-type terminals are excluded from the Primed
				// computation (spec.md §4.4): primedResult is left alone.
			case PauseIf:
				if c.satisfiesTarget(truth) {
					set.IsPaused = true
					st.WasPaused = true
					return false, st
				}
			case ResetIf:
				if c.satisfiesTarget(truth) {
					st.WasReset = true
					set.resetAllHits()
					return false, st
				}
			case MeasuredIf:
				if !c.satisfiesTarget(truth) {
					measuredGateOK = false
				}
			case Measured:
				measuredSeen = true
				st.MeasuredTarget = c.RequiredHits
				if c.Operator == OpNone {
					st.MeasuredValue = left.asUint32()
					st.MeasuredFromHits = false
				} else {
					st.MeasuredValue = c.CurrentHits
					st.MeasuredFromHits = true
				}
			}
			continue
		}

		// Modifier conditions.
		switch c.Type {
		case AddSource:
			mv := modifierValue(c.Operator, left, right)
			acc.addValue += mv.asInt()
		case SubSource:
			mv := modifierValue(c.Operator, left, right)
			acc.addValue -= mv.asInt()
		case AddAddress:
			mv := modifierValue(c.Operator, left, right)
			acc.addAddress = mv.asUint32()
			acc.addAddressActive = true
		case Remember:
			acc.recall = left.asUint32()
		case AddHits:
			if rawTrue {
				acc.addHits++
			}
		case SubHits:
			if rawTrue {
				acc.addHits--
			}
		case AndNext:
			acc.andNext = foldBool(acc.andNext, rawTrue, true)
		case OrNext:
			acc.orNext = foldBool(acc.orNext, rawTrue, false)
		case ResetNextIf:
			if rawTrue {
				acc.resetNext = true
			}
		}
	}

	set.IsPaused = false
	if measuredSeen && !measuredGateOK {
		st.MeasuredValue = 0
	}
	st.Primed = primedResult
	return result, st
}

func (set *CondSet) resetAllHits() {
	for _, c := range set.Conditions {
		if c.Type != PauseIf {
			c.CurrentHits = 0
			c.lastTrue = false
		}
	}
}

// leftAddress returns the base address of a condition's left operand, or
// 0 if it isn't memory-backed (AddAddress indirection on a non-memref
// operand is a no-op).
func (c *Condition) leftAddress() uint32 {
	ref := c.Left.Ref
	if c.Left.Kind == OperandBCD || c.Left.Kind == OperandInverted {
		if c.Left.Inner != nil {
			ref = c.Left.Inner.Ref
		}
	}
	if ref == nil {
		return 0
	}
	return ref.Address
}

func foldBool(existing *bool, next bool, and bool) *bool {
	if existing == nil {
		v := next
		return &v
	}
	var v bool
	if and {
		v = *existing && next
	} else {
		v = *existing || next
	}
	return &v
}

func addSigned(v value, delta int64) value {
	if v.isFloat {
		return floatValue(v.f + float64(delta))
	}
	return intValue(v.i + delta)
}

func evalTruth(op Operator, left, right value) bool {
	switch op {
	case OpNone:
		return left.asInt() != 0
	case OpEqual:
		return compareValues(left, right) == 0
	case OpNotEqual:
		return compareValues(left, right) != 0
	case OpLessThan:
		return compareValues(left, right) < 0
	case OpLessThanOrEqual:
		return compareValues(left, right) <= 0
	case OpGreaterThan:
		return compareValues(left, right) > 0
	case OpGreaterThanOrEqual:
		return compareValues(left, right) >= 0
	default:
		return left.asInt() != 0
	}
}

// compareValues returns <0, 0, >0 the way bytes.Compare does, promoting
// to float comparison if either side is a float.
func compareValues(a, b value) int {
	if a.isFloat || b.isFloat {
		af, bf := a.asFloat(), b.asFloat()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	ai, bi := a.asInt(), b.asInt()
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

// modifierValue computes the value a source/logic modifier contributes:
// left alone for the shorthand (Operator==OpNone), or left combined with
// right through an arithmetic operator.
func modifierValue(op Operator, left, right value) value {
	switch op {
	case OpMultiply:
		if left.isFloat || right.isFloat {
			return floatValue(left.asFloat() * right.asFloat())
		}
		return intValue(left.asInt() * right.asInt())
	case OpDivide:
		if right.asInt() == 0 && !right.isFloat {
			return intValue(0)
		}
		if left.isFloat || right.isFloat {
			if right.asFloat() == 0 {
				return floatValue(0)
			}
			return floatValue(left.asFloat() / right.asFloat())
		}
		return intValue(left.asInt() / right.asInt())
	case OpAnd:
		return intValue(left.asInt() & right.asInt())
	case OpOr:
		return intValue(left.asInt() | right.asInt())
	case OpXor:
		return intValue(left.asInt() ^ right.asInt())
	case OpModulo:
		if right.asInt() == 0 {
			return intValue(0)
		}
		return intValue(left.asInt() % right.asInt())
	case OpAdd:
		if left.isFloat || right.isFloat {
			return floatValue(left.asFloat() + right.asFloat())
		}
		return intValue(left.asInt() + right.asInt())
	case OpSubtract:
		if left.isFloat || right.isFloat {
			return floatValue(left.asFloat() - right.asFloat())
		}
		return intValue(left.asInt() - right.asInt())
	default:
		return left
	}
}
