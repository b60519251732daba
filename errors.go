// errors.go - ParseError taxonomy (spec.md §4.2, §7).

package rcheevos

import "fmt"

// ParseErrorKind enumerates the ways a source text can fail to compile.
type ParseErrorKind uint8

const (
	ErrInvalidMemoryOperand ParseErrorKind = iota
	ErrInvalidConstOperand
	ErrInvalidFpOperand
	ErrInvalidOperator
	ErrInvalidRequiredHits
	ErrInvalidConditionType
	ErrInvalidValueFlag
	ErrInvalidLboardField
	ErrInvalidComparison
	ErrMissingStart
	ErrMissingCancel
	ErrMissingSubmit
	ErrMissingValue
	ErrDuplicatedStart
	ErrDuplicatedCancel
	ErrDuplicatedSubmit
	ErrDuplicatedValue
	ErrDuplicatedProgress
	ErrMissingValueMeasured
	ErrMissingDisplayString
	ErrMultipleMeasured
	ErrOutOfMemory
)

var parseErrorNames = map[ParseErrorKind]string{
	ErrInvalidMemoryOperand: "invalid memory operand",
	ErrInvalidConstOperand:  "invalid constant operand",
	ErrInvalidFpOperand:     "invalid floating point operand",
	ErrInvalidOperator:      "invalid operator",
	ErrInvalidRequiredHits:  "invalid required hits",
	ErrInvalidConditionType: "invalid condition type",
	ErrInvalidValueFlag:     "invalid value flag",
	ErrInvalidLboardField:   "invalid leaderboard field",
	ErrInvalidComparison:    "invalid comparison",
	ErrMissingStart:         "missing STA field",
	ErrMissingCancel:        "missing CAN field",
	ErrMissingSubmit:        "missing SUB field",
	ErrMissingValue:         "missing VAL field",
	ErrDuplicatedStart:      "duplicated STA field",
	ErrDuplicatedCancel:     "duplicated CAN field",
	ErrDuplicatedSubmit:     "duplicated SUB field",
	ErrDuplicatedValue:      "duplicated VAL field",
	ErrDuplicatedProgress:   "duplicated PRO field",
	ErrMissingValueMeasured: "value has no Measured condition",
	ErrMissingDisplayString: "missing default display string",
	ErrMultipleMeasured:     "multiple Measured conditions in one set",
	ErrOutOfMemory:          "out of memory",
}

func (k ParseErrorKind) String() string {
	if s, ok := parseErrorNames[k]; ok {
		return s
	}
	return "unknown parse error"
}

// ParseError is returned by the Compile* functions. Offset counts bytes
// from the start of the text the failing parser was reading: the whole
// source for a trigger, but only the field body, value sub-expression or
// display text for errors inside a leaderboard or rich presence script.
// Condition-set checks (Measured count, dangling modifiers, AddHits
// targets), a value with no Measured condition, leaderboard field errors,
// and rich presence directive and clause errors carry offset 0.
type ParseError struct {
	Kind   ParseErrorKind
	Offset int
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
}

func newParseError(kind ParseErrorKind, offset int, detail string) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Detail: detail}
}
