// parser.go - the shared lexer/builder core of C3: operand, condition and
// condset parsing. Two-pass size-then-build is unnecessary in a Go
// implementation backed by ordinary growable slices (Design Notes: "An
// implementation may... abandon [the arena] in favour of ordinary owning
// containers"); what's kept from assembler/ie32asm.go is its scanning
// style (consume-and-classify over a byte cursor) and debug_conditions.go's
// operator-candidate-scan approach to tokenizing comparisons.

package rcheevos

import (
	"strconv"
	"strings"
)

// parser is the mutable cursor over one source text. A fresh parser is
// used per Compile* call; the resulting tree references only the shared
// Registry, never the parser itself, so it outlives this struct.
type parser struct {
	src string
	pos int
	reg *Registry
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *parser) advance() byte {
	c := p.peek()
	p.pos++
	return c
}

func (p *parser) errorf(kind ParseErrorKind, detail string) error {
	return newParseError(kind, p.pos, detail)
}

var flagLetters = map[byte]ConditionType{
	'P': PauseIf,
	'R': ResetIf,
	'Q': MeasuredIf,
	'T': Trigger,
	'M': Measured,
	'A': AddSource,
	'B': SubSource,
	'I': AddAddress,
	'K': Remember,
	'C': AddHits,
	'D': SubHits,
	'Z': ResetNextIf,
	'N': AndNext,
	'O': OrNext,
}

// tryParseFlag consumes a "X:" condition-type prefix if present.
func (p *parser) tryParseFlag() (ConditionType, bool) {
	if p.eof() {
		return Standard, false
	}
	c := p.peek()
	t, known := flagLetters[c]
	if !known {
		return Standard, false
	}
	if p.peekAt(1) != ':' {
		return Standard, false
	}
	p.pos += 2
	return t, true
}

var comparisonOperators = []struct {
	text string
	op   Operator
}{
	{"==", OpEqual},
	{"!=", OpNotEqual},
	{"<=", OpLessThanOrEqual},
	{">=", OpGreaterThanOrEqual},
	{"=", OpEqual},
	{"<", OpLessThan},
	{">", OpGreaterThan},
}

var arithmeticOperators = []struct {
	text string
	op   Operator
}{
	{"*", OpMultiply},
	{"/", OpDivide},
	{"&", OpAnd},
	{"^", OpXor},
	{"%", OpModulo},
	{"+", OpAdd},
	{"-", OpSubtract},
}

// tryParseOperator consumes a comparison or arithmetic operator token if
// the cursor is positioned on one.
func (p *parser) tryParseOperator() (Operator, bool) {
	rest := p.src[p.pos:]
	for _, c := range comparisonOperators {
		if strings.HasPrefix(rest, c.text) {
			p.pos += len(c.text)
			return c.op, true
		}
	}
	for _, c := range arithmeticOperators {
		if strings.HasPrefix(rest, c.text) {
			p.pos += len(c.text)
			return c.op, true
		}
	}
	return OpNone, false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) readHexDigits() string {
	start := p.pos
	for isHexDigit(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) readDecimalDigits() string {
	start := p.pos
	for isDigit(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

var sizeTypeLetters = map[byte]MemSize{
	'H': SizeU8,
	'W': SizeU24LE,
	'X': SizeU32LE,
	'M': SizeBit0,
	'N': SizeBit1,
	'O': SizeBit2,
	'P': SizeBit3,
	'Q': SizeBit4,
	'R': SizeBit5,
	'S': SizeBit6,
	'T': SizeBit7,
	'L': SizeLowNibble,
	'U': SizeHighNibble,
	'K': SizeBitCount,
	'I': SizeU16BE,
	'J': SizeU24BE,
	'G': SizeU32BE,
}

var floatSizeLetters = map[byte]MemSize{
	'F': SizeFloat32LE,
	'B': SizeFloat32BE,
	'M': SizeMBF32,
	'L': SizeMBF32LE,
	'D': SizeDouble32LE,
	'E': SizeDouble32BE,
}

// parseOperand parses a single operand token per spec.md §4.2's grammar.
func (p *parser) parseOperand() (Operand, error) {
	start := p.pos

	wrapBCD := false
	wrapInvert := false
	if p.peek() == 'b' && p.peekAt(1) != 0 && p.peekAt(1) != '_' {
		p.pos++
		wrapBCD = true
	} else if p.peek() == '~' {
		p.pos++
		wrapInvert = true
	}

	memKind := OperandAddress
	if p.peek() == 'd' && p.looksLikeSizeOrValueAhead(1) {
		p.pos++
		memKind = OperandDelta
	} else if p.peek() == 'p' && p.looksLikeSizeOrValueAhead(1) {
		p.pos++
		memKind = OperandPrior
	}

	if strings.HasPrefix(p.src[p.pos:], "{recall}") {
		p.pos += len("{recall}")
		op := Operand{Kind: OperandRecall}
		return p.wrapOperand(op, wrapBCD, wrapInvert), nil
	}

	base, err := p.parseBaseOperand(memKind, start)
	if err != nil {
		return Operand{}, err
	}
	return p.wrapOperand(base, wrapBCD, wrapInvert), nil
}

// looksLikeSizeOrValueAhead is a one-token lookahead used to decide
// whether a leading 'd'/'p' byte is the Delta/Prior modifier prefix or the
// start of an unrelated token (there are none in this grammar, but the
// check keeps parseOperand from eating a stray 'd'/'p' at EOF).
func (p *parser) looksLikeSizeOrValueAhead(offset int) bool {
	return p.peekAt(offset) != 0
}

func (p *parser) wrapOperand(base Operand, wrapBCD, wrapInvert bool) Operand {
	if wrapInvert {
		inner := base
		base = Operand{Kind: OperandInverted, View: inner.View, Inner: &inner}
	}
	if wrapBCD {
		inner := base
		base = Operand{Kind: OperandBCD, View: inner.View, Inner: &inner}
	}
	return base
}

func (p *parser) parseBaseOperand(memKind OperandKind, start int) (Operand, error) {
	switch {
	case strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X"):
		p.pos += 2
		size := SizeU16LE
		if letter := p.peek(); letter >= 'A' && letter <= 'Z' {
			if s, ok := sizeTypeLetters[letter]; ok {
				size = s
				p.pos++
			}
		}
		hex := p.readHexDigits()
		if hex == "" {
			return Operand{}, p.errorf(ErrInvalidMemoryOperand, "expected hex address")
		}
		addr, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Operand{}, p.errorf(ErrInvalidMemoryOperand, "bad hex address")
		}
		ref := p.reg.Intern(uint32(addr), size.shared().ByteWidth())
		return Operand{Kind: memKind, Ref: ref, View: size}, nil

	case p.peek() == 'f' && isFloatSizeAhead(p):
		p.pos++
		letter := p.advance()
		size := floatSizeLetters[letter]
		hex := p.readHexDigits()
		if hex == "" {
			return Operand{}, p.errorf(ErrInvalidMemoryOperand, "expected hex address")
		}
		addr, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Operand{}, p.errorf(ErrInvalidMemoryOperand, "bad hex address")
		}
		ref := p.reg.Intern(uint32(addr), size.ByteWidth())
		return Operand{Kind: memKind, Ref: ref, View: size}, nil

	case p.peek() == 'f':
		p.pos++
		return p.parseFloatConst(start)

	case p.peek() == 'h' || p.peek() == 'H':
		p.pos++
		hex := p.readHexDigits()
		if hex == "" {
			return Operand{}, p.errorf(ErrInvalidConstOperand, "expected hex constant")
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Operand{}, p.errorf(ErrInvalidConstOperand, "bad hex constant")
		}
		return Operand{Kind: OperandConstInt, ConstInt: uint32(v)}, nil

	case p.peek() == 'v' || p.peek() == 'V':
		p.pos++
		return p.parseSignedIntConst()

	case isDigit(p.peek()):
		dec := p.readDecimalDigits()
		v, err := strconv.ParseUint(dec, 10, 32)
		if err != nil {
			return Operand{}, p.errorf(ErrInvalidConstOperand, "bad decimal constant")
		}
		return Operand{Kind: OperandConstInt, ConstInt: uint32(v)}, nil

	default:
		return Operand{}, p.errorf(ErrInvalidMemoryOperand, "unrecognized operand")
	}
}

// isFloatSizeAhead reports whether the byte after 'f' names a known
// memory float size (disambiguating "fF0x1234" memory reads from "f3.14"
// float constants, which never start with a letter).
func isFloatSizeAhead(p *parser) bool {
	letter := p.peekAt(1)
	_, ok := floatSizeLetters[letter]
	return ok
}

func (p *parser) parseFloatConst(start int) (Operand, error) {
	begin := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	for isDigit(p.peek()) || p.peek() == '.' {
		p.pos++
	}
	text := p.src[begin:p.pos]
	if text == "" {
		return Operand{}, p.errorf(ErrInvalidFpOperand, "expected floating point constant")
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Operand{}, p.errorf(ErrInvalidFpOperand, "bad floating point constant")
	}
	return Operand{Kind: OperandConstFloat, ConstFloat: f}, nil
}

func (p *parser) parseSignedIntConst() (Operand, error) {
	begin := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	dec := p.readDecimalDigits()
	if dec == "" {
		return Operand{}, p.errorf(ErrInvalidConstOperand, "expected signed integer constant")
	}
	text := p.src[begin:p.pos]
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Operand{}, p.errorf(ErrInvalidConstOperand, "bad signed integer constant")
	}
	return Operand{Kind: OperandConstInt, ConstInt: uint32(int32(n))}, nil
}

// parseHitTarget consumes an optional ".N." or "(N)" hit-target suffix.
func (p *parser) parseHitTarget() (uint32, error) {
	switch p.peek() {
	case '.':
		p.pos++
		dec := p.readDecimalDigits()
		if dec == "" {
			return 0, p.errorf(ErrInvalidRequiredHits, "expected hit count")
		}
		if p.peek() != '.' {
			return 0, p.errorf(ErrInvalidRequiredHits, "expected closing '.'")
		}
		p.pos++
		n, _ := strconv.ParseUint(dec, 10, 32)
		return uint32(n), nil
	case '(':
		p.pos++
		dec := p.readDecimalDigits()
		if dec == "" {
			return 0, p.errorf(ErrInvalidRequiredHits, "expected hit count")
		}
		if p.peek() != ')' {
			return 0, p.errorf(ErrInvalidRequiredHits, "expected closing ')'")
		}
		p.pos++
		n, _ := strconv.ParseUint(dec, 10, 32)
		return uint32(n), nil
	default:
		return 0, nil
	}
}

// parseCondition parses "[FLAG:] operand OPER operand [.N.|(N)]" or the
// modifier shorthand "[FLAG:] operand".
func (p *parser) parseCondition() (*Condition, error) {
	condType, _ := p.tryParseFlag()

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op, hasOp := p.tryParseOperator()
	right := Operand{Kind: OperandConstInt, ConstInt: 0}
	if hasOp {
		right, err = p.parseOperand()
		if err != nil {
			return nil, err
		}
	}

	hits, err := p.parseHitTarget()
	if err != nil {
		return nil, err
	}

	return &Condition{Left: left, Operator: op, Right: right, Type: condType, RequiredHits: hits}, nil
}

// parseCondSet parses an underscore-separated chain of conditions.
func (p *parser) parseCondSet() (*CondSet, error) {
	var conds []*Condition
	for {
		c, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
		if p.peek() == '_' {
			p.pos++
			continue
		}
		break
	}
	if err := validateCondSet(conds); err != nil {
		return nil, err
	}
	return &CondSet{Conditions: conds}, nil
}

// validateCondSet enforces the parse-time invariants of spec.md §3/§4.3/§9:
// at most one Measured condition, every condset ends on a terminal, and
// (per spec.md §9's Open Question decision, recorded in DESIGN.md) an
// AddHits/SubHits modifier must be followed by a terminal with a non-zero
// hit target.
func validateCondSet(conds []*Condition) error {
	if len(conds) == 0 {
		return newParseError(ErrInvalidConditionType, 0, "empty condition set")
	}
	if !conds[len(conds)-1].Type.IsTerminal() {
		return newParseError(ErrInvalidValueFlag, 0, "condition set must end on a terminal condition")
	}
	measuredCount := 0
	for i, c := range conds {
		if c.Type == Measured {
			measuredCount++
		}
		if c.Type == AddHits || c.Type == SubHits {
			target := nextTerminal(conds, i)
			if target == nil || target.RequiredHits == 0 {
				return newParseError(ErrInvalidConditionType, 0, "AddHits/SubHits must be followed by a condition with a hit target")
			}
		}
	}
	if measuredCount > 1 {
		return newParseError(ErrMultipleMeasured, 0, "more than one Measured condition in a condition set")
	}
	return nil
}

func nextTerminal(conds []*Condition, from int) *Condition {
	for i := from + 1; i < len(conds); i++ {
		if conds[i].Type.IsTerminal() {
			return conds[i]
		}
	}
	return nil
}
