// parser_trigger.go - top-level Compile entry points for achievement
// triggers and standalone memory-inspection values (C3/C7).

package rcheevos

import "strings"

// CompileTrigger parses a full achievement definition: a required condset
// followed by zero or more 'S'-separated alternate condsets (spec.md
// §3/§4.2).
func CompileTrigger(source string, registry *Registry) (*Trigger, error) {
	p := &parser{src: source, reg: registry}

	required, err := p.parseCondSet()
	if err != nil {
		return nil, err
	}

	var alternates []*CondSet
	for p.peek() == 'S' {
		p.pos++
		alt, err := p.parseCondSet()
		if err != nil {
			return nil, err
		}
		alternates = append(alternates, alt)
	}

	if !p.eof() {
		return nil, p.errorf(ErrInvalidConditionType, "unexpected trailing content")
	}

	return NewTrigger(required, alternates), nil
}

// CompileValue parses a standalone value expression: either a
// Measured-bearing condset (detected by the presence of a condition flag
// such as "M:"; one without a Measured condition is rejected) or a
// legacy '$'-separated, '_'-separated sum-of-terms expression (spec.md
// §4.5).
func CompileValue(source string, registry *Registry) (*Value, error) {
	if looksConditionDriven(source) {
		p := &parser{src: source, reg: registry}
		set, err := p.parseCondSet()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			return nil, p.errorf(ErrInvalidConditionType, "unexpected trailing content")
		}
		hasMeasured := false
		for _, c := range set.Conditions {
			if c.Type == Measured {
				hasMeasured = true
				break
			}
		}
		if !hasMeasured {
			return nil, newParseError(ErrMissingValueMeasured, 0, "condition-driven value has no Measured condition")
		}
		return &Value{CondSet: set}, nil
	}

	var subExprs [][]Term
	for _, part := range strings.Split(source, "$") {
		p := &parser{src: part, reg: registry}
		terms, err := p.parseTermList()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			return nil, p.errorf(ErrInvalidConstOperand, "unexpected trailing content in value sub-expression")
		}
		subExprs = append(subExprs, terms)
	}
	return &Value{Expression: subExprs}, nil
}

// looksConditionDriven decides between the two value grammars: a source
// containing a condition flag (a letter followed by ':', which the legacy
// grammar never uses) is parsed as a condset, not a legacy expression.
func looksConditionDriven(source string) bool {
	return strings.Contains(source, ":")
}

func (p *parser) parseTermList() ([]Term, error) {
	var terms []Term
	for {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
		if p.peek() == '_' {
			p.pos++
			continue
		}
		break
	}
	return terms, nil
}

func (p *parser) parseTerm() (Term, error) {
	operand, err := p.parseOperand()
	if err != nil {
		return Term{}, err
	}
	term := Term{Operand: operand, Multiply: 1, Divide: 1}
	switch p.peek() {
	case '*':
		p.pos++
		n, err := p.readSignedDecimal()
		if err != nil {
			return Term{}, err
		}
		term.Multiply = n
	case '/':
		p.pos++
		n, err := p.readSignedDecimal()
		if err != nil {
			return Term{}, err
		}
		term.Divide = n
	}
	return term, nil
}

func (p *parser) readSignedDecimal() (int64, error) {
	begin := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	dec := p.readDecimalDigits()
	if dec == "" {
		return 0, p.errorf(ErrInvalidConstOperand, "expected integer multiplier")
	}
	text := p.src[begin:p.pos]
	return parseSignedDecimalText(text), nil
}

func parseSignedDecimalText(text string) int64 {
	neg := false
	if len(text) > 0 && (text[0] == '-' || text[0] == '+') {
		neg = text[0] == '-'
		text = text[1:]
	}
	var n int64
	for i := 0; i < len(text); i++ {
		n = n*10 + int64(text[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}
