// richpresence.go - display-string selector with macro substitution (C9,
// spec.md §4.7).

package rcheevos

import "strings"

// Lookup maps an integer key to a display string, with an optional
// default for unmatched keys.
type Lookup struct {
	Name    string
	Entries map[uint32]string
	Default string
	HasDefault bool
}

func (l *Lookup) render(key uint32) string {
	if s, ok := l.Entries[key]; ok {
		return s
	}
	if l.HasDefault {
		return l.Default
	}
	return ""
}

// DisplayPart is one piece of a display clause: literal text, or a macro
// reference evaluating a Value and rendering it through a lookup or a
// numeric Format.
type DisplayPart struct {
	Literal string
	IsMacro bool

	LookupRef *Lookup // nil if FormatRef is used instead
	FormatRef *Format

	Value Value
}

func (p *DisplayPart) render(peek PeekFunc, userdata any) string {
	if !p.IsMacro {
		return p.Literal
	}
	v := p.Value.Evaluate(peek, userdata)
	if p.LookupRef != nil {
		return p.LookupRef.render(v)
	}
	if p.FormatRef != nil {
		return RenderFormat(*p.FormatRef, v)
	}
	return ""
}

// DisplayClause is either conditional (trigger + parts) or the final
// unconditional default clause (Trigger == nil).
type DisplayClause struct {
	Trigger *Trigger
	Parts   []DisplayPart
}

// RichPresence is a compiled rich presence script: named lookups, an
// ordered list of display clauses (default last), and variables that get
// re-evaluated on each Evaluate call before the clauses are tested (the
// runtime calls Evaluate once every 60 frames).
type RichPresence struct {
	Lookups   map[string]*Lookup
	Formats   map[string]Format
	Displays  []DisplayClause
	Variables []*Value

	registry *Registry
	lastRendered string
}

// Evaluate re-evaluates variables and picks the first satisfied display
// clause (falling back to the default), rendering it to a string.
func (rp *RichPresence) Evaluate(peek PeekFunc, userdata any) string {
	for _, v := range rp.Variables {
		v.Evaluate(peek, userdata)
	}

	for _, clause := range rp.Displays {
		if clause.Trigger == nil {
			rp.lastRendered = rp.renderClause(clause, peek, userdata)
			return rp.lastRendered
		}
		if clause.Trigger.CurrentlyTrue(peek, userdata) {
			rp.lastRendered = rp.renderClause(clause, peek, userdata)
			return rp.lastRendered
		}
	}
	return rp.lastRendered
}

func (rp *RichPresence) renderClause(clause DisplayClause, peek PeekFunc, userdata any) string {
	var sb strings.Builder
	for i := range clause.Parts {
		sb.WriteString(clause.Parts[i].render(peek, userdata))
	}
	return sb.String()
}

// LastRendered returns the most recently rendered string without
// re-evaluating (used by the runtime's throttled refresh, spec.md §4.7).
func (rp *RichPresence) LastRendered() string { return rp.lastRendered }
