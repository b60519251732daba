// parser_richpresence.go - CompileRichPresence: the newline-oriented
// "Lookup:/Format:/Display:" script grammar of spec.md §4.7.

package rcheevos

import (
	"strconv"
	"strings"
)

// CompileRichPresence parses a full rich presence script. Comment lines
// and trailing "//" comments (unless escaped as "\/") are stripped before
// any other processing, matching the convention established by the
// RetroAchievements content pipeline.
func CompileRichPresence(source string, registry *Registry) (*RichPresence, error) {
	rp := &RichPresence{
		Lookups: make(map[string]*Lookup),
		Formats: make(map[string]Format),
	}

	lines := strings.Split(source, "\n")
	i := 0
	for i < len(lines) {
		line := stripRPComment(lines[i])
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case strings.HasPrefix(trimmed, "Lookup:"):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "Lookup:"))
			lookup := &Lookup{Name: name, Entries: make(map[uint32]string)}
			i++
			for i < len(lines) {
				entryLine := stripRPComment(lines[i])
				entryTrimmed := strings.TrimSpace(entryLine)
				if entryTrimmed == "" {
					i++
					continue
				}
				if isRPSectionHeader(entryTrimmed) {
					break
				}
				key, val, ok := strings.Cut(entryTrimmed, "=")
				if !ok {
					return nil, newParseError(ErrInvalidLboardField, 0, "malformed Lookup entry: "+entryTrimmed)
				}
				key = strings.TrimSpace(key)
				val = strings.TrimSpace(val)
				if key == "*" {
					lookup.Default, lookup.HasDefault = val, true
				} else {
					n, err := strconv.ParseUint(key, 16, 32)
					if err != nil {
						return nil, newParseError(ErrInvalidLboardField, 0, "bad Lookup key: "+key)
					}
					lookup.Entries[uint32(n)] = val
				}
				i++
			}
			rp.Lookups[name] = lookup

		case strings.HasPrefix(trimmed, "Format:"):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "Format:"))
			i++
			if i >= len(lines) {
				return nil, newParseError(ErrInvalidLboardField, 0, "Format: missing FormatType= line")
			}
			ftLine := strings.TrimSpace(stripRPComment(lines[i]))
			if !strings.HasPrefix(ftLine, "FormatType=") {
				return nil, newParseError(ErrInvalidLboardField, 0, "expected FormatType= after Format:")
			}
			ftName := strings.TrimSpace(strings.TrimPrefix(ftLine, "FormatType="))
			f, ok := formatNames[ftName]
			if !ok {
				return nil, newParseError(ErrInvalidLboardField, 0, "unknown FormatType: "+ftName)
			}
			rp.Formats[name] = f
			i++

		case strings.HasPrefix(trimmed, "Display:"):
			i++
			var clauseLines []string
			for i < len(lines) {
				dispLine := stripRPComment(lines[i])
				dispTrimmed := strings.TrimSpace(dispLine)
				if dispTrimmed == "" {
					i++
					continue
				}
				if isRPSectionHeader(dispTrimmed) {
					break
				}
				clauseLines = append(clauseLines, dispTrimmed)
				i++
			}
			clauses, err := parseDisplayClauses(clauseLines, rp, registry)
			if err != nil {
				return nil, err
			}
			rp.Displays = clauses

		default:
			return nil, newParseError(ErrInvalidLboardField, 0, "unrecognized rich presence directive: "+trimmed)
		}
	}

	if len(rp.Displays) == 0 {
		return nil, newParseError(ErrMissingDisplayString, 0, "rich presence script has no Display: section")
	}

	return rp, nil
}

var formatNames = map[string]Format{
	"VALUE":             FormatValue,
	"SCORE":             FormatScore,
	"POINTS":            FormatScore,
	"SECS":              FormatSeconds,
	"TIME":              FormatCentiseconds,
	"FRAMES":            FormatFrames,
	"MINUTES":           FormatMinutes,
	"SECS_AS_MINS":      FormatSecondsAsMinutes,
	"FLOAT1":            FormatFloat1,
	"FLOAT2":            FormatFloat2,
	"FLOAT3":            FormatFloat3,
	"FLOAT4":            FormatFloat4,
	"FLOAT5":            FormatFloat5,
	"FLOAT6":            FormatFloat6,
	"FIXED1":            FormatFixed1,
	"FIXED2":            FormatFixed2,
	"FIXED3":            FormatFixed3,
	"TENS":              FormatTens,
	"HUNDREDS":          FormatHundreds,
	"THOUSANDS":         FormatThousands,
	"UNSIGNED":          FormatUnsignedValue,
	"OTHER":             FormatOther,
}

func isRPSectionHeader(line string) bool {
	return strings.HasPrefix(line, "Lookup:") || strings.HasPrefix(line, "Format:") || strings.HasPrefix(line, "Display:")
}

// stripRPComment removes a trailing "// ..." comment, honouring "\/" as an
// escaped literal slash.
func stripRPComment(line string) string {
	var sb strings.Builder
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == '/' {
			sb.WriteRune('/')
			i++
			continue
		}
		if runes[i] == '/' && i+1 < len(runes) && runes[i+1] == '/' {
			break
		}
		sb.WriteRune(runes[i])
	}
	return sb.String()
}

// parseDisplayClauses turns each "?TRIGGER?TEXT" or bare "TEXT" (default)
// line into a DisplayClause, in order. A line only opens a conditional
// clause when it starts with "?"; the trigger source runs to the next "?"
// and the display text is everything after it.
func parseDisplayClauses(lines []string, rp *RichPresence, registry *Registry) ([]DisplayClause, error) {
	var clauses []DisplayClause
	for _, line := range lines {
		if !strings.HasPrefix(line, "?") {
			parts, err := parseDisplayText(line, rp, registry)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, DisplayClause{Trigger: nil, Parts: parts})
			continue
		}
		rest := line[1:]
		idx := strings.IndexByte(rest, '?')
		if idx < 0 {
			return nil, newParseError(ErrInvalidLboardField, 0, "conditional display clause missing closing '?'")
		}
		triggerSrc := rest[:idx]
		textSrc := rest[idx+1:]
		trig, err := CompileTrigger(triggerSrc, registry)
		if err != nil {
			return nil, err
		}
		parts, err := parseDisplayText(textSrc, rp, registry)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, DisplayClause{Trigger: trig, Parts: parts})
	}
	return clauses, nil
}

// parseDisplayText splits a display string into literal and "@NAME(expr)"
// macro parts.
func parseDisplayText(text string, rp *RichPresence, registry *Registry) ([]DisplayPart, error) {
	var parts []DisplayPart
	i := 0
	for i < len(text) {
		at := strings.IndexByte(text[i:], '@')
		if at < 0 {
			parts = append(parts, DisplayPart{Literal: text[i:]})
			break
		}
		at += i
		if at > i {
			parts = append(parts, DisplayPart{Literal: text[i:at]})
		}
		open := strings.IndexByte(text[at:], '(')
		if open < 0 {
			return nil, newParseError(ErrInvalidLboardField, at, "expected '(' after macro name")
		}
		open += at
		name := text[at+1 : open]
		close := strings.IndexByte(text[open:], ')')
		if close < 0 {
			return nil, newParseError(ErrInvalidLboardField, open, "unterminated macro expression")
		}
		close += open
		expr := text[open+1 : close]

		value, err := CompileValue(expr, registry)
		if err != nil {
			return nil, err
		}
		rp.Variables = append(rp.Variables, value)

		part := DisplayPart{IsMacro: true, Value: *value}
		if lookup, ok := rp.Lookups[name]; ok {
			part.LookupRef = lookup
		} else if f, ok := rp.Formats[name]; ok {
			fcopy := f
			part.FormatRef = &fcopy
		} else {
			return nil, newParseError(ErrInvalidLboardField, at, "unknown macro reference: "+name)
		}
		parts = append(parts, part)

		i = close + 1
	}
	return parts, nil
}
