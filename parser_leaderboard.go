// parser_leaderboard.go - CompileLeaderboard: the "STA:...::CAN:...::SUB:
// ...::VAL:...::PRO:..." field grammar of spec.md §4.6.

package rcheevos

import "strings"

// CompileLeaderboard parses a full leaderboard definition. Fields are
// separated by "::" and each begins with a three-letter, case-insensitive
// keyword and a colon. STA/CAN/SUB are required and unique; VAL is
// required; PRO is optional.
func CompileLeaderboard(source string, registry *Registry) (*Leaderboard, error) {
	fields := strings.Split(source, "::")

	var startSrc, cancelSrc, submitSrc, valueSrc, progressSrc string
	haveStart, haveCancel, haveSubmit, haveValue, haveProgress := false, false, false, false, false

	for _, field := range fields {
		key, body, ok := splitLeaderboardField(field)
		if !ok {
			return nil, newParseError(ErrInvalidLboardField, 0, "expected STA:/CAN:/SUB:/VAL:/PRO: field")
		}
		switch key {
		case "STA":
			if haveStart {
				return nil, newParseError(ErrDuplicatedStart, 0, "")
			}
			startSrc, haveStart = body, true
		case "CAN":
			if haveCancel {
				return nil, newParseError(ErrDuplicatedCancel, 0, "")
			}
			cancelSrc, haveCancel = body, true
		case "SUB":
			if haveSubmit {
				return nil, newParseError(ErrDuplicatedSubmit, 0, "")
			}
			submitSrc, haveSubmit = body, true
		case "VAL":
			if haveValue {
				return nil, newParseError(ErrDuplicatedValue, 0, "")
			}
			valueSrc, haveValue = body, true
		case "PRO":
			if haveProgress {
				return nil, newParseError(ErrDuplicatedProgress, 0, "")
			}
			progressSrc, haveProgress = body, true
		default:
			return nil, newParseError(ErrInvalidLboardField, 0, "unknown leaderboard field: "+key)
		}
	}

	if !haveStart {
		return nil, newParseError(ErrMissingStart, 0, "")
	}
	if !haveCancel {
		return nil, newParseError(ErrMissingCancel, 0, "")
	}
	if !haveSubmit {
		return nil, newParseError(ErrMissingSubmit, 0, "")
	}
	if !haveValue {
		return nil, newParseError(ErrMissingValue, 0, "")
	}

	start, err := CompileTrigger(startSrc, registry)
	if err != nil {
		return nil, err
	}
	cancel, err := CompileTrigger(cancelSrc, registry)
	if err != nil {
		return nil, err
	}
	submit, err := CompileTrigger(submitSrc, registry)
	if err != nil {
		return nil, err
	}
	value, err := CompileValue(valueSrc, registry)
	if err != nil {
		return nil, err
	}
	var progress *Value
	if haveProgress {
		progress, err = CompileValue(progressSrc, registry)
		if err != nil {
			return nil, err
		}
	}

	return NewLeaderboard(start, cancel, submit, value, progress), nil
}

// splitLeaderboardField splits "KEY:body" into its upper-cased three
// letter key and body, case-insensitively.
func splitLeaderboardField(field string) (key, body string, ok bool) {
	idx := strings.IndexByte(field, ':')
	if idx < 3 {
		return "", "", false
	}
	return strings.ToUpper(field[:idx]), field[idx+1:], true
}
