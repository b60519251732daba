// client_requests.go - server response parsing (spec.md §6, §7). Every
// response carries {"Success": bool, "Error"?: string, ...}; on transport
// or parse failure we keep a short, human-readable snippet instead of the
// raw error, matching spec.md §7's "single-line human-readable error
// message" rule.

package rcheevos

import (
	"encoding/json"
	"strings"
)

const responseSnippetLimit = 200

// ServerResponse is the parsed result of one server call: either
// Success=true with the response body decoded into Raw, or Success=false
// with a human-readable ErrorMessage explaining why.
type ServerResponse struct {
	Success      bool
	ErrorMessage string
	Raw          map[string]any
}

type rawEnvelope struct {
	Success bool   `json:"Success"`
	Error   string `json:"Error"`
}

// ParseServerResponse decodes body (as delivered by a ServerCallFunc
// continuation) into a ServerResponse. An HTTP status outside 200-299, a
// JSON parse failure, or an explicit Success=false all produce
// Success=false, with ErrorMessage set to the server's Error text or, when
// there is none, a single-line snippet of the body.
func ParseServerResponse(body string, httpStatus int) ServerResponse {
	if httpStatus < 200 || httpStatus >= 300 {
		return ServerResponse{Success: false, ErrorMessage: snippet(body)}
	}

	var env rawEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return ServerResponse{Success: false, ErrorMessage: snippet(body)}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = snippet(body)
		}
		return ServerResponse{Success: false, ErrorMessage: msg}
	}

	var raw map[string]any
	_ = json.Unmarshal([]byte(body), &raw)
	return ServerResponse{Success: true, Raw: raw}
}

// IsAlreadyUnlockedError reclassifies the server's "user already has this
// achievement" response as success, per spec.md §7's user-visible
// behavior note.
func IsAlreadyUnlockedError(resp ServerResponse) bool {
	if resp.Success {
		return false
	}
	lower := strings.ToLower(resp.ErrorMessage)
	return strings.Contains(lower, "already has this achievement") ||
		strings.Contains(lower, "already unlocked")
}

func snippet(body string) string {
	if i := strings.IndexAny(body, "\r\n"); i >= 0 {
		body = body[:i]
	}
	if len(body) <= responseSnippetLimit {
		return body
	}
	return body[:responseSnippetLimit]
}
