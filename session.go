// session.go - user login state machine and unlock tracking layered over
// Runtime and Client (spec.md §3b, supplemented from
// original_source/src/rcheevos/rc_runtime2.c). rc_runtime2.c wraps the
// evaluation core with exactly this: a login state enum guarded by the
// same mutex as the rest of the session, a hardcore flag defaulted on,
// and fire-and-forget server calls whose callbacks reacquire the mutex
// before touching state.

package rcheevos

import "sync"

// UserState is the login lifecycle of a Session.
type UserState uint8

const (
	UserStateNone UserState = iota
	UserStateLoginRequested
	UserStateLoggedIn
)

// LoginCallback receives the outcome of StartLogin: err is nil on
// success.
type LoginCallback func(err error, session *Session)

// Session pairs a Runtime with one logged-in user's identity and unlock
// bookkeeping. Hardcore defaults to true, matching rc_runtime2_create's
// runtime->state.hardcore = 1.
type Session struct {
	mu sync.Mutex

	Runtime *Runtime
	client  *Client

	userState   UserState
	username    string
	displayName string
	hardcore    bool

	unlocked map[uint32]bool

	serverCall ServerCallFunc
	log        *Log
}

// NewSession builds a Session around an empty Runtime. serverCall may be
// nil if the host never intends to talk to a server (offline play).
func NewSession(serverCall ServerCallFunc, log *Log) *Session {
	if log == nil {
		log = NewDiscardLog()
	}
	return &Session{
		Runtime:    NewRuntime(log),
		hardcore:   true,
		unlocked:   make(map[uint32]bool),
		serverCall: serverCall,
		log:        log,
	}
}

// UserState reports the current login state.
func (s *Session) UserState() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userState
}

// Hardcore reports whether the session is in hardcore mode.
func (s *Session) Hardcore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hardcore
}

// SetHardcore toggles hardcore/softcore mode. Per convention this should
// only be called while no achievements have unlocked this session, but
// the session itself does not enforce that — it's a host policy.
func (s *Session) SetHardcore(hardcore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hardcore = hardcore
}

// StartLogin begins a login attempt using a pre-existing API token
// (equivalent to rc_runtime2_start_login_with_token). The server call is
// dispatched through the session's ServerCallFunc; callback fires once
// the host delivers the response.
func (s *Session) StartLogin(username, apiToken string, callback LoginCallback) {
	if username == "" {
		callback(newSessionError("username is required"), s)
		return
	}
	if apiToken == "" {
		callback(newSessionError("api token is required"), s)
		return
	}

	s.mu.Lock()
	if s.userState == UserStateLoginRequested {
		s.mu.Unlock()
		callback(newSessionError("login already in progress"), s)
		return
	}
	s.userState = UserStateLoginRequested
	s.mu.Unlock()

	client := NewClient(username, apiToken)
	req := client.request("login2", nil)

	if s.serverCall == nil {
		s.mu.Lock()
		s.userState = UserStateNone
		s.mu.Unlock()
		callback(newSessionError("no server call configured"), s)
		return
	}

	s.serverCall(req, func(body string, httpStatus int, _ any) {
		resp := ParseServerResponse(body, httpStatus)

		s.mu.Lock()
		defer s.mu.Unlock()

		if !resp.Success {
			s.userState = UserStateNone
			s.log.Errorf(nil, "login failed", "error", resp.ErrorMessage)
			callback(newSessionError(resp.ErrorMessage), s)
			return
		}

		s.username = username
		s.displayName = username
		s.client = client
		s.userState = UserStateLoggedIn
		s.log.Infof("login succeeded", "username", username)
		callback(nil, s)
	}, nil)
}

// Username returns the logged-in username, or "" if not logged in.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userState != UserStateLoggedIn {
		return ""
	}
	return s.username
}

// AwardAchievement submits an unlock request for achievementID if it has
// not already been submitted this session. A response reclassified as
// "already unlocked" is treated identically to a fresh success.
func (s *Session) AwardAchievement(achievementID uint32, callback func(err error)) {
	s.mu.Lock()
	if s.unlocked[achievementID] {
		s.mu.Unlock()
		callback(nil)
		return
	}
	if s.userState != UserStateLoggedIn || s.client == nil || s.serverCall == nil {
		s.mu.Unlock()
		callback(newSessionError("not logged in"))
		return
	}
	client := s.client
	hardcore := s.hardcore
	s.mu.Unlock()

	req := client.AwardAchievementRequest(achievementID, hardcore)
	s.serverCall(req, func(body string, httpStatus int, _ any) {
		resp := ParseServerResponse(body, httpStatus)

		s.mu.Lock()
		defer s.mu.Unlock()

		if resp.Success || IsAlreadyUnlockedError(resp) {
			s.unlocked[achievementID] = true
			callback(nil)
			return
		}
		s.log.Warnf("award achievement failed", "id", achievementID, "error", resp.ErrorMessage)
		callback(newSessionError(resp.ErrorMessage))
	}, nil)
}

type sessionError struct{ msg string }

func (e *sessionError) Error() string { return e.msg }

func newSessionError(msg string) error { return &sessionError{msg: msg} }
