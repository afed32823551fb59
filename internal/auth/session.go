package auth

import "sync"

// Session holds the bearer token for the current user and notifies
// subscribers when the authenticated state flips. It is a pure value
// holder: persistence and retries live elsewhere.
type Session struct {
	mu    sync.Mutex
	token string
	subs  []func(authenticated bool)
}

// NewSession creates an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Login stores the token and marks the session authenticated.
func (s *Session) Login(token string) {
	s.mu.Lock()
	was := s.token != ""
	s.token = token
	subs := s.notifySet(!was && token != "")
	s.mu.Unlock()

	notify(subs, true)
}

// Logout clears the token unconditionally. Safe to call when already
// logged out.
func (s *Session) Logout() {
	s.mu.Lock()
	was := s.token != ""
	s.token = ""
	subs := s.notifySet(was)
	s.mu.Unlock()

	notify(subs, false)
}

// Invalidate consumes a session-invalid signal from the gateway.
// Idempotent: a session that is already logged out ignores it.
func (s *Session) Invalidate() {
	s.Logout()
}

// Token returns the stored token and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Subscribe registers fn to be called on every authenticated-state
// transition. Subscriptions cannot be removed; they live as long as the
// session does.
func (s *Session) Subscribe(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// notifySet returns the subscribers to notify, or nil when the
// authenticated state did not change. Must be called with mu held.
func (s *Session) notifySet(changed bool) []func(bool) {
	if !changed {
		return nil
	}
	subs := make([]func(bool), len(s.subs))
	copy(subs, s.subs)
	return subs
}

// notify runs outside the lock so subscribers may call back into the session.
func notify(subs []func(bool), authenticated bool) {
	for _, fn := range subs {
		fn(authenticated)
	}
}
