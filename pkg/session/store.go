package session

import (
	"sync"
	"time"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

// Store owns the SessionData of one client. Login and Logout are the only
// mutations; each bumps the generation so late async results can detect
// that they are stale.
type Store struct {
	mu         sync.Mutex
	data       types.SessionData
	generation uint64

	validatedToken  string
	validatedAt     time.Time
	validatingToken string
}

func NewStore() *Store {
	return &Store{}
}

func copyData(data types.SessionData) types.SessionData {
	data.UserDataGroup = append([]types.UserDataGroup(nil), data.UserDataGroup...)
	return data
}

// Snapshot returns a copy of the session and the generation it belongs to.
func (s *Store) Snapshot() (types.SessionData, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyData(s.data), s.generation
}

func (s *Store) Login(data types.SessionData) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginLocked(data)
}

func (s *Store) Logout() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutLocked()
}

func (s *Store) loginLocked(data types.SessionData) uint64 {
	if data.Token == "" {
		return s.logoutLocked()
	}
	if data.Token != s.data.Token {
		s.validatedToken = ""
	}
	s.data = copyData(data)
	s.generation++
	return s.generation
}

func (s *Store) logoutLocked() uint64 {
	s.data = types.SessionData{}
	s.validatedToken = ""
	s.validatingToken = ""
	s.generation++
	return s.generation
}

func (s *Store) markValidatedLocked(token string, now time.Time) {
	s.validatedToken = token
	s.validatedAt = now
}

// needsValidationLocked is true for a token that was never confirmed or
// whose last confirmation is at least maxAge old, unless a validation for it
// is already in flight.
func (s *Store) needsValidationLocked(maxAge time.Duration, now time.Time) bool {
	token := s.data.Token
	if token == "" || token == s.validatingToken {
		return false
	}
	return token != s.validatedToken || now.Sub(s.validatedAt) >= maxAge
}

// BeginValidation claims the current token for a background validation.
// ok is false when there is no token, it was confirmed less than maxAge
// ago, or a validation for it is in flight.
func (s *Store) BeginValidation(maxAge time.Duration) (token string, generation uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.needsValidationLocked(maxAge, time.Now()) {
		return "", 0, false
	}
	s.validatingToken = s.data.Token
	return s.validatingToken, s.generation, true
}

// MarkValidated records a token as verified without touching the session
// data. Used right after a login that came straight from the backend.
func (s *Store) MarkValidated(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Token == token {
		s.markValidatedLocked(token, time.Now())
	}
}

// NeedsValidation reports whether BeginValidation would claim the token.
func (s *Store) NeedsValidation(maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsValidationLocked(maxAge, time.Now())
}
