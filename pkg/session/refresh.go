package session

import (
	"context"
	"errors"
	"time"

	"github.com/coneno/logger"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

var ErrStaleResult = errors.New("session changed while validating")

type Validator interface {
	GetUserInfo(ctx context.Context, token string) (types.LoggedInUserData, error)
}

// Refresh re-validates the stored token when it was not confirmed within
// maxAge. The outcome is applied only when no Login or Logout happened since
// the call started; a failed validation logs the client out.
func Refresh(ctx context.Context, s *Store, validator Validator, maxAge time.Duration) error {
	token, generation, ok := s.BeginValidation(maxAge)
	if !ok {
		return nil
	}

	info, err := validator.GetUserInfo(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.validatingToken == token {
		s.validatingToken = ""
	}
	if s.generation != generation {
		logger.Debug.Println("discarding stale session validation result")
		return ErrStaleResult
	}
	if err != nil {
		logger.Debug.Printf("session validation failed, logging out: %v", err)
		s.logoutLocked()
		return err
	}
	s.loginLocked(types.SessionData{
		Token:         token,
		Name:          info.FirstName,
		Consented:     info.Consented,
		UserDataGroup: info.DataGroups,
	})
	s.markValidatedLocked(token, time.Now())
	return nil
}
