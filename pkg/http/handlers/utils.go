package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/bridge"
	"github.com/mindkind-study/enrollment-portal/pkg/gate"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
)

var ErrRegistrationFailure = errors.New("registration failed")

func SanitizeCode(code string) string {
	code = strings.ReplaceAll(code, " ", "")
	code = strings.ReplaceAll(code, "_", "")
	code = strings.ReplaceAll(code, "-", "")
	return code
}

// authErrorStatus maps backend failures onto the status of the inline
// banner shown to the participant.
func authErrorStatus(err error) int {
	switch {
	case errors.Is(err, bridge.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, bridge.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, bridge.ErrNetworkFailure), errors.Is(err, bridge.ErrNoSession):
		return http.StatusBadGateway
	}
	var statusErr *bridge.StatusError
	if errors.As(err, &statusErr) && statusErr.Status >= 400 && statusErr.Status < 500 {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// sessionExpired logs the client out and sends it back to the start.
func sessionExpired(c *gin.Context, store *session.Store) {
	store.Logout()
	c.JSON(http.StatusUnauthorized, gin.H{"location": gate.EligibilityPath})
}
