package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
)

// RefreshSession starts a background validation when the stored token was
// never confirmed or its last confirmation is older than maxAge. The request
// is never held up by it.
func RefreshSession(validator session.Validator, timeout time.Duration, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := GetClient(c).Session
		if store.NeedsValidation(maxAge) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				_ = session.Refresh(ctx, store, validator, maxAge)
			}()
		}
		c.Next()
	}
}
