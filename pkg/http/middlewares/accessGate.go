package middlewares

import (
	"net/http"

	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/gate"
)

// AccessGate applies the route table to every request. Navigations are
// redirected; API calls get a JSON error carrying the same location.
func AccessGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := GetClient(c)
		data, _ := client.Session.Snapshot()

		decision := gate.Resolve(data, c.Request.URL.RequestURI())
		if decision.Action == gate.Allow {
			c.Next()
			return
		}

		logger.Debug.Printf("gate %s for %s", decision.Action, decision.From)
		client.RememberFrom(decision.From)

		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, decision.Location)
			c.Abort()
			return
		}
		status := http.StatusUnauthorized
		if decision.Action == gate.RedirectConsent {
			status = http.StatusForbidden
		}
		c.AbortWithStatusJSON(status, gin.H{"error": decision.Action.String(), "location": decision.Location})
	}
}
