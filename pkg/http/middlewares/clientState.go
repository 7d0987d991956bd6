package middlewares

import (
	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
)

const (
	ClientKey      = "client"
	clientIDCookie = "clientID"
)

// ClientState binds the request to the server-side client state named by
// the signed cookie, issuing a new cookie for unknown browsers.
func ClientState(store sessions.Store, cookieName string, registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := store.Get(c.Request, cookieName)
		if err != nil {
			logger.Debug.Printf("discarding unreadable client cookie: %v", err)
		}

		id, _ := cookie.Values[clientIDCookie].(string)
		client := registry.Get(id)
		if client.ID != id {
			cookie.Values[clientIDCookie] = client.ID
			if err := store.Save(c.Request, c.Writer, cookie); err != nil {
				logger.Error.Printf("unable to save client cookie: %v", err)
			}
		}

		c.Set(ClientKey, client)
		c.Next()
	}
}

func GetClient(c *gin.Context) *session.Client {
	return c.MustGet(ClientKey).(*session.Client)
}
