package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RequirePayload() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload missing"})
			c.Abort()
			return
		}
		c.Next()
	}
}
