package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const WizardIDKey = "wizardID"

func HasWizard(kind types.WizardKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		wizardID := GetClient(c).WizardID(kind)
		if wizardID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no active " + string(kind) + " wizard"})
			c.Abort()
			return
		}
		c.Set(WizardIDKey, wizardID)
		c.Next()
	}
}
