package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/gate"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
)

var gatedScreens = map[string]string{
	"/contactinfo":  "ContactInfo",
	"/resultupload": "ResultUpload",
	"/appointment":  "Appointment",
	"/result":       "Result",
	"/consentehr":   "ConsentEHR",
	"/settings":     "Settings",
}

func (h *HttpEndpoints) AddDashboardAPI(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/survey/:name", h.survey)
	for path, screen := range gatedScreens {
		rg.GET(path, screenHandler(screen))
	}
}

func screenHandler(screen string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"screen": screen})
	}
}

func (h *HttpEndpoints) dashboard(c *gin.Context) {
	data, _ := mw.GetClient(c).Session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"screen": gate.DashboardVariant(data.UserDataGroup),
		"name":   data.Name,
	})
}

func (h *HttpEndpoints) survey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"screen": "Survey", "survey": c.Param("name")})
}
