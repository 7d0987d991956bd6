package handlers

import (
	"net/http"

	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/eligibility"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const (
	minCodeLength       = 6
	defaultLoginLanding = "/dashboard"
)

type phoneLoginRequest struct {
	Phone   string            `json:"phone" binding:"required"`
	Country types.CountryCode `json:"country"`
}

type codeLoginRequest struct {
	Phone   string            `json:"phone" binding:"required"`
	Country types.CountryCode `json:"country"`
	Code    string            `json:"code" binding:"required"`
}

func (h *HttpEndpoints) AddLoginAPI(rg *gin.RouterGroup) {
	g := rg.Group("/login")
	{
		g.POST("/phone", mw.RequirePayload(), h.loginSendCode)
		g.POST("/code", mw.RequirePayload(), h.loginWithCode)
	}
	rg.POST("/logout", h.logout)
	rg.GET("/session", h.getSession)
}

func (h *HttpEndpoints) loginSendCode(c *gin.Context) {
	var req phoneLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone, err := eligibility.MakePhone(req.Phone, eligibility.LoginCountry(req.Country))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bridge.SendSignInRequest(c.Request.Context(), phone); err != nil {
		logger.Warning.Printf("sign-in request failed: %v", err)
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": signInCodePath})
}

func (h *HttpEndpoints) loginWithCode(c *gin.Context) {
	var req codeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := SanitizeCode(req.Code)
	if len(code) < minCodeLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code too short"})
		return
	}
	phone, err := eligibility.MakePhone(req.Phone, eligibility.LoginCountry(req.Country))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.bridge.SignInWithCode(c.Request.Context(), phone, code)
	if err != nil {
		logger.Debug.Printf("sign in with code failed: %v", err)
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	client := mw.GetClient(c)
	client.Session.Login(types.SessionData{
		Token:         user.SessionToken,
		Name:          user.FirstName,
		Consented:     user.Consented,
		UserDataGroup: user.DataGroups,
	})
	client.Session.MarkValidated(user.SessionToken)

	location := client.TakeFrom()
	if location == "" {
		location = defaultLoginLanding
	}
	data, _ := client.Session.Snapshot()
	c.JSON(http.StatusOK, gin.H{"location": location, "session": data})
}

func (h *HttpEndpoints) logout(c *gin.Context) {
	mw.GetClient(c).Session.Logout()
	c.JSON(http.StatusOK, gin.H{"location": "/"})
}

func (h *HttpEndpoints) getSession(c *gin.Context) {
	data, _ := mw.GetClient(c).Session.Snapshot()
	c.JSON(http.StatusOK, gin.H{"session": data, "authenticated": data.IsAuthenticated()})
}
