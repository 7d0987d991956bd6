package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mindkind-study/enrollment-portal/pkg/bridge"
	"github.com/mindkind-study/enrollment-portal/pkg/consent"
	"github.com/mindkind-study/enrollment-portal/pkg/db"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

type consentSubmission struct {
	Step     int            `json:"step" binding:"required"`
	FormData map[string]any `json:"formData"`
}

func (h *HttpEndpoints) AddConsentAPI(rg *gin.RouterGroup) {
	g := rg.Group("/consent")
	{
		g.GET("", h.consentOverview)
		g.GET("/steps", h.consentEnter)
		g.POST("/steps", mw.RequirePayload(), h.consentSubmit)
	}
}

func (h *HttpEndpoints) consentOverview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"screen": "Consent", "location": consent.Path})
}

func (h *HttpEndpoints) loadOrCreateConsentWizard(client *session.Client, arm types.Arm) (types.WizardRecord, error) {
	if id := client.WizardID(types.WizardKindConsent); id != "" {
		rec, err := h.dbService.LoadWizard(h.instanceID, id)
		if err == nil && rec.ConsentModel == arm {
			return rec, nil
		}
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return rec, err
		}
	}

	rec := types.WizardRecord{
		ID:           uuid.New().String(),
		Kind:         types.WizardKindConsent,
		Step:         1,
		Furthest:     1,
		ConsentModel: arm,
		Choices:      types.NewEligibilityChoices(),
	}
	if err := h.dbService.SaveWizard(h.instanceID, rec); err != nil {
		return rec, err
	}
	client.SetWizardID(types.WizardKindConsent, rec.ID)
	return rec, nil
}

// consentArm resolves the arm of the logged in participant. It answers the
// request itself when the participant cannot take the consent flow.
func consentArm(c *gin.Context, data types.SessionData) (types.Arm, bool) {
	if data.Consented {
		c.JSON(http.StatusConflict, gin.H{"error": "already consented", "location": defaultLoginLanding})
		return "", false
	}
	arm, ok := types.ArmFromDataGroups(data.UserDataGroup)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no consent arm assigned"})
		return "", false
	}
	return arm, true
}

func consentRun(rec *types.WizardRecord, acc *consent.Accumulator) *stepflow.Run[*consent.Accumulator] {
	return &stepflow.Run[*consent.Accumulator]{
		Index:    rec.Step,
		Furthest: rec.Furthest,
		Outcome:  rec.Outcome,
		Answers:  acc,
	}
}

func consentScreen(arm types.Arm, run *stepflow.Run[*consent.Accumulator]) stepflow.View {
	view, _ := consent.Screen(arm, run.Index)
	return view
}

func (h *HttpEndpoints) consentEnter(c *gin.Context) {
	client := mw.GetClient(c)
	data, _ := client.Session.Snapshot()
	if data.Consented {
		c.Redirect(http.StatusFound, defaultLoginLanding)
		return
	}
	arm, ok := consentArm(c, data)
	if !ok {
		return
	}

	rec, err := h.loadOrCreateConsentWizard(client, arm)
	if err != nil {
		logger.Error.Printf("unexpected error when preparing consent wizard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	flow := consent.NewFlow(arm, h.analytics)
	run := consentRun(&rec, consent.NewAccumulator(c.Request.Context(), h.bridge, arm, data))
	query := c.Request.URL.Query()
	if requested := query.Get(stepflow.StepQueryParam); requested != flow.Marker(run) && flow.Seek(run, requested) {
		rec.Step = run.Index
		if err := h.dbService.SaveWizard(h.instanceID, rec); err != nil {
			logger.Error.Printf("unexpected error when saving consent wizard: %v", err)
		}
	}

	view, ok := consent.Screen(arm, run.Index)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no consent screen for this step"})
		return
	}
	_, push := flow.Enter(run, query)
	c.JSON(http.StatusOK, gin.H{"screen": view, "arm": arm, "push": push})
}

func (h *HttpEndpoints) consentSubmit(c *gin.Context) {
	var req consentSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := mw.GetClient(c)
	data, _ := client.Session.Snapshot()
	arm, ok := consentArm(c, data)
	if !ok {
		return
	}
	rec, err := h.loadOrCreateConsentWizard(client, arm)
	if err != nil {
		logger.Error.Printf("unexpected error when preparing consent wizard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	flow := consent.NewFlow(arm, h.analytics)
	acc := consent.NewAccumulator(c.Request.Context(), h.bridge, arm, data)
	run := consentRun(&rec, acc)
	if _, err := flow.Submit(run, strconv.Itoa(req.Step), req.FormData); err != nil {
		if vErr, ok := stepflow.IsValidationError(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(vErr.Kind), "step": vErr.StepID})
			return
		}
		if errors.Is(err, stepflow.ErrStepMismatch) || errors.Is(err, stepflow.ErrTerminal) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "screen": consentScreen(arm, run)})
			return
		}
		if errors.Is(err, bridge.ErrSessionExpired) {
			sessionExpired(c, client.Session)
			return
		}
		logger.Warning.Printf("unable to store consent step %d: %v", req.Step, err)
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if acc.Signed != nil {
		h.completeConsent(c, client, data, rec, *acc.Signed)
		return
	}

	rec.Step = run.Index
	rec.Furthest = run.Furthest
	rec.Outcome = run.Outcome
	if err := h.dbService.SaveWizard(h.instanceID, rec); err != nil {
		logger.Error.Printf("unexpected error when saving consent wizard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"screen": consentScreen(arm, run), "arm": arm})
}

// completeConsent swaps the session for the consented one the signature
// returned and drops the finished wizard.
func (h *HttpEndpoints) completeConsent(c *gin.Context, client *session.Client, data types.SessionData, rec types.WizardRecord, user types.LoggedInUserData) {
	groups := user.DataGroups
	if len(groups) == 0 {
		groups = data.UserDataGroup
	}
	name := user.FirstName
	if name == "" {
		name = data.Name
	}
	client.Session.Login(types.SessionData{
		Token:         user.SessionToken,
		Name:          name,
		Consented:     true,
		UserDataGroup: groups,
	})
	client.Session.MarkValidated(user.SessionToken)

	if err := h.dbService.DeleteWizard(h.instanceID, rec.ID); err != nil {
		logger.Error.Printf("unable to delete consent wizard %s: %v", rec.ID, err)
	}
	client.SetWizardID(types.WizardKindConsent, "")

	c.JSON(http.StatusOK, gin.H{"location": defaultLoginLanding})
}
