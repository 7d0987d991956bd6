package handlers

import (
	"errors"
	"net/http"

	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mindkind-study/enrollment-portal/pkg/db"
	"github.com/mindkind-study/enrollment-portal/pkg/eligibility"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

type stepSubmission struct {
	Step     string         `json:"step"`
	FormData map[string]any `json:"formData"`
}

type restartRequest struct {
	Reset bool `json:"reset"`
}

func (h *HttpEndpoints) AddEligibilityAPI(rg *gin.RouterGroup) {
	g := rg.Group("/eligibility")
	g.GET("", h.eligibilityEnter)

	wizardGroup := g.Group("")
	wizardGroup.Use(mw.HasWizard(types.WizardKindEligibility))
	{
		wizardGroup.POST("/answer", mw.RequirePayload(), h.eligibilitySubmit)
		wizardGroup.POST("/back", h.eligibilityBack)
		wizardGroup.POST("/restart", h.eligibilityRestart)
		wizardGroup.POST("/change", mw.RequirePayload(), h.eligibilityChange)
	}
}

func eligibilityRun(rec *types.WizardRecord) *stepflow.Run[*eligibility.Accumulator] {
	return &stepflow.Run[*eligibility.Accumulator]{
		Index:    rec.Step,
		Furthest: rec.Furthest,
		Outcome:  rec.Outcome,
		Answers:  eligibility.NewAccumulator(&rec.Choices),
	}
}

func storeRun(rec *types.WizardRecord, run *stepflow.Run[*eligibility.Accumulator]) {
	rec.Step = run.Index
	rec.Furthest = run.Furthest
	rec.Outcome = run.Outcome
}

func (h *HttpEndpoints) loadOrCreateEligibilityWizard(c *gin.Context, client *session.Client) (types.WizardRecord, error) {
	if id := client.WizardID(types.WizardKindEligibility); id != "" {
		rec, err := h.dbService.LoadWizard(h.instanceID, id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return rec, err
		}
		logger.Debug.Printf("eligibility wizard %s expired, starting a new one", id)
	}

	rec := types.WizardRecord{
		ID:       uuid.New().String(),
		Kind:     types.WizardKindEligibility,
		Step:     1,
		Furthest: 1,
		Choices:  types.NewEligibilityChoices(),
	}
	rec.Choices.Language = eligibility.PreferredLanguage(c.GetHeader("Accept-Language"))
	if err := h.dbService.SaveWizard(h.instanceID, rec); err != nil {
		return rec, err
	}
	client.SetWizardID(types.WizardKindEligibility, rec.ID)
	return rec, nil
}

func (h *HttpEndpoints) loadEligibilityWizard(c *gin.Context) (types.WizardRecord, bool) {
	rec, err := h.dbService.LoadWizard(h.instanceID, c.MustGet(mw.WizardIDKey).(string))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			mw.GetClient(c).SetWizardID(types.WizardKindEligibility, "")
			c.JSON(http.StatusNotFound, gin.H{"error": "wizard expired", "location": eligibility.FlowPath})
			return rec, false
		}
		logger.Error.Printf("unexpected error when loading wizard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return rec, false
	}
	return rec, true
}

func (h *HttpEndpoints) saveEligibilityWizard(c *gin.Context, rec *types.WizardRecord, run *stepflow.Run[*eligibility.Accumulator]) bool {
	storeRun(rec, run)
	if err := h.dbService.SaveWizard(h.instanceID, *rec); err != nil {
		logger.Error.Printf("unexpected error when saving wizard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *HttpEndpoints) eligibilityEnter(c *gin.Context) {
	client := mw.GetClient(c)
	if data, _ := client.Session.Snapshot(); data.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/consent/steps")
		return
	}

	rec, err := h.loadOrCreateEligibilityWizard(c, client)
	if err != nil {
		logger.Error.Printf("unexpected error when preparing wizard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	run := eligibilityRun(&rec)
	query := c.Request.URL.Query()
	if requested := query.Get(stepflow.StepQueryParam); requested != h.eligibilityFlow.Marker(run) {
		if h.eligibilityFlow.Seek(run, requested) && !h.saveEligibilityWizard(c, &rec, run) {
			return
		}
	}

	_, push := h.eligibilityFlow.Enter(run, query)
	c.JSON(http.StatusOK, gin.H{"screen": h.eligibilityFlow.View(run), "push": push})
}

func (h *HttpEndpoints) eligibilitySubmit(c *gin.Context) {
	var req stepSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, ok := h.loadEligibilityWizard(c)
	if !ok {
		return
	}
	run := eligibilityRun(&rec)

	if _, err := h.eligibilityFlow.Submit(run, req.Step, req.FormData); err != nil {
		if vErr, ok := stepflow.IsValidationError(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  string(vErr.Kind),
				"step":   vErr.StepID,
				"screen": h.eligibilityFlow.View(run),
			})
			return
		}
		if errors.Is(err, stepflow.ErrStepMismatch) || errors.Is(err, stepflow.ErrTerminal) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "screen": h.eligibilityFlow.View(run)})
			return
		}
		logger.Error.Printf("unexpected error when submitting step %s: %v", req.Step, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !h.saveEligibilityWizard(c, &rec, run) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"screen": h.eligibilityFlow.View(run)})
}

func (h *HttpEndpoints) eligibilityBack(c *gin.Context) {
	rec, ok := h.loadEligibilityWizard(c)
	if !ok {
		return
	}
	run := eligibilityRun(&rec)
	if err := h.eligibilityFlow.Back(run); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "screen": h.eligibilityFlow.View(run)})
		return
	}
	if !h.saveEligibilityWizard(c, &rec, run) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"screen": h.eligibilityFlow.View(run)})
}

func (h *HttpEndpoints) eligibilityRestart(c *gin.Context) {
	var req restartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rec, ok := h.loadEligibilityWizard(c)
	if !ok {
		return
	}
	run := eligibilityRun(&rec)
	h.eligibilityFlow.Restart(run, req.Reset)
	if !h.saveEligibilityWizard(c, &rec, run) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"screen": h.eligibilityFlow.View(run)})
}

func (h *HttpEndpoints) eligibilityChange(c *gin.Context) {
	var req stepSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	selection, disabled, err := h.eligibilityFlow.Change(req.Step, req.FormData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selection": selection, "disabled": disabled})
}
