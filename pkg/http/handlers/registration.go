package handlers

import (
	"fmt"
	"net/http"

	"github.com/coneno/logger"
	"github.com/gin-gonic/gin"
	"github.com/mindkind-study/enrollment-portal/pkg/eligibility"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const signInCodePath = "/login/code"

type registrationRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *HttpEndpoints) AddRegistrationAPI(rg *gin.RouterGroup) {
	g := rg.Group("/registration")
	g.Use(mw.HasWizard(types.WizardKindEligibility))
	{
		g.POST("", mw.RequirePayload(), h.registerParticipant)
	}
}

func registrationData(choices types.EligibilityChoices, arm types.Arm, phone types.Phone, subStudyID string) types.RegistrationData {
	clientData := map[string]any{
		"consentModel":       arm,
		"howDidYouHear":      choices.HowDidYouHear,
		"whereDoYouLive":     choices.UserLocation,
		"doYouHaveAnAndroid": choices.HasAndroid,
		"understandEnglish":  choices.UnderstandsEnglish,
		"age":                choices.Age,
		"gender":             choices.Gender,
		"accessToSupport":    choices.AccessToSupport,
		"language":           choices.Language,
		"consented":          false,
		"checkpoint":         1,
	}
	clientData[types.PageIDFieldName] = types.PageWhatWillYouAsk

	return types.RegistrationData{
		Phone:       &phone,
		ClientData:  clientData,
		SubstudyIDs: []string{subStudyID},
		DataGroups: []types.UserDataGroup{
			types.DataGroupTestUser,
			types.UserDataGroup(arm),
			types.UserDataGroup(choices.UserLocation),
		},
	}
}

func (h *HttpEndpoints) registerParticipant(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, ok := h.loadEligibilityWizard(c)
	if !ok {
		return
	}
	if rec.Outcome != types.OutcomeEligible {
		c.JSON(http.StatusForbidden, gin.H{"error": "not eligible", "location": eligibility.FlowPath})
		return
	}

	phone, err := eligibility.MakePhone(req.Phone, rec.Choices.UserLocation)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.Choices.PhoneNumber = phone.Number

	arm, err := h.sampler.AssignOnce(rec.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	registration, err := h.dbService.FindRegistration(h.instanceID, rec.ID)
	if err != nil {
		logger.Error.Printf("unexpected error when loading registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if registration.SignedUpAt == 0 {
		data := registrationData(rec.Choices, arm, phone, h.bridge.SubStudyID())
		if err := h.bridge.SignUp(ctx, data); err != nil {
			err = fmt.Errorf("%w: %v", ErrRegistrationFailure, err)
			logger.Warning.Printf("sign up for wizard %s: %v", rec.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if err := h.dbService.MarkSignedUp(h.instanceID, rec.ID, phone); err != nil {
			logger.Error.Printf("unable to mark wizard %s as signed up: %v", rec.ID, err)
		}
		if err := h.dbService.SaveWizard(h.instanceID, rec); err != nil {
			logger.Error.Printf("unable to save phone number of wizard %s: %v", rec.ID, err)
		}
		h.analytics.SendEvent("registration", "sign-up", "registration-complete", string(arm))
	} else {
		// the account exists only for the number it was created with
		if registration.Phone != nil && *registration.Phone != phone {
			c.JSON(http.StatusConflict, gin.H{"error": "phone number differs from the one already registered"})
			return
		}
		logger.Debug.Printf("wizard %s already signed up, only re-sending sign-in request", rec.ID)
	}

	if err := h.bridge.SendSignInRequest(ctx, phone); err != nil {
		err = fmt.Errorf("%w: %v", ErrRegistrationFailure, err)
		logger.Warning.Printf("sign-in request for wizard %s: %v", rec.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err := h.dbService.MarkSignInSent(h.instanceID, rec.ID); err != nil {
		logger.Error.Printf("unable to mark sign-in request for wizard %s: %v", rec.ID, err)
	}

	// the answers are not needed once the backend holds them
	if err := h.dbService.DeleteWizard(h.instanceID, rec.ID); err != nil {
		logger.Error.Printf("unable to delete wizard %s: %v", rec.ID, err)
	}
	mw.GetClient(c).SetWizardID(types.WizardKindEligibility, "")

	c.JSON(http.StatusOK, gin.H{
		"location": signInCodePath,
		"phone":    phone,
		"country":  rec.Choices.UserLocation,
	})
}
