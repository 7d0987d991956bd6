package handlers

import (
	"net/http"
	"testing"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

func consentEnv(t *testing.T, arm types.Arm) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.bridge.update(func(f *fakeBridge) {
		f.signInStatus = http.StatusPreconditionFailed
		f.user.Consented = false
		f.user.DataGroups = []types.UserDataGroup{types.DataGroupTestUser, types.UserDataGroup(arm)}
	})
	if w := env.login(); w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	return env
}

func TestConsentArmOne(t *testing.T) {
	env := consentEnv(t, types.ArmOne)

	screen := screenOf(t, env.do(http.MethodGet, "/consent/steps", nil))
	if screen["kind"] != "intro" || screen["maxSteps"] != float64(2) {
		t.Fatalf("unexpected first consent screen %v", screen)
	}

	screen = screenOf(t, env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 1}))
	if screen["kind"] != "risks_and_benefits" {
		t.Errorf("unexpected second screen %v", screen)
	}

	w := env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 2})
	if w.Code != http.StatusOK || decode(t, w)["location"] != "/dashboard" {
		t.Fatalf("expected completion, got %d %s", w.Code, w.Body.String())
	}

	calls := env.bridge.calls()
	if calls.consents != 1 {
		t.Errorf("expected consent signature, got %d", calls.consents)
	}
	if len(calls.clientDataUpdates) != 2 || calls.clientDataUpdates[1]["pageId"] != types.PageConsentComplete {
		t.Errorf("unexpected checkpoints %v", calls.clientDataUpdates)
	}

	if w := env.do(http.MethodGet, "/dashboard", nil); w.Code != http.StatusOK {
		t.Errorf("consented participant must reach the dashboard, got %d", w.Code)
	}
}

func TestConsentArmTwoRankedChoice(t *testing.T) {
	env := consentEnv(t, types.ArmTwo)

	env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 1})
	w := env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 2, FormData: map[string]any{"ranking": []string{}}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty ranking must be rejected, got %d", w.Code)
	}

	screen := screenOf(t, env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 2, FormData: map[string]any{"ranking": []string{"privacy", "benefit"}}}))
	if screen["kind"] != "ranked_choice" || screen["step"] != float64(3) {
		t.Errorf("unexpected screen %v", screen)
	}

	if w := env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 5}); w.Code != http.StatusConflict {
		t.Errorf("expected step mismatch, got %d", w.Code)
	}
}

func TestConsentWithoutArm(t *testing.T) {
	env := newTestEnv(t)
	env.bridge.update(func(f *fakeBridge) {
		f.signInStatus = http.StatusPreconditionFailed
		f.user.Consented = false
	})
	env.login()

	if w := env.do(http.MethodGet, "/consent/steps", nil); w.Code != http.StatusConflict {
		t.Errorf("expected conflict without arm, got %d", w.Code)
	}
}

func TestConsentNavigation(t *testing.T) {
	env := consentEnv(t, types.ArmTwo)

	res := decode(t, env.do(http.MethodGet, "/consent/steps", nil))
	if res["push"] != true {
		t.Errorf("bare consent URL must push the step marker, got %v", res)
	}
	env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 1})
	env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 2, FormData: map[string]any{"ranking": []string{"privacy"}}})

	res = decode(t, env.do(http.MethodGet, "/consent/steps?step=2", nil))
	screen := res["screen"].(map[string]any)
	if screen["step"] != float64(2) || res["push"] != false {
		t.Errorf("browser back must show the reached step, got %v", res)
	}

	res = decode(t, env.do(http.MethodGet, "/consent/steps?step=6", nil))
	screen = res["screen"].(map[string]any)
	if screen["step"] != float64(2) || res["push"] != true || screen["location"] != "/consent/steps?step=2" {
		t.Errorf("unreached step must push the current one, got %v", res)
	}

	if w := env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 3}); w.Code != http.StatusConflict {
		t.Errorf("submitting the step left behind must conflict, got %d", w.Code)
	}
	events := env.sink.Events()
	if len(events) != 2 || events[0].Category != "consent" || events[1].Value != "privacy" {
		t.Errorf("unexpected consent events %+v", events)
	}
}

func TestConsentSignatureFailureKeepsLastStep(t *testing.T) {
	env := consentEnv(t, types.ArmOne)
	env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 1})
	env.bridge.update(func(f *fakeBridge) { f.consentStatus = http.StatusInternalServerError })

	if w := env.do(http.MethodPost, "/consent/steps", consentSubmission{Step: 2}); w.Code != http.StatusBadGateway {
		t.Fatalf("expected bad gateway, got %d", w.Code)
	}
	screen := screenOf(t, env.do(http.MethodGet, "/consent/steps", nil))
	if screen["step"] != float64(2) {
		t.Errorf("failed signature must keep the last step, got %v", screen)
	}
	if env.bridge.calls().consents != 0 {
		t.Error("no consent was signed")
	}
}
