package handlers

import (
	"net/http"
	"testing"
)

func TestEligibilityEnter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/eligibility", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	res := decode(t, w)
	screen := res["screen"].(map[string]any)
	if screen["step"] != float64(1) || screen["maxSteps"] != float64(9) {
		t.Errorf("unexpected first screen %v", screen)
	}
	if res["push"] != false {
		t.Error("hidden intro must not push a history entry")
	}

	screen = screenOf(t, env.do(http.MethodPost, "/eligibility/answer", stepSubmission{Step: "intro"}))
	if screen["location"] != "/eligibility?step=howDidYouHear" {
		t.Errorf("unexpected location of the second step %v", screen["location"])
	}
	res = decode(t, env.do(http.MethodGet, "/eligibility?step=howDidYouHear", nil))
	if res["push"] != false {
		t.Error("re-entering with the marker in the URL must not push again")
	}

	res = decode(t, env.do(http.MethodGet, "/eligibility?step=benefit", nil))
	screen = res["screen"].(map[string]any)
	if res["push"] != true || screen["stepId"] != "howDidYouHear" {
		t.Errorf("unreached deep link must push the current step, got %v", res)
	}
}

func TestEligibilityBackToIntro(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/eligibility", nil)
	env.do(http.MethodPost, "/eligibility/answer", stepSubmission{Step: "intro"})

	res := decode(t, env.do(http.MethodGet, "/eligibility", nil))
	screen := res["screen"].(map[string]any)
	if screen["step"] != float64(1) || res["push"] != false || screen["location"] != "/eligibility" {
		t.Fatalf("browser back to the bare URL must show the intro, got %v", res)
	}

	screen = screenOf(t, env.do(http.MethodGet, "/eligibility?step=howDidYouHear", nil))
	if screen["stepId"] != "howDidYouHear" {
		t.Errorf("browser forward must return to the reached step, got %v", screen)
	}
}

func TestEligibilityValidation(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/eligibility", nil)
	env.do(http.MethodPost, "/eligibility/answer", stepSubmission{Step: "intro"})
	env.do(http.MethodPost, "/eligibility/answer", stepSubmission{Step: "howDidYouHear", FormData: map[string]any{"how_did_you_hear": map[string]any{"how_options": "friend"}}})

	w := env.do(http.MethodPost, "/eligibility/answer", stepSubmission{Step: "where", FormData: map[string]any{"country_chooser": map[string]any{}}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	res := decode(t, w)
	if res["error"] != "EmptySelection" || res["step"] != "where" {
		t.Errorf("unexpected validation body %v", res)
	}

	w = env.do(http.MethodPost, "/eligibility/answer", stepSubmission{Step: "benefit", FormData: map[string]any{}})
	if w.Code != http.StatusConflict {
		t.Errorf("expected step mismatch, got %d", w.Code)
	}

	if got := len(env.sink.Events()); got != 1 {
		t.Errorf("expected one analytics event, got %d", got)
	}
}

func TestEligibilityTerminalAndRestart(t *testing.T) {
	env := newTestEnv(t)
	env.answerQuiz("US", 17)

	screen := screenOf(t, env.do(http.MethodGet, "/eligibility", nil))
	if screen["kind"] != "terminal" || screen["outcome"] != "ineligible" || screen["marker"] != "not-eligible" {
		t.Fatalf("unexpected terminal screen %v", screen)
	}

	if w := env.do(http.MethodPost, "/eligibility/back", nil); w.Code != http.StatusConflict {
		t.Errorf("terminal state must be absorbing, got %d", w.Code)
	}

	screen = screenOf(t, env.do(http.MethodPost, "/eligibility/restart", nil))
	if screen["step"] != float64(1) {
		t.Errorf("expected restart at step 1, got %v", screen)
	}
	// answers survive a restart, so deep links to reached steps still work
	screen = screenOf(t, env.do(http.MethodGet, "/eligibility?step=ageRange", nil))
	if screen["stepId"] != "ageRange" {
		t.Errorf("expected seek to reached step, got %v", screen)
	}
}

func TestEligibilityChange(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/eligibility", nil)

	w := env.do(http.MethodPost, "/eligibility/change", stepSubmission{Step: "gender", FormData: map[string]any{"gender": []string{"man", "prefer_not_to_say"}}})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	res := decode(t, w)
	selection := res["selection"].([]any)
	if len(selection) != 1 || selection[0] != "prefer_not_to_say" {
		t.Errorf("unexpected selection %v", selection)
	}
	if len(res["disabled"].([]any)) != 5 {
		t.Errorf("unexpected disabled options %v", res["disabled"])
	}
}

func TestEligibilityRequiresWizard(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(http.MethodPost, "/eligibility/back", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without wizard, got %d", w.Code)
	}
}
