package handlers

import (
	"net/http"
	"testing"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

func TestLoginReturnsToRememberedLocation(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/result", nil)

	w := env.login()
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	if loc := decode(t, w)["location"]; loc != "/result" {
		t.Errorf("expected remembered location, got %v", loc)
	}

	w = env.do(http.MethodPost, "/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}
	w = env.login()
	if loc := decode(t, w)["location"]; loc != "/dashboard" {
		t.Errorf("expected default landing, got %v", loc)
	}
}

func TestLoginWithCodeErrors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/login/code", codeLoginRequest{Phone: "07700900123", Country: types.CountryUK, Code: "12-34"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected short code to be rejected, got %d", w.Code)
	}
	if env.bridge.calls().signIns != 0 {
		t.Error("short code must not reach the backend")
	}

	env.bridge.update(func(f *fakeBridge) { f.signInStatus = http.StatusBadRequest })
	if w := env.login(); w.Code != http.StatusBadRequest {
		t.Errorf("expected invalid code banner, got %d", w.Code)
	}
	w = env.do(http.MethodGet, "/session", nil)
	if decode(t, w)["authenticated"] != false {
		t.Error("failed login must not create a session")
	}
}

func TestLoginNotConsented(t *testing.T) {
	env := newTestEnv(t)
	env.bridge.update(func(f *fakeBridge) { f.signInStatus = http.StatusPreconditionFailed })

	if w := env.login(); w.Code != http.StatusOK {
		t.Fatalf("412 must still log in, got %d", w.Code)
	}
	session := decode(t, env.do(http.MethodGet, "/session", nil))["session"].(map[string]any)
	if session["consented"] != false {
		t.Errorf("expected non-consented session, got %v", session)
	}
}

func TestLoginWithoutSessionTokenFails(t *testing.T) {
	env := newTestEnv(t)
	env.bridge.update(func(f *fakeBridge) {
		f.signInStatus = http.StatusPreconditionFailed
		f.user.SessionToken = ""
	})

	w := env.login()
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 without session token, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := decode(t, w)["location"]; ok {
		t.Error("a failed login must not redirect")
	}
	if decode(t, env.do(http.MethodGet, "/session", nil))["authenticated"] != false {
		t.Error("no session may be created without a token")
	}
}

func TestLoginSendCode(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/login/phone", phoneLoginRequest{Phone: "(555) 123-4567", Country: types.CountryUnitedStates})
	if triggers := env.bridge.calls().triggers; w.Code != http.StatusOK || triggers != 1 {
		t.Fatalf("expected sign-in trigger, got %d (%d triggers)", w.Code, triggers)
	}

	w = env.do(http.MethodPost, "/login/phone", phoneLoginRequest{Phone: "0770090", Country: types.CountryOther})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected invalid phone, got %d", w.Code)
	}
}
