package handlers

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/mindkind-study/enrollment-portal/pkg/analytics"
	"github.com/mindkind-study/enrollment-portal/pkg/bridge"
	"github.com/mindkind-study/enrollment-portal/pkg/db"
	mw "github.com/mindkind-study/enrollment-portal/pkg/http/middlewares"
	"github.com/mindkind-study/enrollment-portal/pkg/sampler"
	"github.com/mindkind-study/enrollment-portal/pkg/session"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const testInstanceID = "mindkind"

type fakeBridge struct {
	mu sync.Mutex

	signUpStatus  int
	triggerStatus int
	signInStatus  int
	selfStatus    int
	consentStatus int
	user          types.LoggedInUserData

	signUps           []types.RegistrationData
	triggers          int
	signIns           int
	clientDataUpdates []map[string]any
	consents          int
	selfReads         int
}

func (f *fakeBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/v3/auth/signUp":
		var data types.RegistrationData
		_ = json.NewDecoder(r.Body).Decode(&data)
		f.signUps = append(f.signUps, data)
		w.WriteHeader(f.signUpStatus)
	case r.URL.Path == "/v3/auth/phone":
		f.triggers++
		w.WriteHeader(f.triggerStatus)
	case r.URL.Path == "/v3/auth/phone/signIn":
		f.signIns++
		w.WriteHeader(f.signInStatus)
		_ = json.NewEncoder(w).Encode(f.user)
	case r.URL.Path == "/v3/participants/self" && r.Method == http.MethodGet:
		f.selfReads++
		if f.selfStatus != 0 {
			w.WriteHeader(f.selfStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(f.user)
	case r.URL.Path == "/v3/participants/self":
		var body struct {
			ClientData map[string]any `json:"clientData"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.clientDataUpdates = append(f.clientDataUpdates, body.ClientData)
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(r.URL.Path, "/consents/signature"):
		if f.consentStatus != 0 {
			w.WriteHeader(f.consentStatus)
			return
		}
		f.consents++
		f.user.Consented = true
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(f.user)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// update changes the fake's behaviour between requests.
func (f *fakeBridge) update(fn func(f *fakeBridge)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type bridgeCalls struct {
	signUps           []types.RegistrationData
	triggers          int
	signIns           int
	clientDataUpdates []map[string]any
	consents          int
	selfReads         int
}

func (f *fakeBridge) calls() bridgeCalls {
	f.mu.Lock()
	defer f.mu.Unlock()
	return bridgeCalls{
		signUps:           append([]types.RegistrationData(nil), f.signUps...),
		triggers:          f.triggers,
		signIns:           f.signIns,
		clientDataUpdates: append([]map[string]any(nil), f.clientDataUpdates...),
		consents:          f.consents,
		selfReads:         f.selfReads,
	}
}

type testEnv struct {
	t        *testing.T
	router   *gin.Engine
	dbs      *db.MemoryDBService
	registry *session.Registry
	bridge   *fakeBridge
	sink     *analytics.Recorder
	cookies  []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnv(t, false)
}

// newRevalidatingTestEnv asks the backend about the session on every
// request, as the refresh middleware does once a confirmation has aged.
func newRevalidatingTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnv(t, true)
}

func setupTestEnv(t *testing.T, revalidate bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBridge{
		signUpStatus:  http.StatusCreated,
		triggerStatus: http.StatusAccepted,
		signInStatus:  http.StatusOK,
		user: types.LoggedInUserData{
			SessionToken: "session-token",
			FirstName:    "Ana",
			Consented:    true,
		},
	}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	bridgeClient := bridge.NewClient(types.BridgeConfig{
		Endpoint:   srv.URL,
		AppID:      "wellcome",
		SubStudyID: "wellcome",
		Timeout:    5 * time.Second,
	})

	dbs := db.NewMemoryDBService()
	sink := &analytics.Recorder{}
	registry := session.NewRegistry()
	s := sampler.NewSampler(testInstanceID, dbs, rand.New(rand.NewSource(1)))
	h := NewHTTPHandler(testInstanceID, dbs, bridgeClient, s, sink)

	router := gin.New()
	root := router.Group("")
	root.Use(mw.ClientState(sessions.NewCookieStore([]byte("test-cookie-secret")), "mindkind", registry))
	if revalidate {
		root.Use(mw.RefreshSession(bridgeClient, 5*time.Second, 0))
	}
	root.Use(mw.AccessGate())
	h.AddEligibilityAPI(root)
	h.AddRegistrationAPI(root)
	h.AddLoginAPI(root)
	h.AddConsentAPI(root)
	h.AddDashboardAPI(root)

	return &testEnv{t: t, router: router, dbs: dbs, registry: registry, bridge: fb, sink: sink}
}

func (e *testEnv) do(method string, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e.t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range e.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json response %q: %v", w.Body.String(), err)
	}
	return res
}

func screenOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	screen, ok := decode(t, w)["screen"].(map[string]any)
	if !ok {
		t.Fatalf("response has no screen: %s", w.Body.String())
	}
	return screen
}

func (e *testEnv) answerQuiz(country string, age int) {
	e.t.Helper()
	if w := e.do(http.MethodGet, "/eligibility", nil); w.Code != http.StatusOK {
		e.t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	answers := []stepSubmission{
		{Step: "intro"},
		{Step: "howDidYouHear", FormData: map[string]any{"how_did_you_hear": map[string]any{"how_options": "friend"}}},
		{Step: "where", FormData: map[string]any{"country_chooser": map[string]any{"your_country": country}}},
		{Step: "android", FormData: map[string]any{"android_verify": map[string]any{"has_android": "yes"}}},
		{Step: "english", FormData: map[string]any{"understands_english": map[string]any{"understands_english_option": "yes"}}},
		{Step: "ageRange", FormData: map[string]any{"age": age}},
		{Step: "gender", FormData: map[string]any{"gender": []string{"woman"}}},
		{Step: "benefit", FormData: map[string]any{"support_verify": map[string]any{"accept": "yes"}}},
		{Step: "summary"},
	}
	for _, a := range answers {
		if w := e.do(http.MethodPost, "/eligibility/answer", a); w.Code != http.StatusOK {
			e.t.Fatalf("answer %s: unexpected status %d: %s", a.Step, w.Code, w.Body.String())
		}
	}
}

func (e *testEnv) login() *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do(http.MethodPost, "/login/code", codeLoginRequest{Phone: "07700 900123", Country: types.CountryUK, Code: "123-456"})
}
