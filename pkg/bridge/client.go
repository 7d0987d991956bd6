package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

const (
	signUpEndpoint           = "/v3/auth/signUp"
	phoneSignInTrigger       = "/v3/auth/phone"
	phoneSignInEndpoint      = "/v3/auth/phone/signIn"
	participantSelfEndpoint  = "/v3/participants/self"
	consentSignatureTemplate = "/v3/subpopulations/%s/consents/signature"
)

type Client struct {
	endpoint   string
	appID      string
	subStudyID string
	httpClient *http.Client
}

func NewClient(conf types.BridgeConfig) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(conf.Endpoint, "/"),
		appID:      conf.AppID,
		subStudyID: conf.SubStudyID,
		httpClient: &http.Client{Timeout: conf.Timeout},
	}
}

func (c *Client) AppID() string {
	return c.appID
}

func (c *Client) SubStudyID() string {
	return c.subStudyID
}

func (c *Client) url(path string) string {
	return c.endpoint + path
}

// SignUp registers a participant; only 201 counts as success.
func (c *Client) SignUp(ctx context.Context, data types.RegistrationData) error {
	data.AppID = c.appID
	resp, err := CallEndpoint[map[string]any](ctx, c.httpClient, c.url(signUpEndpoint), http.MethodPost, data, "")
	if err != nil {
		return err
	}
	if resp.Status != http.StatusCreated {
		return &StatusError{Op: "sign up", Status: resp.Status}
	}
	return nil
}

// SendSignInRequest asks the backend to text a sign-in code; expects 202.
func (c *Client) SendSignInRequest(ctx context.Context, phone types.Phone) error {
	body := types.SignInData{AppID: c.appID, Phone: phone}
	resp, err := CallEndpoint[map[string]any](ctx, c.httpClient, c.url(phoneSignInTrigger), http.MethodPost, body, "")
	if err != nil {
		return err
	}
	if resp.Status != http.StatusAccepted {
		return &StatusError{Op: "send sign-in request", Status: resp.Status}
	}
	return nil
}

// SignInWithCode exchanges the texted code for a session. A 412 answer is a
// valid session of a participant who has not consented yet.
func (c *Client) SignInWithCode(ctx context.Context, phone types.Phone, code string) (types.LoggedInUserData, error) {
	body := types.SignInData{AppID: c.appID, Phone: phone, Token: code}
	resp, err := CallEndpoint[types.LoggedInUserData](ctx, c.httpClient, c.url(phoneSignInEndpoint), http.MethodPost, body, "")
	if err != nil {
		return types.LoggedInUserData{}, err
	}
	switch resp.Status {
	case http.StatusOK, http.StatusPreconditionFailed:
		if resp.Data.SessionToken == "" {
			return types.LoggedInUserData{}, ErrNoSession
		}
		if resp.Status == http.StatusPreconditionFailed {
			resp.Data.Consented = false
		}
		return resp.Data, nil
	case http.StatusBadRequest, http.StatusNotFound:
		return types.LoggedInUserData{}, ErrInvalidCode
	}
	return types.LoggedInUserData{}, &StatusError{Op: "sign in with code", Status: resp.Status}
}

// GetUserInfo validates token and returns the participant's current state.
func (c *Client) GetUserInfo(ctx context.Context, token string) (types.LoggedInUserData, error) {
	resp, err := CallEndpoint[types.LoggedInUserData](ctx, c.httpClient, c.url(participantSelfEndpoint), http.MethodGet, nil, token)
	if err != nil {
		return types.LoggedInUserData{}, err
	}
	switch resp.Status {
	case http.StatusOK:
	case http.StatusPreconditionFailed:
		resp.Data.Consented = false
	case http.StatusUnauthorized:
		return types.LoggedInUserData{}, ErrSessionExpired
	default:
		return types.LoggedInUserData{}, &StatusError{Op: "get user info", Status: resp.Status}
	}
	resp.Data.SessionToken = token
	return resp.Data, nil
}

// UpdateClientData merges clientData into the participant record.
func (c *Client) UpdateClientData(ctx context.Context, token string, clientData map[string]any) error {
	body := map[string]any{"clientData": clientData}
	resp, err := CallEndpoint[map[string]any](ctx, c.httpClient, c.url(participantSelfEndpoint), http.MethodPost, body, token)
	if err != nil {
		return err
	}
	if resp.Status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if !resp.OK {
		return &StatusError{Op: "update client data", Status: resp.Status}
	}
	return nil
}

// SignConsent records the consent signature and returns the refreshed
// session.
func (c *Client) SignConsent(ctx context.Context, token string, signature types.ConsentSignature) (types.LoggedInUserData, error) {
	path := fmt.Sprintf(consentSignatureTemplate, url.PathEscape(c.subStudyID))
	resp, err := CallEndpoint[types.LoggedInUserData](ctx, c.httpClient, c.url(path), http.MethodPost, signature, token)
	if err != nil {
		return types.LoggedInUserData{}, err
	}
	if resp.Status == http.StatusUnauthorized {
		return types.LoggedInUserData{}, ErrSessionExpired
	}
	if !resp.OK {
		return types.LoggedInUserData{}, &StatusError{Op: "sign consent", Status: resp.Status}
	}
	if resp.Data.SessionToken == "" {
		resp.Data.SessionToken = token
	}
	resp.Data.Consented = true
	return resp.Data, nil
}
