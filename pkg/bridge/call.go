package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coneno/logger"
)

const SessionHeader = "Bridge-Session"

type Response[T any] struct {
	OK     bool
	Status int
	Data   T
}

// CallEndpoint performs one JSON request. Non-2xx statuses are not errors;
// they are reported through Response.OK and Response.Status. Transport
// failures wrap ErrNetworkFailure.
func CallEndpoint[T any](
	ctx context.Context,
	httpClient *http.Client,
	url string,
	method string,
	body any,
	token string,
) (Response[T], error) {
	var res Response[T]

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return res, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return res, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(SessionHeader, token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	res.OK = resp.StatusCode >= 200 && resp.StatusCode < 300

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &res.Data); err != nil {
			logger.Debug.Printf("could not decode response from %s %s (%d): %v", method, url, resp.StatusCode, err)
		}
	}
	return res, nil
}
