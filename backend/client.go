// Package backend holds the HTTP clients for the hosted backend service: the
// auth capability (password sign-in, sign-up, refresh, revoke) and the row
// store capability (filtered list, insert-returning-row). Nothing here decides
// policy; errors come back as *APIError for callers to classify.
package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"drukhotel/config"
)

// APIError is a non-2xx response from the backend, decoded when possible.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend responded %d", e.Status)
}

// errorPayload matches the backend's error body shapes; the auth and row-store
// capabilities use different field names for the same thing.
type errorPayload struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	switch {
	case payload.Message != "":
		apiErr.Message = payload.Message
	case payload.Msg != "":
		apiErr.Message = payload.Msg
	case payload.ErrorDescription != "":
		apiErr.Message = payload.ErrorDescription
	}
	return apiErr
}

// TokenSource supplies the current user access token for authorized calls.
// The session client is the only implementation in the app; the token is read
// fresh per request so calls never act on a token revoked by sign-out.
type TokenSource interface {
	AccessToken() string
}

func newHTTPClient() *http.Client {
	timeout := time.Duration(config.AppConfig.HTTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
