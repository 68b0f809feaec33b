package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"drukhotel/models"
)

// AuthClient talks to the backend's auth endpoints. It is stateless; the
// session client owns the resulting tokens.
type AuthClient struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client
}

// NewAuthClient returns an auth client for the given backend project.
func NewAuthClient(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		BaseURL:    baseURL,
		AnonKey:    anonKey,
		HTTPClient: newHTTPClient(),
	}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

// sessionPayload is the token grant response shape shared by sign-in, sign-up
// and refresh.
type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (p *sessionPayload) toSession() *models.Session {
	return &models.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(p.ExpiresIn) * time.Second),
		User:         models.User{ID: p.User.ID, Email: p.User.Email},
	}
}

// SignInWithPassword exchanges credentials for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var payload sessionPayload
	err := c.post(ctx, "/auth/v1/token?grant_type=password", "", credentialsPayload{Email: email, Password: password}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.toSession(), nil
}

// SignUp registers a new account. When the project requires email
// confirmation the backend issues no tokens; the returned session is nil and
// the caller must prompt the user to check their inbox.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	var payload sessionPayload
	err := c.post(ctx, "/auth/v1/signup", "", credentialsPayload{Email: email, Password: password}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.AccessToken == "" {
		return nil, nil
	}
	return payload.toSession(), nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	var payload sessionPayload
	err := c.post(ctx, "/auth/v1/token?grant_type=refresh_token", "", refreshPayload{RefreshToken: refreshToken}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.toSession(), nil
}

// SignOut revokes the session remotely. Local state is cleared by the session
// client regardless of the outcome here.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
}

// GetUser fetches the user behind an access token.
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	return &user, nil
}

func (c *AuthClient) post(ctx context.Context, path, accessToken string, body, dest any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode auth request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build auth request: %w", err)
	}
	c.setHeaders(req, accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	return nil
}

func (c *AuthClient) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.AnonKey)
	if accessToken == "" {
		accessToken = c.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
}
