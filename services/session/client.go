// Package session owns the authenticated session for the app instance: the
// cached token pair, its persisted copy, the change feed the UI subscribes to,
// and the foreground auto-refresh schedule. Every other component reads auth
// state through here and never caches the token itself.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"drukhotel/backend"
	"drukhotel/models"
	"drukhotel/utils"
)

// idleRecheck is how often the refresh loop re-checks for a session to manage
// while no one is signed in.
const idleRecheck = 15 * time.Second

// AuthAPI is the slice of the backend auth capability the client consumes.
type AuthAPI interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
}

// SignUpResult distinguishes an immediate session from a pending email
// confirmation; neither is a failure.
type SignUpResult struct {
	ConfirmationRequired bool
}

// Client is the session surface the rest of the app depends on.
type Client interface {
	GetCurrentSession() *models.Session
	CurrentUser(ctx context.Context) (*models.User, error)
	OnSessionChange(handler func(*models.Session))
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) (SignUpResult, error)
	SignOut(ctx context.Context)
	StartAutoRefresh()
	StopAutoRefresh()
	AccessToken() string
}

// DefaultClient implements Client against the hosted backend's auth capability.
type DefaultClient struct {
	Auth          AuthAPI
	Store         TokenStore
	RefreshMargin time.Duration
	Logger        *zap.Logger

	mu          sync.Mutex
	session     *models.Session
	handlers    []func(*models.Session)
	epoch       uint64
	refreshStop chan struct{}

	// swapMu serializes swap/persist/notify sequences so the change feed
	// delivers states in the order they were installed.
	swapMu sync.Mutex
}

// NewDefaultClient builds a session client and loads any persisted session
// from the token store. An expired-but-refreshable session is kept; the
// refresh loop renews it once the app is foregrounded.
func NewDefaultClient(ctx context.Context, auth AuthAPI, store TokenStore, refreshMargin time.Duration) (*DefaultClient, error) {
	c := &DefaultClient{
		Auth:          auth,
		Store:         store,
		RefreshMargin: refreshMargin,
		Logger:        utils.GetLogger(),
	}

	sess, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil && sess.User.ID == "" {
		// Older persisted blobs may predate the embedded user; recover it
		// from the token claims.
		if claims, cerr := utils.ReadTokenClaims(sess.AccessToken); cerr == nil {
			sess.User = models.User{ID: claims.Subject, Email: claims.Email}
		}
	}
	c.session = sess
	return c, nil
}

// GetCurrentSession returns the cached session without a network round trip,
// or nil when signed out.
func (c *DefaultClient) GetCurrentSession() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// CurrentUser resolves the signed-in user, or ErrNoSession. Sessions restored
// from a blob without an embedded user fall back to the backend's user lookup.
func (c *DefaultClient) CurrentUser(ctx context.Context) (*models.User, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil, ErrNoSession
	}
	if sess.User.ID != "" {
		user := sess.User
		return &user, nil
	}
	user, err := c.Auth.GetUser(ctx, sess.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	return user, nil
}

// AccessToken returns the current access token, read fresh per call so
// authorized requests never ride a token revoked by sign-out.
func (c *DefaultClient) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// OnSessionChange registers a handler for sign-in, sign-out and refresh.
// Handlers run in registration order; latest state wins.
func (c *DefaultClient) OnSessionChange(handler func(*models.Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// SignIn exchanges credentials for a session and fires the change feed.
func (c *DefaultClient) SignIn(ctx context.Context, email, password string) error {
	sess, err := c.Auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return classifyAuthError(err)
	}
	c.swapSession(ctx, sess, nil)
	return nil
}

// SignUp registers a new account. Projects requiring email verification issue
// no session; that is reported through the result, not as an error.
func (c *DefaultClient) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	sess, err := c.Auth.SignUp(ctx, email, password)
	if err != nil {
		return SignUpResult{}, classifyAuthError(err)
	}
	if sess == nil {
		return SignUpResult{ConfirmationRequired: true}, nil
	}
	c.swapSession(ctx, sess, nil)
	return SignUpResult{}, nil
}

// SignOut clears local state first and revokes remotely best-effort; the UI
// treats local state as the source of truth, so this always succeeds locally.
// The swap starts a new epoch, making any in-flight refresh result stale.
func (c *DefaultClient) SignOut(ctx context.Context) {
	old, _ := c.swapSession(ctx, nil, nil)
	if old != nil {
		if err := c.Auth.SignOut(ctx, old.AccessToken); err != nil {
			c.Logger.Warn("remote sign-out failed, local session already cleared", zap.Error(err))
		}
	}
}

// StartAutoRefresh begins the foreground refresh schedule. Idempotent.
func (c *DefaultClient) StartAutoRefresh() {
	c.mu.Lock()
	if c.refreshStop != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.refreshStop = stop
	c.mu.Unlock()
	go c.refreshLoop(stop)
}

// StopAutoRefresh suspends the schedule while the app is backgrounded.
func (c *DefaultClient) StopAutoRefresh() {
	c.mu.Lock()
	if c.refreshStop != nil {
		close(c.refreshStop)
		c.refreshStop = nil
	}
	c.mu.Unlock()
}

func (c *DefaultClient) refreshLoop(stop chan struct{}) {
	for {
		c.mu.Lock()
		sess := c.session
		c.mu.Unlock()

		timer := time.NewTimer(c.refreshDelay(sess))
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		c.mu.Lock()
		sess = c.session
		epoch := c.epoch
		c.mu.Unlock()
		if sess == nil || sess.RefreshToken == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		refreshed, err := c.Auth.RefreshSession(ctx, sess.RefreshToken)
		cancel()
		if err != nil {
			c.Logger.Warn("token refresh failed", zap.Error(err))
			continue
		}

		// A sign-out or sign-in issued while the refresh was in flight wins
		// by intent: the refresh result is discarded, not applied by arrival
		// time. The epoch check and the swap are one atomic step.
		if _, applied := c.swapSession(context.Background(), refreshed, &epoch); !applied {
			c.Logger.Debug("discarding refresh result issued before session replacement")
			continue
		}
		c.Logger.Debug("session refreshed", zap.Time("expires_at", refreshed.ExpiresAt))
	}
}

// refreshDelay computes how long to wait before the next refresh attempt.
func (c *DefaultClient) refreshDelay(sess *models.Session) time.Duration {
	if sess == nil || sess.RefreshToken == "" {
		return idleRecheck
	}
	remaining := sess.ExpiresIn()
	if sess.ExpiresAt.IsZero() {
		if claims, err := utils.ReadTokenClaims(sess.AccessToken); err == nil {
			remaining = time.Until(claims.ExpiresAt)
		}
	}
	delay := remaining - c.RefreshMargin
	if delay < time.Second {
		delay = time.Second
	}
	return delay
}

// swapSession installs sess as the current session, persists (or clears) the
// blob, and delivers the change feed. With requireEpoch nil the swap starts a
// new epoch (sign-in, sign-up, sign-out); otherwise the swap happens only
// while the observed epoch is still current, so a refresh result racing an
// explicit replacement is dropped in the same critical section that would
// have applied it. Returns the previous session and whether the swap landed.
func (c *DefaultClient) swapSession(ctx context.Context, sess *models.Session, requireEpoch *uint64) (*models.Session, bool) {
	c.swapMu.Lock()
	defer c.swapMu.Unlock()

	c.mu.Lock()
	if requireEpoch != nil && *requireEpoch != c.epoch {
		c.mu.Unlock()
		return nil, false
	}
	if requireEpoch == nil {
		c.epoch++
	}
	old := c.session
	c.session = sess
	handlers := make([]func(*models.Session), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	var err error
	if sess == nil {
		err = c.Store.Clear(ctx)
	} else {
		err = c.Store.Save(ctx, sess)
	}
	if err != nil {
		c.Logger.Warn("failed to persist session state", zap.Error(err))
	}

	for _, handler := range handlers {
		handler(sess)
	}
	return old, true
}

func classifyAuthError(err error) *AuthError {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		reason := apiErr.Message
		if reason == "" {
			reason = "invalid credentials"
		}
		return &AuthError{Reason: reason, Err: err}
	}
	return &AuthError{Reason: "network failure", Err: err}
}
