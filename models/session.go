package models

import "time"

// User is the authenticated identity behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the access/refresh token pair issued by the backend's auth
// subsystem, cached locally by the session client. At most one session is
// active per app instance.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Valid reports whether the session holds a token that has not yet expired.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != "" && time.Now().Before(s.ExpiresAt)
}

// ExpiresIn returns the remaining lifetime of the access token.
func (s *Session) ExpiresIn() time.Duration {
	if s == nil {
		return 0
	}
	return time.Until(s.ExpiresAt)
}
