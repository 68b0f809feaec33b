package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func fakeAuthBackend(t *testing.T) (*httptest.Server, *AuthClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.POST("/auth/v1/token", func(c *gin.Context) {
		var creds credentialsPayload
		var refresh refreshPayload
		switch c.Query("grant_type") {
		case "password":
			if err := c.ShouldBindJSON(&creds); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error_description": "malformed request"})
				return
			}
			if creds.Email != "guest@example.com" || creds.Password != "correct-horse" {
				c.JSON(http.StatusBadRequest, gin.H{"error_description": "Invalid login credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"expires_in":    3600,
				"user":          gin.H{"id": "user-1", "email": creds.Email},
			})
		case "refresh_token":
			if err := c.ShouldBindJSON(&refresh); err != nil || refresh.RefreshToken != "refresh-1" {
				c.JSON(http.StatusBadRequest, gin.H{"error_description": "Invalid Refresh Token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"access_token":  "access-2",
				"refresh_token": "refresh-2",
				"expires_in":    3600,
				"user":          gin.H{"id": "user-1", "email": "guest@example.com"},
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error_description": "unsupported grant type"})
		}
	})

	router.POST("/auth/v1/signup", func(c *gin.Context) {
		var creds credentialsPayload
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed request"})
			return
		}
		// This project requires email confirmation: no tokens on sign-up.
		c.JSON(http.StatusOK, gin.H{
			"id":    "user-2",
			"email": creds.Email,
		})
	})

	router.GET("/auth/v1/user", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer access-1" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": "user-1", "email": "guest@example.com"})
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, NewAuthClient(srv.URL, "anon-key")
}

func TestSignInWithPassword(t *testing.T) {
	_, client := fakeAuthBackend(t)

	sess, err := client.SignInWithPassword(context.Background(), "guest@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if sess.AccessToken != "access-1" || sess.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected tokens: %+v", sess)
	}
	if sess.User.ID != "user-1" {
		t.Fatalf("User.ID = %q, want %q", sess.User.ID, "user-1")
	}
	if !sess.Valid() {
		t.Fatalf("expected a valid session")
	}
}

func TestSignInWithPasswordInvalidCredentials(t *testing.T) {
	_, client := fakeAuthBackend(t)

	_, err := client.SignInWithPassword(context.Background(), "guest@example.com", "wrong")
	if err == nil {
		t.Fatalf("expected error for bad credentials")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", apiErr.Status, http.StatusBadRequest)
	}
	if apiErr.Message != "Invalid login credentials" {
		t.Fatalf("Message = %q, want %q", apiErr.Message, "Invalid login credentials")
	}
}

func TestSignUpWithoutImmediateSession(t *testing.T) {
	_, client := fakeAuthBackend(t)

	sess, err := client.SignUp(context.Background(), "new@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session when email confirmation is required, got %+v", sess)
	}
}

func TestRefreshSession(t *testing.T) {
	_, client := fakeAuthBackend(t)

	sess, err := client.RefreshSession(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("RefreshSession: %v", err)
	}
	if sess.AccessToken != "access-2" {
		t.Fatalf("AccessToken = %q, want %q", sess.AccessToken, "access-2")
	}
}

func TestGetUser(t *testing.T) {
	_, client := fakeAuthBackend(t)

	user, err := client.GetUser(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.ID != "user-1" || user.Email != "guest@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}
