package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestParseUserID(t *testing.T) {
	userID := uuid.New()

	token := signToken(t, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	got, err := ParseUserID(token, testSecret)
	if err != nil {
		t.Fatalf("ParseUserID err: %v", err)
	}
	if got != userID {
		t.Fatalf("user id = %s, want %s", got, userID)
	}
}

func TestParseUserID_Failures(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "wrong secret",
			token: signToken(t, jwt.MapClaims{
				"sub": userID.String(),
				"exp": time.Now().Add(time.Hour).Unix(),
			}, []byte("other-secret")),
		},
		{
			name: "expired",
			token: signToken(t, jwt.MapClaims{
				"sub": userID.String(),
				"exp": time.Now().Add(-time.Hour).Unix(),
			}, testSecret),
		},
		{
			name: "missing sub",
			token: signToken(t, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}, testSecret),
		},
		{
			name: "sub not a uuid",
			token: signToken(t, jwt.MapClaims{
				"sub": "42",
				"exp": time.Now().Add(time.Hour).Unix(),
			}, testSecret),
		},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseUserID(tc.token, testSecret); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", string(testSecret))

	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	router := gin.New()
	router.GET("/protected", RequireAuth(), func(c *gin.Context) {
		got, ok := CurrentUserID(c)
		if !ok || got != userID {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
	}{
		{name: "bearer header", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "cookie fallback", cookie: token, wantStatus: http.StatusOK},
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token " + token, wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
