package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func protected() http.Handler {
	return Authenticator(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, _ := OwnerID(r.Context())
		_, _ = w.Write([]byte(owner))
	}))
}

func TestAuthenticatorResolvesOwner(t *testing.T) {
	token, err := IssueToken(testSecret, "user-42", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	protected().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != "user-42" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Body.String())
	}
}

func TestAuthenticatorRejects(t *testing.T) {
	expired, _ := IssueToken(testSecret, "user-42", -time.Minute)
	wrongKey, _ := IssueToken("other-secret", "user-42", time.Hour)
	noOwner, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-42",
	}).SignedString([]byte(testSecret))

	cases := map[string]string{
		"missing":   "",
		"scheme":    "Basic abc",
		"expired":   "Bearer " + expired,
		"wrong key": "Bearer " + wrongKey,
		"no owner":  "Bearer " + noOwner,
		"no expiry": "Bearer " + noExpiry,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp := httptest.NewRecorder()
			protected().ServeHTTP(resp, req)

			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight reached the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/personas", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}
