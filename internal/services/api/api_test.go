package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stackpad/internal/platform/config"
	"stackpad/internal/platform/logger"
	phttp "stackpad/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "api-test-signing-secret"

func mintToken(t *testing.T, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// mountAPI builds a full router with the user gate enabled but no backing
// services configured, so container resolution fails with a server fault
func mountAPI(t *testing.T) *chi.Mux {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	t.Setenv("PLATFORM_PROJECT_ID", "")

	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), Options{
		Config: config.New(),
		Logger: logger.Get(),
	})
	return m
}

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
}

func do(t *testing.T, m *chi.Mux, r *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, r)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealthIsOpen(t *testing.T) {
	m := mountAPI(t)

	rec, env := do(t, m, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d want %d", rec.Code, http.StatusOK)
	}
	if !env.Success {
		t.Fatalf("expected success envelope: %s", rec.Body.String())
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["ok"] != true {
		t.Fatalf("health payload mismatch: %+v", env.Data)
	}
	build, ok := data["build"].(map[string]any)
	if !ok || build["service"] != "stackpad-api" {
		t.Fatalf("build info mismatch: %+v", data["build"])
	}
}

func TestGateRejectsAnonymousTraffic(t *testing.T) {
	m := mountAPI(t)

	rec, env := do(t, m, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d want %d", rec.Code, http.StatusUnauthorized)
	}
	if env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED envelope: %s", rec.Body.String())
	}
}

func TestAuthenticatedRequestSurfacesContainerFault(t *testing.T) {
	m := mountAPI(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	r.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret))
	rec, env := do(t, m, r)

	// the gate passes, then lazy container construction fails on missing config
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d want %d", rec.Code, http.StatusInternalServerError)
	}
	if env.Error == nil || env.Error.Code != "INTERNAL" {
		t.Fatalf("expected INTERNAL envelope: %s", rec.Body.String())
	}
	if !strings.Contains(env.Error.Message, "missing required configuration") {
		t.Fatalf("message %q", env.Error.Message)
	}
}

func TestSignupSkipsUserGate(t *testing.T) {
	m := mountAPI(t)

	body := strings.NewReader(`{"userId":"2f3c9a2e-1b7d-4f7e-9c9a-8f1f2a3b4c5d","email":"zoe@example.com"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	rec, env := do(t, m, r)

	// no 401: signup is exempt from the user gate, the failure is the unbuilt container
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d want %d", rec.Code, http.StatusInternalServerError)
	}
	if env.Error == nil || env.Error.Code != "INTERNAL" {
		t.Fatalf("expected INTERNAL envelope: %s", rec.Body.String())
	}
}

func TestWebhookSkipsBothGates(t *testing.T) {
	m := mountAPI(t)

	r := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(`{}`))
	rec, env := do(t, m, r)

	// never a 401: the route relies on signature verification, and the secret
	// lives in the container which cannot build here
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("webhook must not hit the auth gates: %s", rec.Body.String())
	}
	if rec.Code != http.StatusInternalServerError || env.Error == nil || env.Error.Code != "INTERNAL" {
		t.Fatalf("expected INTERNAL envelope, got %d: %s", rec.Code, rec.Body.String())
	}
}
