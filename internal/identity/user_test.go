package identity

import (
	"testing"
	"time"

	perrs "stackpad/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-signing-secret"

func mintToken(t *testing.T, secret string, mutate func(*Claims)) string {
	t.Helper()
	claims := &Claims{
		Email:     "zoe@example.com",
		Role:      "authenticated",
		AAL:       "aal1",
		SessionID: "sess-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "https://auth.example.com",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if mutate != nil {
		mutate(claims)
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestNewUserVerifierRequiresSecret(t *testing.T) {
	_, err := NewUserVerifier("")
	if err == nil {
		t.Fatal("expected error for empty secret")
	}
	if !perrs.IsCode(err, perrs.CodeInternal) {
		t.Fatalf("code = %v, want INTERNAL", perrs.CodeOf(err))
	}
}

func TestUserVerifierVerify(t *testing.T) {
	v, err := NewUserVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewUserVerifier: %v", err)
	}

	t.Run("valid token round trips claims", func(t *testing.T) {
		c, err := v.Verify(mintToken(t, testSecret, nil))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if c.UserID() != "user-123" {
			t.Errorf("UserID = %q, want user-123", c.UserID())
		}
		if c.Email != "zoe@example.com" {
			t.Errorf("Email = %q", c.Email)
		}
		if c.SessionID != "sess-1" {
			t.Errorf("SessionID = %q", c.SessionID)
		}
	})

	bad := []struct {
		name string
		raw  string
		code perrs.Code
	}{
		{"empty token", "", perrs.CodeUnauthorized},
		{"garbage token", "not.a.jwt", perrs.CodeInvalidToken},
		{"wrong secret", mintToken(t, "other-secret", nil), perrs.CodeInvalidToken},
		{"expired token", mintToken(t, testSecret, func(c *Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		}), perrs.CodeInvalidToken},
		{"no subject", mintToken(t, testSecret, func(c *Claims) {
			c.Subject = ""
		}), perrs.CodeInvalidToken},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(tc.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := perrs.CodeOf(err); got != tc.code {
				t.Errorf("code = %v, want %v", got, tc.code)
			}
		})
	}
}

func TestUserVerifierRejectsUnsignedAlg(t *testing.T) {
	v, _ := NewUserVerifier(testSecret)

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := v.Verify(raw); !perrs.IsCode(err, perrs.CodeInvalidToken) {
		t.Fatalf("alg none accepted: err = %v", err)
	}
}
