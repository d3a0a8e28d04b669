package helpers

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateBearerAndParse(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager("super-secret")
	if err != nil {
		t.Fatalf("NewJWTManager error: %v", err)
	}
	tok, err := m.GenerateBearer("user-123")
	if err != nil {
		t.Fatalf("GenerateBearer error: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("bearer token must not carry an expiry, got %v", claims.ExpiresAt)
	}
}

func TestGenerateOTPTokenAndParse(t *testing.T) {
	t.Parallel()

	m, _ := NewJWTManager("k")
	tok, err := m.GenerateOTPToken("0427")
	if err != nil {
		t.Fatalf("GenerateOTPToken error: %v", err)
	}
	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.OTP != "0427" || claims.UserID != "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	signer, _ := NewJWTManager("right-secret")
	verifier, _ := NewJWTManager("wrong-secret")
	tok, _ := signer.GenerateBearer("u1")

	_, err := verifier.Parse(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	m, _ := NewJWTManager("k")
	if _, err := m.Parse("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	m, _ := NewJWTManager("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewJWTManager_GeneratesKeyPerInstance(t *testing.T) {
	t.Parallel()

	a, err := NewJWTManager("")
	if err != nil {
		t.Fatalf("NewJWTManager error: %v", err)
	}
	b, _ := NewJWTManager("")
	tok, _ := a.GenerateBearer("u1")

	if _, err := a.Parse(tok); err != nil {
		t.Fatalf("own token rejected: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatalf("token from another process key must be rejected")
	}
}
