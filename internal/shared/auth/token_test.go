package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Sign("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %s", userID)
	}
}

func TestSignRequiresUserID(t *testing.T) {
	svc := NewTokenService("test-secret")
	if _, err := svc.Sign(""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Sign("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenService("secret-b").Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := "test-secret"
	past := time.Now().UTC().Add(-time.Hour)
	claims := Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past.Add(-24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if _, err := NewTokenService(secret).Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewTokenService("test-secret").Verify("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
