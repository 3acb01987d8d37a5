package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, "parent@example.com", true)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.ParentID != 42 {
		t.Errorf("expected parent id 42, got %d", claims.ParentID)
	}
	if claims.Email != "parent@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("expected admin claim")
	}
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Hour)

	token, err := svc.GenerateToken(1, "a@b.c", false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).GenerateToken(1, "a@b.c", false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := NewJWTService("secret-b", time.Hour).ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	if _, err := svc.ValidateToken("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
