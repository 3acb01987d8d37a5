package services

import (
	"errors"
	"testing"

	"github.com/huntable/treasurehunt-api/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewParentService(newTestDB(t))

	parent, err := svc.Register(&models.RegisterRequest{
		Email: "Pat@Example.com", Password: "hunter-tokens-1", Name: "Pat",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parent.Email != "pat@example.com" {
		t.Errorf("expected lowercased email, got %q", parent.Email)
	}
	if parent.IsAdmin {
		t.Error("new accounts must not be admin")
	}

	got, err := svc.Authenticate(&models.LoginRequest{Email: "pat@example.com", Password: "hunter-tokens-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != parent.ID {
		t.Errorf("expected parent %d, got %d", parent.ID, got.ID)
	}

	if _, err := svc.Authenticate(&models.LoginRequest{Email: "pat@example.com", Password: "wrong"}); err == nil {
		t.Error("expected authentication failure for wrong password")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewParentService(newTestDB(t))

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"missing email", models.RegisterRequest{Password: "hunter-tokens-1", Name: "Pat"}},
		{"bad email", models.RegisterRequest{Email: "not-an-email", Password: "hunter-tokens-1", Name: "Pat"}},
		{"short password", models.RegisterRequest{Email: "pat@example.com", Password: "short", Name: "Pat"}},
		{"missing name", models.RegisterRequest{Email: "pat@example.com", Password: "hunter-tokens-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(&tt.req); !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewParentService(newTestDB(t))

	req := models.RegisterRequest{Email: "pat@example.com", Password: "hunter-tokens-1", Name: "Pat"}
	if _, err := svc.Register(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(&req); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate email, got %v", err)
	}
}

func TestAwardTokensUnknownChild(t *testing.T) {
	db := newTestDB(t)
	svc := NewChildService(db)

	if err := svc.AwardTokens(db, 999, 5); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAwardTokensInvalidAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewChildService(db)
	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 0)

	for _, amount := range []int{0, -3} {
		if err := svc.AwardTokens(db, childID, amount); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for amount %d, got %v", amount, err)
		}
	}
}
