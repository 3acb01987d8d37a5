package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huntable/treasurehunt-api/config"
	"github.com/huntable/treasurehunt-api/internal/ai"
	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/models"
)

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{
		MaxUploadBytes:     20 * 1024 * 1024,
		MaxInlineBytes:     4 * 1024 * 1024,
		PhotoMaxAgeMinutes: 60,
	}
}

func newSubmissionHarness(t *testing.T, gateway *stubGateway) (*SubmissionService, *database.DB, *stubStore) {
	t.Helper()
	db := newTestDB(t)
	store := newStubStore()
	children := NewChildService(db)
	catalog := NewCatalogService(db, gateway)
	svc := NewSubmissionService(db, catalog, children, gateway, store, testMediaConfig())
	// Deterministic clock, photo carries no real EXIF block
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	svc.takenAt = func([]byte) (time.Time, bool) { return time.Time{}, false }
	return svc, db, store
}

func TestSubmitValidPhotoAwardsTokens(t *testing.T) {
	gateway := &stubGateway{verdict: ai.Verdict{Valid: true, Reasoning: "A spiral shell is clearly visible"}}
	svc, db, store := newSubmissionHarness(t, gateway)

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 10)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Spiral Shell Hunter", Description: "Find a spiral shell",
		Category: models.CategoryBeach, AgeMin: 5, AgeMax: 10,
		Location: "Bondi Beach", ValidationPrompt: "spiral shell", TokensReward: 5,
	})

	result, err := svc.Submit(context.Background(), activityID, childID, []byte("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Valid {
		t.Error("expected valid verdict")
	}
	if result.TokensAwarded != 5 {
		t.Errorf("expected 5 tokens awarded, got %d", result.TokensAwarded)
	}

	balance, err := svc.children.Balance(childID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 15 {
		t.Errorf("expected balance 15, got %d", balance)
	}

	if len(store.puts) != 1 {
		t.Errorf("expected photo in storage, got %d objects", len(store.puts))
	}
	if gateway.validateCalls != 1 {
		t.Errorf("expected 1 validation call, got %d", gateway.validateCalls)
	}

	var completion models.Completion
	if err := db.Get(&completion, `SELECT id, child_id, activity_id, photo_key, photo_taken_at, validated, reasoning, tokens_awarded, completed_at FROM completions WHERE child_id = ?`, childID); err != nil {
		t.Fatalf("expected a completion row: %v", err)
	}
	if !completion.Validated || completion.TokensAwarded != 5 {
		t.Errorf("unexpected completion row: %+v", completion)
	}
}

func TestSubmitInvalidPhotoLeavesBalance(t *testing.T) {
	gateway := &stubGateway{verdict: ai.Verdict{Valid: false, Reasoning: "No shell in the frame"}}
	svc, db, _ := newSubmissionHarness(t, gateway)

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 10)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Spiral Shell Hunter", Description: "Find a spiral shell",
		Category: models.CategoryBeach, AgeMin: 5, AgeMax: 10,
		Location: "Bondi Beach", ValidationPrompt: "spiral shell", TokensReward: 5,
	})

	result, err := svc.Submit(context.Background(), activityID, childID, []byte("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("expected invalid verdict")
	}
	if result.TokensAwarded != 0 {
		t.Errorf("expected 0 tokens awarded, got %d", result.TokensAwarded)
	}

	balance, _ := svc.children.Balance(childID)
	if balance != 10 {
		t.Errorf("expected balance unchanged at 10, got %d", balance)
	}

	// The failed attempt is still recorded
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM completions WHERE child_id = ?`, childID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 completion row, got %d", count)
	}
}

func TestSubmitStalePhotoSkipsValidation(t *testing.T) {
	gateway := &stubGateway{verdict: ai.Verdict{Valid: true}}
	svc, db, store := newSubmissionHarness(t, gateway)
	svc.takenAt = func([]byte) (time.Time, bool) {
		return svc.now().Add(-2 * time.Hour), true
	}

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 0)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Spiral Shell Hunter", Description: "Find a spiral shell",
		Category: models.CategoryBeach, AgeMin: 5, AgeMax: 10,
		Location: "Bondi Beach", TokensReward: 5,
	})

	_, err := svc.Submit(context.Background(), activityID, childID, []byte("jpeg-bytes"), "image/jpeg")
	if !errors.Is(err, models.ErrStaleMedia) {
		t.Fatalf("expected ErrStaleMedia, got %v", err)
	}
	if gateway.validateCalls != 0 {
		t.Errorf("expected no validation call for a stale photo, got %d", gateway.validateCalls)
	}
	if len(store.puts) != 0 {
		t.Errorf("expected stale photo not to be stored, got %d objects", len(store.puts))
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM completions`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no completion row for a stale photo, got %d", count)
	}
}

func TestSubmitNoExifUsesUploadTime(t *testing.T) {
	gateway := &stubGateway{verdict: ai.Verdict{Valid: true, Reasoning: "ok"}}
	svc, db, _ := newSubmissionHarness(t, gateway)

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 0)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Gumnut Collector", Description: "Find a gumnut",
		Category: models.CategoryBush, AgeMin: 5, AgeMax: 12,
		Location: "Lane Cove", TokensReward: 1,
	})

	if _, err := svc.Submit(context.Background(), activityID, childID, []byte("jpeg-bytes"), "image/jpeg"); err != nil {
		t.Fatalf("expected photo without EXIF to pass the freshness check, got %v", err)
	}
}

func TestSubmitInputChecks(t *testing.T) {
	gateway := &stubGateway{}
	svc, db, _ := newSubmissionHarness(t, gateway)

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 0)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Gumnut Collector", Description: "Find a gumnut",
		Category: models.CategoryBush, AgeMin: 5, AgeMax: 12,
		Location: "Lane Cove",
	})

	tests := []struct {
		name        string
		photo       []byte
		contentType string
	}{
		{"empty photo", nil, "image/jpeg"},
		{"not an image", []byte("hello"), "text/plain"},
		{"oversize photo", make([]byte, 21*1024*1024), "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), activityID, childID, tt.photo, tt.contentType)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if gateway.validateCalls != 0 {
		t.Errorf("expected no validation calls, got %d", gateway.validateCalls)
	}
}

func TestSubmitUnknownActivityOrChild(t *testing.T) {
	gateway := &stubGateway{}
	svc, db, _ := newSubmissionHarness(t, gateway)

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 0)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Gumnut Collector", Description: "Find a gumnut",
		Category: models.CategoryBush, AgeMin: 5, AgeMax: 12,
		Location: "Lane Cove",
	})

	if _, err := svc.Submit(context.Background(), 999, childID, []byte("x"), "image/jpeg"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown activity, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), activityID, 999, []byte("x"), "image/jpeg"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown child, got %v", err)
	}
}

func TestSubmitLargePhotoGoesByReference(t *testing.T) {
	svc, db, _ := newSubmissionHarness(t, &stubGateway{})

	var gotPhoto ai.Photo
	svc.gateway = gatewayFunc{
		validate: func(_ context.Context, photo ai.Photo, _, _ string) (*ai.Verdict, error) {
			gotPhoto = photo
			return &ai.Verdict{Valid: true, Reasoning: "ok"}, nil
		},
	}

	parentID := seedParent(t, db)
	childID := seedChild(t, db, parentID, 0)
	activityID := seedActivity(t, db, models.Activity{
		Title: "Gumnut Collector", Description: "Find a gumnut",
		Category: models.CategoryBush, AgeMin: 5, AgeMax: 12,
		Location: "Lane Cove", TokensReward: 1,
	})

	photo := make([]byte, 5*1024*1024)
	if _, err := svc.Submit(context.Background(), activityID, childID, photo, "image/jpeg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPhoto.URL == "" || gotPhoto.Data != nil {
		t.Errorf("expected large photo to be passed by reference, got len(data)=%d url=%q", len(gotPhoto.Data), gotPhoto.URL)
	}
}

// gatewayFunc adapts bare functions to the gateway interface
type gatewayFunc struct {
	generate func(context.Context, ai.GenerateRequest) ([]ai.GeneratedActivity, error)
	validate func(context.Context, ai.Photo, string, string) (*ai.Verdict, error)
}

func (g gatewayFunc) GenerateActivities(ctx context.Context, req ai.GenerateRequest) ([]ai.GeneratedActivity, error) {
	return g.generate(ctx, req)
}

func (g gatewayFunc) ValidatePhoto(ctx context.Context, photo ai.Photo, desc, criteria string) (*ai.Verdict, error) {
	return g.validate(ctx, photo, desc, criteria)
}
