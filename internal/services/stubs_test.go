package services

import (
	"context"
	"testing"
	"time"

	"github.com/huntable/treasurehunt-api/internal/ai"
	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/models"
)

// stubGateway is a canned AI provider for service tests
type stubGateway struct {
	activities []ai.GeneratedActivity
	verdict    ai.Verdict
	err        error

	generateCalls int
	validateCalls int
}

func (s *stubGateway) GenerateActivities(_ context.Context, _ ai.GenerateRequest) ([]ai.GeneratedActivity, error) {
	s.generateCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.activities, nil
}

func (s *stubGateway) ValidatePhoto(_ context.Context, _ ai.Photo, _, _ string) (*ai.Verdict, error) {
	s.validateCalls++
	if s.err != nil {
		return nil, s.err
	}
	v := s.verdict
	return &v, nil
}

// stubStore keeps photos in memory
type stubStore struct {
	puts map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{puts: make(map[string][]byte)}
}

func (s *stubStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.puts[key] = data
	return nil
}

func (s *stubStore) PresignURL(_ context.Context, key string) (string, error) {
	return "https://photos.example.com/" + key, nil
}

func (s *stubStore) Name() string { return "stub" }

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedParent(t *testing.T, db *database.DB) int64 {
	t.Helper()
	id, err := db.InsertReturningID(
		`INSERT INTO parents (email, password_hash, name, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		"parent@example.com", "hash", "Pat", false, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to seed parent: %v", err)
	}
	return id
}

func seedChild(t *testing.T, db *database.DB, parentID int64, balance int) int64 {
	t.Helper()
	id, err := db.InsertReturningID(
		`INSERT INTO children (parent_id, name, age, token_balance, created_at) VALUES (?, ?, ?, ?, ?)`,
		parentID, "Sam", 8, balance, time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}
	return id
}

func seedActivity(t *testing.T, db *database.DB, a models.Activity) int64 {
	t.Helper()
	if a.TokensReward == 0 {
		a.TokensReward = 1
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	id, err := db.InsertReturningID(
		`INSERT INTO activities (title, description, category, age_min, age_max, location, validation_prompt, tokens_reward, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Description, a.Category, a.AgeMin, a.AgeMax, a.Location, a.ValidationPrompt, a.TokensReward, a.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed activity: %v", err)
	}
	return id
}
