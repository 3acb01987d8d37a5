package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/models"
)

// ChildService owns child profiles, token balances and completion history
type ChildService struct {
	db *database.DB
}

func NewChildService(db *database.DB) *ChildService {
	return &ChildService{db: db}
}

// CreateChild creates a child profile under a parent account
func (s *ChildService) CreateChild(parentID int64, req *models.CreateChildRequest) (*models.Child, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if req.Age < models.MinChildAge || req.Age > models.MaxChildAge {
		return nil, fmt.Errorf("%w: age must be between %d and %d", models.ErrInvalidInput, models.MinChildAge, models.MaxChildAge)
	}

	child := &models.Child{
		ParentID:  parentID,
		Name:      name,
		Age:       req.Age,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.db.InsertReturningID(
		`INSERT INTO children (parent_id, name, age, token_balance, created_at) VALUES (?, ?, ?, 0, ?)`,
		child.ParentID, child.Name, child.Age, child.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	child.ID = id

	return child, nil
}

// GetChild retrieves a child profile by id
func (s *ChildService) GetChild(id int64) (*models.Child, error) {
	var child models.Child
	err := s.db.Get(&child,
		`SELECT id, parent_id, name, age, token_balance, created_at FROM children WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: child %d", models.ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return &child, nil
}

// Balance returns the child's current token balance
func (s *ChildService) Balance(childID int64) (int, error) {
	child, err := s.GetChild(childID)
	if err != nil {
		return 0, err
	}
	return child.TokenBalance, nil
}

// AwardTokens applies a single atomic balance increment. It runs on
// whatever execer the caller holds so the award can share a transaction
// with the completion insert.
func (s *ChildService) AwardTokens(ext sqlx.Execer, childID int64, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: award amount must be positive", models.ErrInvalidInput)
	}

	result, err := ext.Exec(s.db.Rebind(
		`UPDATE children SET token_balance = token_balance + ? WHERE id = ?`), amount, childID)
	if err != nil {
		return fmt.Errorf("failed to award tokens: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: child %d", models.ErrNotFound, childID)
	}
	return nil
}

// Completions lists a child's completion history, newest first
func (s *ChildService) Completions(childID int64) ([]models.CompletionView, error) {
	if _, err := s.GetChild(childID); err != nil {
		return nil, err
	}

	completions := []models.CompletionView{}
	err := s.db.Select(&completions, `
		SELECT c.id, c.activity_id, a.title AS activity_title, c.validated, c.tokens_awarded, c.completed_at
		FROM completions c
		JOIN activities a ON c.activity_id = a.id
		WHERE c.child_id = ?
		ORDER BY c.completed_at DESC`, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	return completions, nil
}
