package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/models"
)

type ParentService struct {
	db *database.DB
}

func NewParentService(db *database.DB) *ParentService {
	return &ParentService{db: db}
}

// Register creates a new parent account
func (s *ParentService) Register(req *models.RegisterRequest) (*models.Parent, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", models.ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", models.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}

	if exists, err := s.emailExists(email); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: email already registered", models.ErrInvalidInput)
	}

	parent := &models.Parent{
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}
	if err := parent.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.db.InsertReturningID(
		`INSERT INTO parents (email, password_hash, name, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		parent.Email, parent.Password, parent.Name, false, parent.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parent: %w", err)
	}
	parent.ID = id

	return parent, nil
}

// Authenticate validates login credentials and returns the parent
func (s *ParentService) Authenticate(req *models.LoginRequest) (*models.Parent, error) {
	parent, err := s.getByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !parent.CheckPassword(req.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	return parent, nil
}

func (s *ParentService) getByEmail(email string) (*models.Parent, error) {
	var parent models.Parent
	err := s.db.Get(&parent,
		`SELECT id, email, password_hash, name, is_admin, created_at FROM parents WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	return &parent, nil
}

func (s *ParentService) emailExists(email string) (bool, error) {
	var count int
	err := s.db.Get(&count, `SELECT COUNT(*) FROM parents WHERE email = ?`, email)
	return count > 0, err
}
