package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schollz/closestmatch"

	"github.com/huntable/treasurehunt-api/internal/ai"
	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/logger"
	"github.com/huntable/treasurehunt-api/internal/models"
)

// CatalogService owns the activity catalog: filtered listing and
// AI-backed generation. Activities are immutable once created.
type CatalogService struct {
	db      *database.DB
	gateway ai.Gateway
	logger  *logger.Log
}

func NewCatalogService(db *database.DB, gateway ai.Gateway) *CatalogService {
	return &CatalogService{
		db:      db,
		gateway: gateway,
		logger:  logger.New(),
	}
}

// List returns activities matching every supplied filter, newest first
func (s *CatalogService) List(filter models.ActivityFilter) ([]models.Activity, error) {
	query := `SELECT id, title, description, category, age_min, age_max, location, validation_prompt, tokens_reward, created_at
		FROM activities`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		if !filter.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, filter.Category)
		}
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Age != nil {
		conditions = append(conditions, "age_min <= ?", "age_max >= ?")
		args = append(args, *filter.Age, *filter.Age)
	}
	if filter.Location != "" {
		loc := s.normalizeLocation(filter.Location)
		conditions = append(conditions, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	activities := []models.Activity{}
	if err := s.db.Select(&activities, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Get retrieves one activity by id
func (s *CatalogService) Get(id int64) (*models.Activity, error) {
	var activity models.Activity
	err := s.db.Get(&activity,
		`SELECT id, title, description, category, age_min, age_max, location, validation_prompt, tokens_reward, created_at
		 FROM activities WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: activity %d", models.ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &activity, nil
}

// Generate asks the AI provider for new activities and persists them
func (s *CatalogService) Generate(ctx context.Context, req *models.GenerateActivitiesRequest) ([]models.Activity, error) {
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrInvalidInput, req.Category)
	}
	if req.AgeMin < models.MinChildAge || req.AgeMax > models.MaxChildAge || req.AgeMin > req.AgeMax {
		return nil, fmt.Errorf("%w: age band must satisfy %d <= age_min <= age_max <= %d",
			models.ErrInvalidInput, models.MinChildAge, models.MaxChildAge)
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	if req.Count > 20 {
		return nil, fmt.Errorf("%w: at most 20 activities per batch", models.ErrInvalidInput)
	}

	generated, err := s.gateway.GenerateActivities(ctx, ai.GenerateRequest{
		Category: req.Category,
		AgeMin:   req.AgeMin,
		AgeMax:   req.AgeMax,
		Location: req.Location,
		Count:    req.Count,
	})
	if err != nil {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(generated))
	for _, g := range generated {
		activity := models.Activity{
			Title:            g.Title,
			Description:      g.Description,
			Category:         req.Category,
			AgeMin:           req.AgeMin,
			AgeMax:           req.AgeMax,
			Location:         g.Location,
			ValidationPrompt: g.ValidationPrompt,
			TokensReward:     g.TokensReward,
			CreatedAt:        time.Now().UTC(),
		}

		id, err := s.db.InsertReturningID(
			`INSERT INTO activities (title, description, category, age_min, age_max, location, validation_prompt, tokens_reward, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			activity.Title, activity.Description, activity.Category, activity.AgeMin, activity.AgeMax,
			activity.Location, activity.ValidationPrompt, activity.TokensReward, activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to persist generated activity: %w", err)
		}
		activity.ID = id
		activities = append(activities, activity)
	}

	s.logger.Info(fmt.Sprintf("Generated %d %s activities for %s", len(activities), req.Category, req.Location))
	return activities, nil
}

// normalizeLocation snaps a free-text location onto a known one, so a
// misspelled suburb still matches ("Bondi Beech" -> "Bondi Beach").
func (s *CatalogService) normalizeLocation(loc string) string {
	var locations []string
	if err := s.db.Select(&locations, `SELECT DISTINCT location FROM activities`); err != nil || len(locations) == 0 {
		return loc
	}

	lower := strings.ToLower(loc)
	for _, known := range locations {
		if strings.Contains(strings.ToLower(known), lower) {
			return loc
		}
	}

	cm := closestmatch.New(locations, []int{2, 3})
	if best := cm.Closest(loc); best != "" {
		s.logger.Debug(fmt.Sprintf("Location %q matched to %q", loc, best))
		return best
	}
	return loc
}
