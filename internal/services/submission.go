package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huntable/treasurehunt-api/config"
	"github.com/huntable/treasurehunt-api/internal/ai"
	"github.com/huntable/treasurehunt-api/internal/database"
	"github.com/huntable/treasurehunt-api/internal/logger"
	"github.com/huntable/treasurehunt-api/internal/media"
	"github.com/huntable/treasurehunt-api/internal/models"
	"github.com/huntable/treasurehunt-api/internal/storage"
)

const defaultCriteria = "Photo should show completion of the activity."

// SubmissionService runs the photo pipeline: input checks, EXIF
// freshness, storage, AI validation, then the completion record and
// token award in one transaction.
type SubmissionService struct {
	db       *database.DB
	catalog  *CatalogService
	children *ChildService
	gateway  ai.Gateway
	store    storage.Store
	media    config.MediaConfig
	logger   *logger.Log

	// swappable in tests
	takenAt func([]byte) (time.Time, bool)
	now     func() time.Time
}

func NewSubmissionService(db *database.DB, catalog *CatalogService, children *ChildService,
	gateway ai.Gateway, store storage.Store, mediaCfg config.MediaConfig) *SubmissionService {
	return &SubmissionService{
		db:       db,
		catalog:  catalog,
		children: children,
		gateway:  gateway,
		store:    store,
		media:    mediaCfg,
		logger:   logger.New(),
		takenAt:  media.TakenAt,
		now:      time.Now,
	}
}

// Submit processes one photo attempt and returns the verdict. Each call
// that reaches the AI gateway writes exactly one completion row; stale
// or malformed uploads fail before any row is written.
func (s *SubmissionService) Submit(ctx context.Context, activityID, childID int64, photo []byte, contentType string) (*models.SubmissionResult, error) {
	if len(photo) == 0 {
		return nil, fmt.Errorf("%w: photo is empty", models.ErrInvalidInput)
	}
	if int64(len(photo)) > s.media.MaxUploadBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d byte limit", models.ErrInvalidInput, s.media.MaxUploadBytes)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: file must be an image", models.ErrInvalidInput)
	}

	activity, err := s.catalog.Get(activityID)
	if err != nil {
		return nil, err
	}
	child, err := s.children.GetChild(childID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	takenAt, hasExif := s.takenAt(photo)
	if !hasExif {
		// No EXIF timestamp: trust the upload time
		takenAt = now
	}

	maxAge := time.Duration(s.media.PhotoMaxAgeMinutes) * time.Minute
	if media.Stale(takenAt, now, maxAge) {
		return nil, fmt.Errorf("%w: photo taken %s, freshness window is %s",
			models.ErrStaleMedia, takenAt.Format(time.RFC3339), maxAge)
	}

	key := fmt.Sprintf("%d/%d/%s%s", activityID, childID, uuid.NewString(), extension(contentType))
	if err := s.store.Put(ctx, key, photo, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	aiPhoto, err := s.gatewayPhoto(ctx, key, photo, contentType)
	if err != nil {
		return nil, err
	}

	criteria := activity.ValidationPrompt
	if criteria == "" {
		criteria = defaultCriteria
	}

	verdict, err := s.gateway.ValidatePhoto(ctx, aiPhoto, activity.Description, criteria)
	if err != nil {
		return nil, err
	}

	awarded := 0
	if verdict.Valid {
		awarded = activity.TokensReward
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(tx.Rebind(
		`INSERT INTO completions (child_id, activity_id, photo_key, photo_taken_at, validated, reasoning, tokens_awarded, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		childID, activityID, key, takenAt, verdict.Valid, verdict.Reasoning, awarded, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	if verdict.Valid {
		if err := s.children.AwardTokens(tx, childID, awarded); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Child %s submitted photo for %q: valid=%t awarded=%d",
		child.Name, activity.Title, verdict.Valid, awarded))

	return &models.SubmissionResult{
		Valid:         verdict.Valid,
		Reasoning:     verdict.Reasoning,
		TokensAwarded: awarded,
	}, nil
}

// gatewayPhoto decides between inline and by-reference delivery based
// on the upstream size limits.
func (s *SubmissionService) gatewayPhoto(ctx context.Context, key string, photo []byte, contentType string) (ai.Photo, error) {
	if int64(len(photo)) <= s.media.MaxInlineBytes {
		return ai.Photo{Data: photo, ContentType: contentType}, nil
	}

	url, err := s.store.PresignURL(ctx, key)
	if err != nil {
		if err == storage.ErrPresignUnsupported {
			return ai.Photo{}, fmt.Errorf("%w: photo too large for inline validation with %s storage",
				models.ErrInvalidInput, s.store.Name())
		}
		return ai.Photo{}, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	return ai.Photo{URL: url}, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".jpg"
	}
}
