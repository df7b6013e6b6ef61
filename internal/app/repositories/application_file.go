package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
	"github.com/stjtech/admissions/internal/pkg/logger"
)

// FileApplicationRepository stores one pretty-printed JSON file per
// application, named {referenceNumber}.json under a base directory.
type FileApplicationRepository struct {
	dir string
}

// NewFileApplicationRepository creates the base directory if needed.
func NewFileApplicationRepository(dir string) (*FileApplicationRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create applications directory")
		return nil, fmt.Errorf("failed to create applications directory %s: %w", dir, err)
	}
	return &FileApplicationRepository{dir: dir}, nil
}

func (r *FileApplicationRepository) path(reference string) string {
	return filepath.Join(r.dir, reference+".json")
}

// Save writes the application file. Exclusive create detects a
// reference collision and reports it as apperrors.ErrReferenceExists.
func (r *FileApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	data, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode application: %w", err)
	}

	f, err := os.OpenFile(r.path(app.ReferenceNumber), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return apperrors.ErrReferenceExists
		}
		logger.Error().Err(err).Str("reference", app.ReferenceNumber).Msg("Failed to create application file")
		return fmt.Errorf("failed to create application file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		// Remove the partial file so a retry with the same reference
		// does not trip the collision check.
		_ = os.Remove(r.path(app.ReferenceNumber))
		logger.Error().Err(err).Str("reference", app.ReferenceNumber).Msg("Failed to write application file")
		return fmt.Errorf("failed to write application file: %w", err)
	}

	return nil
}

// GetByReference reads one application file.
func (r *FileApplicationRepository) GetByReference(ctx context.Context, reference string) (*models.Application, error) {
	data, err := os.ReadFile(r.path(reference))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to read application file: %w", err)
	}

	app := &models.Application{}
	if err := json.Unmarshal(data, app); err != nil {
		return nil, fmt.Errorf("failed to decode application %s: %w", reference, err)
	}
	return app, nil
}

// GetAll reads every application file in the directory, newest first.
func (r *FileApplicationRepository) GetAll(ctx context.Context) ([]*models.Application, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read applications directory: %w", err)
	}

	apps := []*models.Application{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		reference := strings.TrimSuffix(entry.Name(), ".json")
		app, err := r.GetByReference(ctx, reference)
		if err != nil {
			logger.Warn().Err(err).Str("file", entry.Name()).Msg("Skipping unreadable application file")
			continue
		}
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})

	return apps, nil
}
