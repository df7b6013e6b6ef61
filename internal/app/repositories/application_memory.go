package repositories

import (
	"context"
	"sync"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
)

// MemoryApplicationRepository keeps applications in memory. Used in
// tests and for throwaway deployments.
type MemoryApplicationRepository struct {
	mu    sync.RWMutex
	byRef map[string]*models.Application
	order []string
}

// NewMemoryApplicationRepository creates an empty in-memory repository.
func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{byRef: make(map[string]*models.Application)}
}

// Save stores the application, rejecting duplicate reference numbers.
func (r *MemoryApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byRef[app.ReferenceNumber]; exists {
		return apperrors.ErrReferenceExists
	}

	stored := *app
	r.byRef[app.ReferenceNumber] = &stored
	r.order = append(r.order, app.ReferenceNumber)
	return nil
}

// GetByReference returns a copy of the stored application.
func (r *MemoryApplicationRepository) GetByReference(ctx context.Context, reference string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.byRef[reference]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

// GetAll returns stored applications in insertion order, newest last.
func (r *MemoryApplicationRepository) GetAll(ctx context.Context) ([]*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]*models.Application, 0, len(r.order))
	for _, ref := range r.order {
		copied := *r.byRef[ref]
		apps = append(apps, &copied)
	}
	return apps, nil
}
