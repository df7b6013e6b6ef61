package repositories

import (
	"context"

	"github.com/stjtech/admissions/internal/app/models"
)

// ApplicationRepository is the persistence sink for accepted
// applications. Save must return apperrors.ErrReferenceExists when the
// record's reference number is already in use, so the caller can
// regenerate and retry.
type ApplicationRepository interface {
	Save(ctx context.Context, app *models.Application) error
	GetByReference(ctx context.Context, reference string) (*models.Application, error)
	GetAll(ctx context.Context) ([]*models.Application, error)
}
