package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/app/models/dto"
	"github.com/stjtech/admissions/internal/app/repositories"
	"github.com/stjtech/admissions/internal/notify"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
	"github.com/stjtech/admissions/internal/pkg/refnum"
	"github.com/stjtech/admissions/internal/pkg/sanitize"
	"github.com/stjtech/admissions/internal/pkg/validation"
)

// RequiredFields is the canonical server-side required field list. It
// is a superset of the form's required inputs; the server never trusts
// the client to have enforced it.
var RequiredFields = []string{
	"firstName", "lastName", "email", "phone", "dob", "gender",
	"idNumber", "address", "city", "county",
	"emergencyName", "emergencyPhone", "relationship",
	"lastSchool", "graduationYear", "qualification",
	"programme", "programmeLevel", "startDate",
	"disabilityType", "signLanguage", "currentEmployment",
	"motivation", "goals",
}

// ApplicationService owns the server-side submission pipeline:
// re-validation, sanitisation, reference allocation, persistence and
// notification dispatch.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, req *dto.SubmissionRequest) (*models.Application, error)
	GetApplicationByReference(ctx context.Context, reference string) (*models.Application, error)
	GetAllApplications(ctx context.Context) ([]*models.Application, error)
}

type applicationServiceImpl struct {
	repo              repositories.ApplicationRepository
	generator         *refnum.Generator
	notifier          notify.Notifier
	logger            zerolog.Logger
	referenceAttempts int
	now               func() time.Time
}

// NewApplicationService creates a new application service instance.
func NewApplicationService(
	repo repositories.ApplicationRepository,
	generator *refnum.Generator,
	notifier notify.Notifier,
	referenceAttempts int,
	logger zerolog.Logger,
) ApplicationService {
	if referenceAttempts < 1 {
		referenceAttempts = 1
	}
	return &applicationServiceImpl{
		repo:              repo,
		generator:         generator,
		notifier:          notifier,
		logger:            logger,
		referenceAttempts: referenceAttempts,
		now:               time.Now,
	}
}

// SubmitApplication runs the full pipeline for one submission. The
// reference number is assigned only after validation passes, and
// submittedAt reflects the server clock, never a client-claimed time.
func (s *applicationServiceImpl) SubmitApplication(ctx context.Context, req *dto.SubmissionRequest) (*models.Application, error) {
	if err := s.sweepRequiredFields(req); err != nil {
		return nil, err
	}

	// Re-validate formats independently of the client. These fail fast
	// rather than aggregating.
	at := s.now()
	if res := validation.Validate(validation.KindEmail, req.Email, true, at); !res.Valid {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidEmail, req.Email)
	}
	if res := validation.Validate(validation.KindPhone, req.Phone, true, at); !res.Valid {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidPhone, req.Phone)
	}

	app := s.assembleRecord(req)

	if err := s.persistWithReference(ctx, app); err != nil {
		return nil, err
	}

	// Best-effort: a failed or dropped notification never affects the
	// persistence-confirmed outcome.
	s.notifier.Enqueue(app)

	s.logger.Info().
		Str("reference", app.ReferenceNumber).
		Str("programme", app.ProgrammeInfo.Programme).
		Msg("Application accepted")

	return app, nil
}

// sweepRequiredFields collects every missing-or-blank required field
// instead of stopping at the first, so the client can show them all.
func (s *applicationServiceImpl) sweepRequiredFields(req *dto.SubmissionRequest) error {
	verr := &apperrors.ValidationError{}
	for _, field := range RequiredFields {
		if strings.TrimSpace(req.FieldValue(field)) == "" {
			verr.Errors = append(verr.Errors, apperrors.FieldError{
				Field:   field,
				Message: validation.MsgRequired,
			})
		}
	}
	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

// assembleRecord sanitises every free-text field uniformly and groups
// the flat payload into the stored block structure. Numeric fields are
// coerced with non-numeric input collapsing to 0; this is a documented
// lossy behaviour, not a data-quality guarantee.
func (s *applicationServiceImpl) assembleRecord(req *dto.SubmissionRequest) *models.Application {
	clean := sanitize.Clean

	return &models.Application{
		SubmittedAt: s.now(),
		PersonalInfo: models.PersonalInfo{
			FirstName:   clean(req.FirstName),
			LastName:    clean(req.LastName),
			Email:       strings.TrimSpace(req.Email),
			Phone:       clean(req.Phone),
			DateOfBirth: req.DOB,
			Gender:      clean(req.Gender),
			IDNumber:    clean(req.IDNumber),
		},
		AddressInfo: models.AddressInfo{
			Address:    clean(req.Address),
			City:       clean(req.City),
			County:     clean(req.County),
			PostalCode: clean(req.PostalCode),
		},
		EmergencyInfo: models.EmergencyContact{
			Name:         clean(req.EmergencyName),
			Phone:        clean(req.EmergencyPhone),
			Relationship: clean(req.Relationship),
		},
		Education: models.Education{
			LastSchool:     clean(req.LastSchool),
			GraduationYear: coerceInt(req.GraduationYear),
			Qualification:  clean(req.Qualification),
			Certificates:   clean(req.Certificates),
		},
		ProgrammeInfo: models.ProgrammeInfo{
			Programme: clean(req.Programme),
			Level:     clean(req.ProgrammeLevel),
			StartDate: req.StartDate,
		},
		DisabilityInfo: models.DisabilityInfo{
			Type:                   clean(req.DisabilityType),
			SupportNeeds:           clean(req.SupportNeeds),
			SignLanguageExperience: clean(req.SignLanguage),
		},
		Employment: models.Employment{
			Status:            clean(req.CurrentEmployment),
			JobTitle:          clean(req.JobTitle),
			YearsOfExperience: coerceInt(req.WorkExperience),
		},
		AdditionalInfo: models.AdditionalInfo{
			Motivation: clean(req.Motivation),
			Goals:      clean(req.Goals),
			Referral:   clean(req.Referral),
		},
	}
}

// persistWithReference allocates a reference number and persists the
// record, regenerating on a detected collision up to the attempt
// budget. Exhaustion is reported distinctly from a storage failure.
func (s *applicationServiceImpl) persistWithReference(ctx context.Context, app *models.Application) error {
	for attempt := 1; attempt <= s.referenceAttempts; attempt++ {
		app.ReferenceNumber = s.generator.Generate()

		err := s.repo.Save(ctx, app)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrReferenceExists) {
			s.logger.Warn().
				Str("reference", app.ReferenceNumber).
				Int("attempt", attempt).
				Msg("Reference number collision, regenerating")
			continue
		}
		app.ReferenceNumber = ""
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	app.ReferenceNumber = ""
	return apperrors.ErrReferenceExhausted
}

// GetApplicationByReference retrieves a stored application.
func (s *applicationServiceImpl) GetApplicationByReference(ctx context.Context, reference string) (*models.Application, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidationFailed)
	}

	app, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

// GetAllApplications retrieves all stored applications.
func (s *applicationServiceImpl) GetAllApplications(ctx context.Context) ([]*models.Application, error) {
	apps, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving applications: %w", err)
	}
	return apps, nil
}

func coerceInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
