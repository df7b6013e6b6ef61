package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/app/models/dto"
	"github.com/stjtech/admissions/internal/app/repositories"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
	"github.com/stjtech/admissions/internal/pkg/refnum"
)

// recordingNotifier captures enqueued applications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []*models.Application
}

func (n *recordingNotifier) Enqueue(app *models.Application) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, app)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// collidingRepository reports a reference collision for the first n
// saves, then delegates to the wrapped repository.
type collidingRepository struct {
	repositories.ApplicationRepository
	collisions int
	saves      int
}

func (r *collidingRepository) Save(ctx context.Context, app *models.Application) error {
	r.saves++
	if r.saves <= r.collisions {
		return apperrors.ErrReferenceExists
	}
	return r.ApplicationRepository.Save(ctx, app)
}

// brokenRepository fails every save with a storage error.
type brokenRepository struct {
	repositories.ApplicationRepository
}

func (r *brokenRepository) Save(ctx context.Context, app *models.Application) error {
	return errors.New("connection reset")
}

type ApplicationServiceSuite struct {
	suite.Suite
	repo     *repositories.MemoryApplicationRepository
	notifier *recordingNotifier
	service  ApplicationService
}

func (s *ApplicationServiceSuite) SetupTest() {
	s.repo = repositories.NewMemoryApplicationRepository()
	s.notifier = &recordingNotifier{}
	s.service = NewApplicationService(s.repo, refnum.NewGenerator(), s.notifier, 5, zerolog.Nop())
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceSuite))
}

func validRequest() *dto.SubmissionRequest {
	return &dto.SubmissionRequest{
		FirstName:         "Jane",
		LastName:          "Wanjiku",
		Email:             "jane.wanjiku@example.com",
		Phone:             "+254 712 345 678",
		DOB:               "2000-03-10",
		Gender:            "female",
		IDNumber:          "12345678",
		Address:           "PO Box 100",
		City:              "Bondo",
		County:            "Siaya",
		EmergencyName:     "Mary Wanjiku",
		EmergencyPhone:    "+254 722 000 111",
		Relationship:      "mother",
		LastSchool:        "Bondo Secondary",
		GraduationYear:    "2020",
		Qualification:     "KCSE",
		Programme:         "electrical",
		ProgrammeLevel:    "certificate",
		StartDate:         "2030-09-01",
		DisabilityType:    "deaf",
		SignLanguage:      "fluent",
		CurrentEmployment: "unemployed",
		Motivation:        "I want to learn a trade",
		Goals:             "Become a certified electrician",
	}
}

func (s *ApplicationServiceSuite) TestSubmitValidApplication() {
	before := time.Now()
	app, err := s.service.SubmitApplication(context.Background(), validRequest())
	s.Require().NoError(err)
	s.Require().NotNil(app)

	s.Run("assigns a well-formed reference number", func() {
		s.Regexp(`^STJT-\d{4}-\d{1,6}-\d{4}$`, app.ReferenceNumber)
	})

	s.Run("stamps the server clock", func() {
		s.False(app.SubmittedAt.Before(before))
		s.False(app.SubmittedAt.After(time.Now()))
	})

	s.Run("persists the record", func() {
		stored, err := s.repo.GetByReference(context.Background(), app.ReferenceNumber)
		s.Require().NoError(err)
		s.Equal("Jane", stored.PersonalInfo.FirstName)
		s.Equal("electrical", stored.ProgrammeInfo.Programme)
		s.Equal(2020, stored.Education.GraduationYear)
	})

	s.Run("dispatches one notification", func() {
		s.Equal(1, s.notifier.count())
	})
}

func (s *ApplicationServiceSuite) TestSubmitAggregatesMissingFields() {
	req := validRequest()
	req.FirstName = ""
	req.Email = "   " // whitespace counts as blank
	req.Goals = ""

	app, err := s.service.SubmitApplication(context.Background(), req)
	s.Require().Error(err)
	s.Nil(app)
	s.ErrorIs(err, apperrors.ErrValidationFailed)

	var verr *apperrors.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Len(verr.Errors, 3)
	s.Contains(verr.Messages(), "Field 'firstName' is required")
	s.Contains(verr.Messages(), "Field 'email' is required")
	s.Contains(verr.Messages(), "Field 'goals' is required")

	s.Equal(0, s.notifier.count())
	apps, _ := s.repo.GetAll(context.Background())
	s.Empty(apps, "rejected submissions must not be persisted")
}

func (s *ApplicationServiceSuite) TestSubmitRejectsInvalidEmail() {
	req := validRequest()
	req.Email = "not-an-email"

	_, err := s.service.SubmitApplication(context.Background(), req)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidEmail)

	apps, _ := s.repo.GetAll(context.Background())
	s.Empty(apps)
	s.Equal(0, s.notifier.count())
}

func (s *ApplicationServiceSuite) TestSubmitRejectsInvalidPhone() {
	req := validRequest()
	req.Phone = "12345"

	_, err := s.service.SubmitApplication(context.Background(), req)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidPhone)
}

func (s *ApplicationServiceSuite) TestSubmitSanitisesFreeText() {
	req := validRequest()
	req.FirstName = `  O\'Brien  `
	req.Motivation = "<script>alert(1)</script>"

	app, err := s.service.SubmitApplication(context.Background(), req)
	s.Require().NoError(err)

	s.Equal("O&#39;Brien", app.PersonalInfo.FirstName)
	s.Equal("&lt;script&gt;alert(1)&lt;/script&gt;", app.AdditionalInfo.Motivation)
}

func (s *ApplicationServiceSuite) TestSubmitCoercesNumericFields() {
	req := validRequest()
	req.GraduationYear = "not-a-year"
	req.WorkExperience = " 3 "

	app, err := s.service.SubmitApplication(context.Background(), req)
	s.Require().NoError(err)

	s.Equal(0, app.Education.GraduationYear)
	s.Equal(3, app.Employment.YearsOfExperience)
}

func (s *ApplicationServiceSuite) TestSubmitRetriesOnReferenceCollision() {
	repo := &collidingRepository{
		ApplicationRepository: repositories.NewMemoryApplicationRepository(),
		collisions:            2,
	}
	service := NewApplicationService(repo, refnum.NewGenerator(), s.notifier, 5, zerolog.Nop())

	app, err := service.SubmitApplication(context.Background(), validRequest())
	s.Require().NoError(err)
	s.NotEmpty(app.ReferenceNumber)
	s.Equal(3, repo.saves, "two collisions then one successful save")
}

func (s *ApplicationServiceSuite) TestSubmitExhaustsReferenceAttempts() {
	repo := &collidingRepository{
		ApplicationRepository: repositories.NewMemoryApplicationRepository(),
		collisions:            5,
	}
	service := NewApplicationService(repo, refnum.NewGenerator(), s.notifier, 5, zerolog.Nop())

	app, err := service.SubmitApplication(context.Background(), validRequest())
	s.Require().Error(err)
	s.Nil(app)
	s.ErrorIs(err, apperrors.ErrReferenceExhausted)
	s.NotErrorIs(err, apperrors.ErrPersistenceFailed)
	s.Equal(5, repo.saves)
	s.Equal(0, s.notifier.count())
}

func (s *ApplicationServiceSuite) TestSubmitWrapsStorageFailure() {
	repo := &brokenRepository{ApplicationRepository: repositories.NewMemoryApplicationRepository()}
	service := NewApplicationService(repo, refnum.NewGenerator(), s.notifier, 5, zerolog.Nop())

	_, err := service.SubmitApplication(context.Background(), validRequest())
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPersistenceFailed)
	s.NotErrorIs(err, apperrors.ErrReferenceExhausted)
	s.Equal(0, s.notifier.count())
}

func (s *ApplicationServiceSuite) TestGetApplicationByReference() {
	app, err := s.service.SubmitApplication(context.Background(), validRequest())
	s.Require().NoError(err)

	s.Run("found", func() {
		got, err := s.service.GetApplicationByReference(context.Background(), app.ReferenceNumber)
		s.Require().NoError(err)
		s.Equal(app.ReferenceNumber, got.ReferenceNumber)
	})

	s.Run("not found", func() {
		_, err := s.service.GetApplicationByReference(context.Background(), "STJT-2025-000000-0000")
		s.ErrorIs(err, apperrors.ErrApplicationNotFound)
	})

	s.Run("blank reference", func() {
		_, err := s.service.GetApplicationByReference(context.Background(), "  ")
		s.ErrorIs(err, apperrors.ErrValidationFailed)
	})
}

func (s *ApplicationServiceSuite) TestGetAllApplications() {
	_, err := s.service.SubmitApplication(context.Background(), validRequest())
	s.Require().NoError(err)

	second := validRequest()
	second.FirstName = "Otieno"
	_, err = s.service.SubmitApplication(context.Background(), second)
	s.Require().NoError(err)

	apps, err := s.service.GetAllApplications(context.Background())
	s.Require().NoError(err)
	s.Len(apps, 2)
}
