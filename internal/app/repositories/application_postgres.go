package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
	"github.com/stjtech/admissions/internal/pkg/logger"
)

// PostgresApplicationRepository stores applications one row per record,
// keyed by the unique reference number.
type PostgresApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostgresApplicationRepository creates a postgres-backed repository.
func NewPostgresApplicationRepository(db *pgxpool.Pool) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// isDuplicateKeyError checks for a PostgreSQL unique violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var applicationColumns = []string{
	"reference_number", "submitted_at",
	"first_name", "last_name", "email", "phone", "date_of_birth", "gender", "id_number",
	"address", "city", "county", "postal_code",
	"emergency_name", "emergency_phone", "emergency_relationship",
	"last_school", "graduation_year", "qualification", "certificates",
	"programme", "programme_level", "start_date",
	"disability_type", "support_needs", "sign_language_experience",
	"employment_status", "job_title", "years_of_experience",
	"motivation", "goals", "referral",
}

// Save inserts an application. A unique violation on reference_number
// is reported as apperrors.ErrReferenceExists.
func (r *PostgresApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	sql, args, err := r.sb.Insert("applications").
		Columns(applicationColumns...).
		Values(
			app.ReferenceNumber, app.SubmittedAt,
			app.PersonalInfo.FirstName, app.PersonalInfo.LastName, app.PersonalInfo.Email,
			app.PersonalInfo.Phone, app.PersonalInfo.DateOfBirth, app.PersonalInfo.Gender,
			app.PersonalInfo.IDNumber,
			app.AddressInfo.Address, app.AddressInfo.City, app.AddressInfo.County,
			app.AddressInfo.PostalCode,
			app.EmergencyInfo.Name, app.EmergencyInfo.Phone, app.EmergencyInfo.Relationship,
			app.Education.LastSchool, app.Education.GraduationYear, app.Education.Qualification,
			app.Education.Certificates,
			app.ProgrammeInfo.Programme, app.ProgrammeInfo.Level, app.ProgrammeInfo.StartDate,
			app.DisabilityInfo.Type, app.DisabilityInfo.SupportNeeds,
			app.DisabilityInfo.SignLanguageExperience,
			app.Employment.Status, app.Employment.JobTitle, app.Employment.YearsOfExperience,
			app.AdditionalInfo.Motivation, app.AdditionalInfo.Goals, app.AdditionalInfo.Referral,
		).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building insert application SQL")
		return fmt.Errorf("failed to build insert application query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.ErrReferenceExists
		}
		logger.Error().Err(err).Str("reference", app.ReferenceNumber).Msg("Error inserting application")
		return fmt.Errorf("error inserting application: %w", err)
	}

	return nil
}

// GetByReference retrieves an application by its reference number.
func (r *PostgresApplicationRepository) GetByReference(ctx context.Context, reference string) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"reference_number": reference}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get application SQL")
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	app := &models.Application{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(scanTargets(app)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Str("reference", reference).Msg("Error scanning application row")
		return nil, fmt.Errorf("error getting application by reference: %w", err)
	}

	return app, nil
}

// GetAll retrieves all stored applications, newest first.
func (r *PostgresApplicationRepository) GetAll(ctx context.Context) ([]*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		OrderBy("submitted_at DESC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all applications SQL")
		return nil, fmt.Errorf("failed to build get all applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all applications query")
		return nil, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		app := &models.Application{}
		if err := rows.Scan(scanTargets(app)...); err != nil {
			logger.Error().Err(err).Msg("Error scanning application row during get all")
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating application rows")
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}

	return apps, nil
}

// scanTargets returns the scan destinations in applicationColumns order.
func scanTargets(app *models.Application) []any {
	return []any{
		&app.ReferenceNumber, &app.SubmittedAt,
		&app.PersonalInfo.FirstName, &app.PersonalInfo.LastName, &app.PersonalInfo.Email,
		&app.PersonalInfo.Phone, &app.PersonalInfo.DateOfBirth, &app.PersonalInfo.Gender,
		&app.PersonalInfo.IDNumber,
		&app.AddressInfo.Address, &app.AddressInfo.City, &app.AddressInfo.County,
		&app.AddressInfo.PostalCode,
		&app.EmergencyInfo.Name, &app.EmergencyInfo.Phone, &app.EmergencyInfo.Relationship,
		&app.Education.LastSchool, &app.Education.GraduationYear, &app.Education.Qualification,
		&app.Education.Certificates,
		&app.ProgrammeInfo.Programme, &app.ProgrammeInfo.Level, &app.ProgrammeInfo.StartDate,
		&app.DisabilityInfo.Type, &app.DisabilityInfo.SupportNeeds,
		&app.DisabilityInfo.SignLanguageExperience,
		&app.Employment.Status, &app.Employment.JobTitle, &app.Employment.YearsOfExperience,
		&app.AdditionalInfo.Motivation, &app.AdditionalInfo.Goals, &app.AdditionalInfo.Referral,
	}
}
