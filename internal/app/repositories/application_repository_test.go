package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
)

func testApplication(ref string, submittedAt time.Time) *models.Application {
	return &models.Application{
		ReferenceNumber: ref,
		SubmittedAt:     submittedAt,
		PersonalInfo: models.PersonalInfo{
			FirstName: "Jane",
			LastName:  "Wanjiku",
			Email:     "jane@example.com",
		},
		ProgrammeInfo: models.ProgrammeInfo{
			Programme: "electrical",
			Level:     "certificate",
			StartDate: "2025-09-01",
		},
	}
}

// repositoryBehaviour exercises the contract shared by every
// ApplicationRepository implementation.
func repositoryBehaviour(t *testing.T, repo ApplicationRepository) {
	ctx := context.Background()
	base := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	t.Run("save and get by reference", func(t *testing.T) {
		app := testApplication("STJT-2025-983400-0001", base)
		require.NoError(t, repo.Save(ctx, app))

		got, err := repo.GetByReference(ctx, app.ReferenceNumber)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.PersonalInfo.FirstName)
		assert.Equal(t, "electrical", got.ProgrammeInfo.Programme)
	})

	t.Run("duplicate reference is a collision", func(t *testing.T) {
		dup := testApplication("STJT-2025-983400-0001", base)
		err := repo.Save(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrReferenceExists)
	})

	t.Run("unknown reference is not found", func(t *testing.T) {
		_, err := repo.GetByReference(ctx, "STJT-2025-000000-0000")
		assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	})

	t.Run("get all returns every record", func(t *testing.T) {
		second := testApplication("STJT-2025-983400-0002", base.Add(time.Minute))
		require.NoError(t, repo.Save(ctx, second))

		apps, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	})
}

func TestMemoryApplicationRepository(t *testing.T) {
	repositoryBehaviour(t, NewMemoryApplicationRepository())
}

func TestFileApplicationRepository(t *testing.T) {
	repo, err := NewFileApplicationRepository(filepath.Join(t.TempDir(), "applications"))
	require.NoError(t, err)
	repositoryBehaviour(t, repo)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryApplicationRepository()
	app := testApplication("STJT-2025-983400-0001", time.Now())
	require.NoError(t, repo.Save(ctx, app))

	got, err := repo.GetByReference(ctx, app.ReferenceNumber)
	require.NoError(t, err)
	got.PersonalInfo.FirstName = "mutated"

	again, err := repo.GetByReference(ctx, app.ReferenceNumber)
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.PersonalInfo.FirstName)
}

func TestFileRepositoryWritesOneFilePerApplication(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "applications")
	repo, err := NewFileApplicationRepository(dir)
	require.NoError(t, err)

	app := testApplication("STJT-2025-983400-0001", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, app))

	data, err := os.ReadFile(filepath.Join(dir, app.ReferenceNumber+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"referenceNumber": "STJT-2025-983400-0001"`)
}

func TestFileRepositoryGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileApplicationRepository(filepath.Join(t.TempDir(), "applications"))
	require.NoError(t, err)

	base := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, testApplication("STJT-2025-983400-0001", base)))
	require.NoError(t, repo.Save(ctx, testApplication("STJT-2025-983400-0002", base.Add(time.Hour))))

	apps, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "STJT-2025-983400-0002", apps[0].ReferenceNumber)
	assert.Equal(t, "STJT-2025-983400-0001", apps[1].ReferenceNumber)
}

func TestFileRepositoryGetAllSkipsUnreadableFiles(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "applications")
	repo, err := NewFileApplicationRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, testApplication("STJT-2025-983400-0001", time.Now().UTC())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{nope"), 0o644))

	apps, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}
