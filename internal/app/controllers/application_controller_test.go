package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stjtech/admissions/internal/app/controllers"
	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/app/models/dto"
	"github.com/stjtech/admissions/internal/app/repositories"
	"github.com/stjtech/admissions/internal/app/routes"
	"github.com/stjtech/admissions/internal/app/services"
	"github.com/stjtech/admissions/internal/pkg/refnum"
)

type discardNotifier struct{}

func (discardNotifier) Enqueue(*models.Application) {}

// brokenRepository fails every save.
type brokenRepository struct {
	*repositories.MemoryApplicationRepository
}

func (r brokenRepository) Save(ctx context.Context, app *models.Application) error {
	return errors.New("disk on fire")
}

func newTestRouter(t *testing.T, repo repositories.ApplicationRepository, exposeDiagnostics bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := services.NewApplicationService(repo, refnum.NewGenerator(), discardNotifier{}, 5, zerolog.Nop())
	controller := controllers.NewApplicationController(service, exposeDiagnostics)

	router := gin.New()
	routes.SetupRouter(router, controller)
	return router
}

func validPayload() map[string]string {
	return map[string]string{
		"firstName":         "Jane",
		"lastName":          "Wanjiku",
		"email":             "jane.wanjiku@example.com",
		"phone":             "+254 712 345 678",
		"dob":               "2000-03-10",
		"gender":            "female",
		"idNumber":          "12345678",
		"address":           "PO Box 100",
		"city":              "Bondo",
		"county":            "Siaya",
		"emergencyName":     "Mary Wanjiku",
		"emergencyPhone":    "+254 722 000 111",
		"relationship":      "mother",
		"lastSchool":        "Bondo Secondary",
		"graduationYear":    "2020",
		"qualification":     "KCSE",
		"programme":         "electrical",
		"programmeLevel":    "certificate",
		"startDate":         "2030-09-01",
		"disabilityType":    "deaf",
		"signLanguage":      "fluent",
		"currentEmployment": "unemployed",
		"motivation":        "I want to learn a trade",
		"goals":             "Become a certified electrician",
	}
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSubmission(t *testing.T, w *httptest.ResponseRecorder) dto.SubmissionResponse {
	t.Helper()
	var resp dto.SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSubmitApplicationSuccess(t *testing.T) {
	repo := repositories.NewMemoryApplicationRepository()
	router := newTestRouter(t, repo, false)

	w := postJSON(router, "/api/v1/applications", validPayload())
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSubmission(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Application submitted successfully", resp.Message)
	assert.Regexp(t, `^STJT-\d{4}-\d{1,6}-\d{4}$`, resp.ReferenceNumber)

	// The acknowledged record really is retrievable.
	stored, err := repo.GetByReference(context.Background(), resp.ReferenceNumber)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.PersonalInfo.FirstName)
}

func TestSubmitApplicationLegacyPath(t *testing.T) {
	router := newTestRouter(t, repositories.NewMemoryApplicationRepository(), false)

	w := postJSON(router, "/submit_application", validPayload())
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeSubmission(t, w).Success)
}

func TestSubmitApplicationFormEncodedFallback(t *testing.T) {
	repo := repositories.NewMemoryApplicationRepository()
	router := newTestRouter(t, repo, false)

	values := url.Values{}
	for name, value := range validPayload() {
		values.Set(name, value)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSubmission(t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ReferenceNumber)
}

func TestSubmitApplicationMissingFields(t *testing.T) {
	repo := repositories.NewMemoryApplicationRepository()
	router := newTestRouter(t, repo, false)

	payload := validPayload()
	delete(payload, "firstName")
	delete(payload, "goals")

	w := postJSON(router, "/api/v1/applications", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeSubmission(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Contains(t, resp.Errors, "Field 'firstName' is required")
	assert.Contains(t, resp.Errors, "Field 'goals' is required")
	assert.Empty(t, resp.ReferenceNumber)

	apps, _ := repo.GetAll(context.Background())
	assert.Empty(t, apps, "rejected submissions must not be stored")
}

func TestSubmitApplicationInvalidEmail(t *testing.T) {
	repo := repositories.NewMemoryApplicationRepository()
	router := newTestRouter(t, repo, false)

	payload := validPayload()
	payload["email"] = "not-an-email"

	w := postJSON(router, "/api/v1/applications", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeSubmission(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid email address", resp.Message)

	apps, _ := repo.GetAll(context.Background())
	assert.Empty(t, apps)
}

func TestSubmitApplicationMalformedBody(t *testing.T) {
	router := newTestRouter(t, repositories.NewMemoryApplicationRepository(), false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("%%%not-a-body%%%"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeSubmission(t, w).Message)
}

func TestSubmitApplicationWrongMethod(t *testing.T) {
	router := newTestRouter(t, repositories.NewMemoryApplicationRepository(), false)

	req := httptest.NewRequest(http.MethodGet, "/submit_application", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	resp := decodeSubmission(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Method not allowed", resp.Message)
}

func TestSubmitApplicationStorageFailure(t *testing.T) {
	repo := brokenRepository{repositories.NewMemoryApplicationRepository()}

	t.Run("production hides diagnostics", func(t *testing.T) {
		router := newTestRouter(t, repo, false)
		w := postJSON(router, "/api/v1/applications", validPayload())

		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeSubmission(t, w)
		assert.Equal(t, "An error occurred while processing your application", resp.Message)
		assert.Empty(t, resp.Error)
	})

	t.Run("development exposes diagnostics", func(t *testing.T) {
		router := newTestRouter(t, repo, true)
		w := postJSON(router, "/api/v1/applications", validPayload())

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, decodeSubmission(t, w).Error, "disk on fire")
	})
}

func TestGetApplicationByReference(t *testing.T) {
	repo := repositories.NewMemoryApplicationRepository()
	router := newTestRouter(t, repo, false)

	submitted := decodeSubmission(t, postJSON(router, "/api/v1/applications", validPayload()))
	require.NotEmpty(t, submitted.ReferenceNumber)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/"+submitted.ReferenceNumber, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), submitted.ReferenceNumber)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/STJT-2025-000000-0000", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetAllApplications(t *testing.T) {
	repo := repositories.NewMemoryApplicationRepository()
	router := newTestRouter(t, repo, false)

	postJSON(router, "/api/v1/applications", validPayload())
	postJSON(router, "/api/v1/applications", validPayload())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []*models.Application `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
}

func TestGetProgrammes(t *testing.T) {
	router := newTestRouter(t, repositories.NewMemoryApplicationRepository(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/programmes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Electrical Installation")
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, repositories.NewMemoryApplicationRepository(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "STJT Application Server")
}
