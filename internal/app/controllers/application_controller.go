package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/stjtech/admissions/internal/app/models"
	"github.com/stjtech/admissions/internal/app/models/dto"
	"github.com/stjtech/admissions/internal/app/services"
	"github.com/stjtech/admissions/internal/middleware"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
)

// ApplicationController handles enrollment application endpoints.
type ApplicationController struct {
	applicationService services.ApplicationService
	// exposeDiagnostics controls whether 500 responses carry the
	// underlying error string. Off in production.
	exposeDiagnostics bool
}

// NewApplicationController creates a new ApplicationController.
func NewApplicationController(applicationService services.ApplicationService, exposeDiagnostics bool) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		exposeDiagnostics:  exposeDiagnostics,
	}
}

// SubmitApplication handles an application submission
// @Summary Submit an enrollment application
// @Description Validates, stores and acknowledges an application; returns the assigned reference number
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.SubmissionRequest true "Application fields"
// @Success 200 {object} dto.SubmissionResponse "Application accepted"
// @Failure 400 {object} dto.SubmissionResponse "Validation failed"
// @Failure 405 {object} dto.SubmissionResponse "Wrong method"
// @Failure 500 {object} dto.SubmissionResponse "Persistence or allocation failure"
// @Router /applications [post]
func (c *ApplicationController) SubmitApplication(ctx *gin.Context) {
	req, ok := c.parseSubmission(ctx)
	if !ok {
		return
	}

	app, err := c.applicationService.SubmitApplication(ctx.Request.Context(), req)
	if err != nil {
		c.respondSubmissionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SubmissionResponse{
		Success:         true,
		Message:         "Application submitted successfully",
		ReferenceNumber: app.ReferenceNumber,
	})
}

// parseSubmission decodes the payload as JSON, falling back to
// form-encoded values before rejecting the request.
func (c *ApplicationController) parseSubmission(ctx *gin.Context) (*dto.SubmissionRequest, bool) {
	body, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.SubmissionResponse{
			Success: false,
			Message: "Unable to read request body",
		})
		return nil, false
	}

	req := &dto.SubmissionRequest{}
	if jsonErr := json.Unmarshal(body, req); jsonErr == nil {
		return req, true
	}

	values, formErr := url.ParseQuery(string(body))
	if formErr != nil || len(values) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.SubmissionResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return nil, false
	}

	req.FromForm(values)
	return req, true
}

func (c *ApplicationController) respondSubmissionError(ctx *gin.Context, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		ctx.JSON(http.StatusBadRequest, dto.SubmissionResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Messages(),
		})
	case errors.Is(err, apperrors.ErrInvalidEmail):
		ctx.JSON(http.StatusBadRequest, dto.SubmissionResponse{
			Success: false,
			Message: "Invalid email address",
		})
	case errors.Is(err, apperrors.ErrInvalidPhone):
		ctx.JSON(http.StatusBadRequest, dto.SubmissionResponse{
			Success: false,
			Message: "Invalid phone number",
		})
	case errors.Is(err, apperrors.ErrReferenceExhausted):
		ctx.JSON(http.StatusInternalServerError, dto.SubmissionResponse{
			Success: false,
			Message: "Unable to allocate a reference number, please try again",
		})
	default:
		resp := dto.SubmissionResponse{
			Success: false,
			Message: "An error occurred while processing your application",
		}
		if c.exposeDiagnostics {
			resp.Error = err.Error()
		}
		ctx.JSON(http.StatusInternalServerError, resp)
	}
}

// GetAllApplications lists stored applications
// @Summary List applications
// @Description Retrieves all stored applications, newest first
// @Tags applications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Application}
// @Failure 500 {object} dto.APIResponse
// @Router /applications [get]
func (c *ApplicationController) GetAllApplications(ctx *gin.Context) {
	apps, err := c.applicationService.GetAllApplications(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(apps))
}

// GetApplicationByReference fetches one application
// @Summary Get an application by reference number
// @Tags applications
// @Produce json
// @Param reference path string true "Reference number"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 404 {object} dto.APIResponse "Unknown reference"
// @Router /applications/{reference} [get]
func (c *ApplicationController) GetApplicationByReference(ctx *gin.Context) {
	reference := ctx.Param("reference")

	app, err := c.applicationService.GetApplicationByReference(ctx.Request.Context(), reference)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(app))
}

// GetProgrammes returns the programme catalogue
// @Summary List programmes open for application
// @Tags programmes
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Programme}
// @Router /programmes [get]
func (c *ApplicationController) GetProgrammes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(models.ProgrammeList()))
}
