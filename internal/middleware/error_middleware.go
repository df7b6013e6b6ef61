package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stjtech/admissions/internal/app/models/dto"
	"github.com/stjtech/admissions/internal/pkg/apperrors"
)

// HandleAPIError translates service errors for the read-only data
// endpoints. The submission endpoint has its own fixed wire format and
// does not go through here.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, dto.NewAPIError("Application not found"))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewAPIError(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewAPIError("Internal server error"))
	}
}
