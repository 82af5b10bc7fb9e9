package controllers

import (
	"errors"
	"net/http"

	"certificate-management-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInstructorInvalid),
		errors.Is(err, services.ErrInvalidBlockCount),
		errors.Is(err, services.ErrInvalidCertificateType),
		errors.Is(err, services.ErrNumberPatternMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateNumber),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrBatchHasCertificates),
		errors.Is(err, services.ErrUserHasBatches):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
