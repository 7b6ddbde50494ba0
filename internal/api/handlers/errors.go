package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridian-grc/meridian/backend/internal/services"
)

// respondError maps service errors onto HTTP statuses so the transport
// layer can render field-level (400) versus action-level (404/409/403)
// feedback. Anything unrecognized is a storage-layer fault the caller may
// retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrOwnerInactive):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrControlNotFound),
		errors.Is(err, services.ErrEvidenceNotFound),
		errors.Is(err, services.ErrFrameworkNotFound),
		errors.Is(err, services.ErrRequirementNotFound),
		errors.Is(err, services.ErrPolicyNotFound),
		errors.Is(err, services.ErrRiskNotFound),
		errors.Is(err, services.ErrAlertNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProviderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, services.ErrAlreadyAcknowledged),
		errors.Is(err, services.ErrPolicyLocked),
		errors.Is(err, services.ErrFrameworkExists),
		errors.Is(err, services.ErrRequirementExists),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPolicyNotPublished):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
