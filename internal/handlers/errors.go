// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

// respondServiceError maps the service's typed failures onto transport
// statuses. Anything outside the closed set is a server-side failure.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation      *apperrors.ValidationError
		conflict        *apperrors.ConflictError
		notFound        *apperrors.NotFoundError
		unauthenticated *apperrors.UnauthenticatedError
		persistence     *apperrors.PersistenceError
	)

	switch {
	case errors.As(err, &validation):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Message, validation.Details)
	case errors.As(err, &notFound):
		utils.NotFoundResponse(c, notFound.Error())
	case errors.As(err, &unauthenticated):
		utils.UnauthorizedResponse(c, unauthenticated.Error())
	case errors.As(err, &conflict):
		utils.ConflictResponse(c, conflict.Error())
	case errors.As(err, &persistence):
		logrus.WithError(persistence.Err).WithField("op", persistence.Op).Error("Store operation failed")
		utils.InternalErrorResponse(c, "")
	default:
		logrus.WithError(err).Error("Unexpected error")
		utils.InternalErrorResponse(c, "")
	}
}
