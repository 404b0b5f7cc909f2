package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/pkg/helpers"
	"github.com/oksasatya/user-management/pkg/response"
)

// respondError maps service failures onto HTTP statuses. Business errors keep
// their fixed message; anything else is logged and reported as a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		response.Error[any](c, http.StatusBadRequest, "password too long", map[string]string{"password": "must be at most 72 bytes"})
		return
	}
	var appErr *application.AppError
	if !errors.As(err, &appErr) {
		if logger != nil {
			helpers.LogError(logger, "request failed", err, logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			})
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, appErr.Message, nil)
	case errors.Is(err, application.ErrFieldValidation):
		response.Error[any](c, http.StatusBadRequest, appErr.Message, map[string]string{appErr.Field: appErr.Message})
	case errors.Is(err, application.ErrInvalidCredential), errors.Is(err, application.ErrPrincipalNotFound):
		response.Error[any](c, http.StatusUnauthorized, appErr.Message, nil)
	case errors.Is(err, application.ErrPolicyViolation):
		response.Error[any](c, http.StatusUnprocessableEntity, appErr.Message, nil)
	case errors.Is(err, application.ErrMismatch):
		response.Error[any](c, http.StatusBadRequest, appErr.Message, nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, appErr.Message, nil)
	}
}
