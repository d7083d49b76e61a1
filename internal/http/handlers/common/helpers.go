package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/middleware"
	"github.com/mekaniko-ph/mekaniko-backend/internal/logger"
	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

var (
	// ErrAuthNotFound is returned when the auth context is missing from the
	// request, which means AuthMiddleware did not run.
	ErrAuthNotFound = errors.New("auth context not found in request")

	ErrInvalidUUID = errors.New("invalid UUID format")
)

// CurrentAuth extracts the caller's auth context set by AuthMiddleware.
func CurrentAuth(c *gin.Context) (valueobject.AuthContext, error) {
	raw, exists := c.Get(middleware.ContextAuthKey)
	if !exists {
		return valueobject.AuthContext{}, ErrAuthNotFound
	}

	auth, ok := raw.(valueobject.AuthContext)
	if !ok {
		return valueobject.AuthContext{}, ErrAuthNotFound
	}

	return auth, nil
}

// ParseUUIDParam parses a UUID from a URL parameter.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("parameter %s is missing", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// BindAndValidate binds the JSON body and wraps binding failures.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}
	return nil
}

// RespondError sends a standardized error response.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondBadRequest sends a 400 response.
func RespondBadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, message)
}

// RespondUnauthorized sends a 401 response.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondJSON sends a JSON response with the given status code.
func RespondJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// HandleError maps an error from the use-case layer onto an HTTP response.
// Application errors carry their own status and code; everything else is
// logged and masked.
func HandleError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request failed")
		}
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)})
		return
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("request failed")
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
