package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chatbi/internal/errors"
)

// respondError translates any error into a JSON envelope with a
// machine-readable code. Predictable bad-input conditions become 4xx,
// pool exhaustion a retryable 503; only genuinely unexpected failures
// fall through to 500.
func (s *Server) respondError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	status := statusForCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeColumnNotFound,
		apperrors.CodeEmptyInput,
		apperrors.CodeInvalidThreshold,
		apperrors.CodeInvalidInput,
		apperrors.CodeValidationError,
		apperrors.CodeQueryRejected:
		return http.StatusBadRequest
	case apperrors.CodeInsufficientData,
		apperrors.CodeNonNumericColumn:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodePoolUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
