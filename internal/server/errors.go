package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	exportdomain "github.com/sparklinkhq/sparklink/internal/export/domain"
	gallerydomain "github.com/sparklinkhq/sparklink/internal/gallery/domain"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	publicsitedomain "github.com/sparklinkhq/sparklink/internal/publicsite/domain"
	"github.com/sparklinkhq/sparklink/internal/storage"
	templatedomain "github.com/sparklinkhq/sparklink/internal/template/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidUsername),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, profiledomain.ErrInvalidDisplayName),
		errors.Is(err, profiledomain.ErrInvalidTier),
		errors.Is(err, profiledomain.ErrInvalidColorScheme),
		errors.Is(err, pagedomain.ErrInvalidID),
		errors.Is(err, pagedomain.ErrInvalidType),
		errors.Is(err, pagedomain.ErrInvalidTitle),
		errors.Is(err, pagedomain.ErrInvalidSlug),
		errors.Is(err, pagedomain.ErrPasswordRequired),
		errors.Is(err, gallerydomain.ErrInvalidID),
		errors.Is(err, gallerydomain.ErrInvalidTitle),
		errors.Is(err, gallerydomain.ErrInvalidImage),
		errors.Is(err, templatedomain.ErrInvalidID),
		errors.Is(err, templatedomain.ErrSchemeUnsupported),
		errors.Is(err, exportdomain.ErrInvalidID),
		errors.Is(err, exportdomain.ErrNotExportable),
		errors.Is(err, publicsitedomain.ErrPageNotProtected),
		errors.Is(err, publicsitedomain.ErrPasswordRequired),
		errors.Is(err, storage.ErrUnsupportedContentType),
		errors.Is(err, storage.ErrImageTooLarge):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, publicsitedomain.ErrIncorrectPassword),
		errors.Is(err, pagedomain.ErrIncorrectPagePassword):
		return true
	default:
		return false
	}
}

// Tier-gated refusals surface as 403 so clients can prompt an upgrade.
func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, pagedomain.ErrPageLimitReached),
		errors.Is(err, pagedomain.ErrPasswordUnavailable),
		errors.Is(err, templatedomain.ErrTemplateLocked):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, pagedomain.ErrSlugTaken),
		errors.Is(err, pagedomain.ErrInvalidReorder),
		errors.Is(err, gallerydomain.ErrInvalidReorder):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, pagedomain.ErrNotFound),
		errors.Is(err, gallerydomain.ErrNotFound),
		errors.Is(err, templatedomain.ErrNotFound),
		errors.Is(err, publicsitedomain.ErrSiteNotFound),
		errors.Is(err, publicsitedomain.ErrPageNotFound),
		errors.Is(err, storage.ErrStorageDisabled),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
