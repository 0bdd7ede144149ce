package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainsdomain "github.com/smallbiznis/sitekit/internal/domains/domain"
	leaddomain "github.com/smallbiznis/sitekit/internal/lead/domain"
	"github.com/smallbiznis/sitekit/internal/providers/deployer"
	"github.com/smallbiznis/sitekit/internal/providers/domainsearch"
	publishdomain "github.com/smallbiznis/sitekit/internal/publish/domain"
	sitedomain "github.com/smallbiznis/sitekit/internal/site/domain"
	templatedomain "github.com/smallbiznis/sitekit/internal/template/domain"
	wizarddomain "github.com/smallbiznis/sitekit/internal/wizard/domain"
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
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
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
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, sitedomain.ErrInvalidTenant):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, sitedomain.ErrSlugTaken),
		errors.Is(err, sitedomain.ErrInvalidTransition),
		errors.Is(err, wizarddomain.ErrStepNotReached),
		errors.Is(err, domainsdomain.ErrDomainUnavailable):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, domainsearch.ErrUnavailable),
		errors.Is(err, deployer.ErrUnavailable),
		errors.Is(err, deployer.ErrCredential),
		errors.Is(err, deployer.ErrRejected):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
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

// validationSentinels maps service-level validation errors onto the request
// field the tenant has to fix.
var validationSentinels = []struct {
	err     error
	field   string
	message string
}{
	{ErrInvalidRequest, "request", "invalid request"},
	{sitedomain.ErrInvalidID, "site_id", "site id is invalid"},
	{sitedomain.ErrInvalidTemplate, "template_id", "template id is invalid"},
	{sitedomain.ErrInvalidSlug, "slug", "slug is invalid"},
	{templatedomain.ErrInvalidID, "template_id", "template id is invalid"},
	{wizarddomain.ErrStepOutOfRange, "step", "step is out of range"},
	{domainsdomain.ErrInvalidDomain, "domain_name", "domain name is invalid"},
	{publishdomain.ErrNotConfirmed, "confirmed", "review must be confirmed before launch"},
	{publishdomain.ErrNoDomainSelection, "domain", "a domain selection is required before launch"},
	{publishdomain.ErrNoTemplate, "template_id", "a template is required before launch"},
	{leaddomain.ErrInvalidName, "name", "name is required"},
	{leaddomain.ErrNoContact, "contact", "a phone number or email is required"},
	{leaddomain.ErrInvalidSiteID, "site_id", "site id is invalid"},
}

func isValidationError(err error) bool {
	for _, s := range validationSentinels {
		if errors.Is(err, s.err) {
			return true
		}
	}
	return false
}

func validationErrorCode(err error) string {
	for _, s := range validationSentinels {
		if errors.Is(err, s.err) {
			return s.err.Error()
		}
	}
	return "invalid_request"
}

func validationErrorField(code string) string {
	for _, s := range validationSentinels {
		if s.err.Error() == code {
			return s.field
		}
	}
	return "request"
}

func validationErrorMessage(code string) string {
	for _, s := range validationSentinels {
		if s.err.Error() == code {
			return s.message
		}
	}
	return "invalid request"
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, sitedomain.ErrNotFound),
		errors.Is(err, sitedomain.ErrNotLive),
		errors.Is(err, templatedomain.ErrNotFound),
		errors.Is(err, wizarddomain.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog feeds the request logger the same taxonomy the response
// body uses.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	code := payload.Type
	if isValidationError(err) {
		code = validationErrorCode(err)
	}
	return payload.Type, code
}
