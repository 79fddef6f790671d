package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	ceremonydomain "github.com/vowsuite/vowsuite/internal/ceremony/domain"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
	"github.com/vowsuite/vowsuite/internal/invite"
	notifdomain "github.com/vowsuite/vowsuite/internal/notification/domain"
	"github.com/vowsuite/vowsuite/internal/oauth"
	"github.com/vowsuite/vowsuite/internal/rsvp"
	"github.com/vowsuite/vowsuite/internal/rsvp/token"
	"gorm.io/gorm"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse is the uniform failure envelope. Success responses set
// success true and carry their own payload alongside.
type errorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors,omitempty"`
}

var (
	ErrUnauthorized     = errors.New("unauthorized")
	errMalformedRequest = errors.New("malformed_request")
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
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	var verr *rsvp.ValidationError
	if errors.As(err, &verr) {
		fields := make([]fieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, fieldError{Field: f.Field, Message: f.Message})
		}
		return http.StatusBadRequest, errorResponse{
			Message: "Validation failed",
			Errors:  fields,
		}
	}

	switch {
	case errors.Is(err, errMalformedRequest):
		return http.StatusBadRequest, errorResponse{Message: "Invalid request body"}

	case errors.Is(err, token.ErrInvalidToken):
		return http.StatusBadRequest, errorResponse{Message: "Invalid or expired RSVP token"}

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Message: "Unauthorized"}

	case errors.Is(err, oauth.ErrInvalidState):
		return http.StatusBadRequest, errorResponse{Message: "Invalid or expired authorization state"}
	case errors.Is(err, oauth.ErrMissingClientConfig):
		return http.StatusBadRequest, errorResponse{Message: "OAuth client is not configured for this event"}
	case errors.Is(err, oauth.ErrNoRefreshToken):
		return http.StatusBadRequest, errorResponse{Message: "No refresh token stored; reconnect the account"}
	case errors.Is(err, oauth.ErrProviderNotFound):
		return http.StatusNotFound, errorResponse{Message: "Unknown provider"}
	case errors.Is(err, oauth.ErrIncompleteTokenResponse),
		errors.Is(err, oauth.ErrIdentityLookup):
		return http.StatusBadGateway, errorResponse{Message: "Provider returned an unusable response"}

	case errors.Is(err, notifdomain.ErrChannelNotConfigured):
		return http.StatusBadRequest, errorResponse{Message: "No sending channel is configured for this event"}
	case errors.Is(err, invite.ErrInvalidChannel):
		return http.StatusBadRequest, errorResponse{Message: "Channel must be email, whatsapp or both"}

	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{Message: "Not found"}

	case isValidationError(err):
		return http.StatusBadRequest, errorResponse{Message: validationMessage(err)}

	default:
		return http.StatusInternalServerError, errorResponse{Message: "Internal server error"}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, eventdomain.ErrNotFound),
		errors.Is(err, guestdomain.ErrNotFound),
		errors.Is(err, ceremonydomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, eventdomain.ErrInvalidID),
		errors.Is(err, eventdomain.ErrInvalidTitle),
		errors.Is(err, eventdomain.ErrInvalidProvider),
		errors.Is(err, eventdomain.ErrInvalidDateRange),
		errors.Is(err, guestdomain.ErrInvalidID),
		errors.Is(err, guestdomain.ErrInvalidEvent),
		errors.Is(err, guestdomain.ErrInvalidName),
		errors.Is(err, guestdomain.ErrInvalidEmail),
		errors.Is(err, guestdomain.ErrInvalidStatus),
		errors.Is(err, guestdomain.ErrPlusOneNotAllowed),
		errors.Is(err, ceremonydomain.ErrInvalidID),
		errors.Is(err, ceremonydomain.ErrInvalidEvent),
		errors.Is(err, ceremonydomain.ErrInvalidName),
		errors.Is(err, ceremonydomain.ErrInvalidMealOption),
		errors.Is(err, ceremonydomain.ErrDuplicateMealOption):
		return true
	default:
		return false
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, eventdomain.ErrInvalidTitle):
		return "Title is required"
	case errors.Is(err, eventdomain.ErrInvalidProvider):
		return "Unknown email provider"
	case errors.Is(err, eventdomain.ErrInvalidDateRange):
		return "End date must not be before start date"
	case errors.Is(err, guestdomain.ErrInvalidName):
		return "First name is required"
	case errors.Is(err, guestdomain.ErrInvalidEmail):
		return "Email address is invalid"
	case errors.Is(err, guestdomain.ErrPlusOneNotAllowed):
		return "Plus one is not allowed for this guest"
	case errors.Is(err, ceremonydomain.ErrInvalidMealOption):
		return "Meal option does not belong to the ceremony"
	case errors.Is(err, ceremonydomain.ErrDuplicateMealOption):
		return "Meal option already exists for this ceremony"
	default:
		return "Invalid request"
	}
}
