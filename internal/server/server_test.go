package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	ceremonydomain "github.com/vowsuite/vowsuite/internal/ceremony/domain"
	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
	"github.com/vowsuite/vowsuite/internal/invite"
	notifdomain "github.com/vowsuite/vowsuite/internal/notification/domain"
	"github.com/vowsuite/vowsuite/internal/oauth"
	"github.com/vowsuite/vowsuite/internal/rsvp"
	"github.com/vowsuite/vowsuite/internal/rsvp/token"
	"go.uber.org/zap"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	return r
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid token", token.ErrInvalidToken, http.StatusBadRequest},
		{"event not found", eventdomain.ErrNotFound, http.StatusNotFound},
		{"guest not found", guestdomain.ErrNotFound, http.StatusNotFound},
		{"ceremony invalid meal", ceremonydomain.ErrInvalidMealOption, http.StatusBadRequest},
		{"ceremony duplicate meal", ceremonydomain.ErrDuplicateMealOption, http.StatusBadRequest},
		{"plus one not allowed", guestdomain.ErrPlusOneNotAllowed, http.StatusBadRequest},
		{"oauth state", oauth.ErrInvalidState, http.StatusBadRequest},
		{"oauth client missing", oauth.ErrMissingClientConfig, http.StatusBadRequest},
		{"oauth provider unknown", oauth.ErrProviderNotFound, http.StatusNotFound},
		{"oauth identity lookup", oauth.ErrIdentityLookup, http.StatusBadGateway},
		{"channel not configured", notifdomain.ErrChannelNotConfigured, http.StatusBadRequest},
		{"invalid channel", invite.ErrInvalidChannel, http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestEngine()
			r.GET("/fail", func(c *gin.Context) {
				AbortWithError(c, tc.err)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorMappingValidationFields(t *testing.T) {
	r := newTestEngine()
	r.GET("/fail", func(c *gin.Context) {
		AbortWithError(c, &rsvp.ValidationError{Fields: []rsvp.FieldError{
			{Field: "rsvp_status", Message: "rsvp_status must be confirmed or declined"},
		}})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	if assert.Len(t, body.Errors, 1) {
		assert.Equal(t, "rsvp_status", body.Errors[0].Field)
	}
}

func TestAdminRequired(t *testing.T) {
	newServer := func(adminToken string) *gin.Engine {
		r := newTestEngine()
		s := &Server{
			engine: r,
			cfg:    config.Config{AdminToken: adminToken},
			log:    zap.NewNop(),
		}
		r.GET("/admin", s.AdminRequired(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return r
	}

	do := func(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing token rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(newServer("secret"), "").Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(newServer("secret"), "Bearer nope").Code)
	})

	t.Run("valid token accepted", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(newServer("secret"), "Bearer secret").Code)
	})

	t.Run("empty configured token disables the check", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(newServer(""), "").Code)
	})
}
