package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	"github.com/vowsuite/vowsuite/internal/oauth"
)

// Callbacks stay unguarded: the provider's redirect cannot carry the admin
// token, and the single-use state nonce authenticates the request instead.
func (s *Server) registerOAuthRoutes() {
	g := s.engine.Group("/api/oauth")

	for _, provider := range []string{"gmail", "outlook"} {
		pg := g.Group("/" + provider)
		pg.GET("/authorize", s.AdminRequired(), s.oauthAuthorize(provider))
		pg.GET("/callback", s.oauthCallback(provider))
	}

	g.POST("/refresh-token", s.AdminRequired(), s.RefreshOAuthToken)
	g.POST("/disconnect", s.AdminRequired(), s.DisconnectOAuth)
}

func (s *Server) oauthAuthorize(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID := strings.TrimSpace(c.Query("event_id"))
		if eventID == "" {
			AbortWithError(c, eventdomain.ErrInvalidID)
			return
		}

		resp, err := s.oauthSvc.Authorize(c.Request.Context(), oauth.AuthorizeRequest{
			EventID:  eventID,
			Provider: provider,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "auth_url": resp.URL})
	}
}

func (s *Server) oauthCallback(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if errCode := c.Query("error"); errCode != "" {
			s.log.Warn("oauth consent denied")
			AbortWithError(c, oauth.ErrInvalidState)
			return
		}

		resp, err := s.oauthSvc.Callback(c.Request.Context(), oauth.CallbackRequest{
			Provider: provider,
			State:    strings.TrimSpace(c.Query("state")),
			Code:     strings.TrimSpace(c.Query("code")),
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "Account connected",
			"event_id": resp.EventID.String(),
			"provider": resp.Provider,
			"account":  resp.Account,
		})
	}
}

type refreshTokenRequest struct {
	EventID  string `json:"event_id"`
	Provider string `json:"provider"`
}

func (s *Server) RefreshOAuthToken(c *gin.Context) {
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	eventID, err := snowflake.ParseString(strings.TrimSpace(req.EventID))
	if err != nil {
		AbortWithError(c, eventdomain.ErrInvalidID)
		return
	}

	if _, err := s.oauthSvc.Refresh(c.Request.Context(), eventID, strings.TrimSpace(req.Provider)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token refreshed"})
}

type disconnectOAuthRequest struct {
	EventID  string `json:"event_id"`
	Provider string `json:"provider"`
}

func (s *Server) DisconnectOAuth(c *gin.Context) {
	var req disconnectOAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	provider := eventdomain.EmailProvider(strings.TrimSpace(req.Provider))
	if err := s.eventSvc.DisconnectOAuth(c.Request.Context(), strings.TrimSpace(req.EventID), provider); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account disconnected"})
}
