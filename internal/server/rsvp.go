package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
	"github.com/vowsuite/vowsuite/internal/invite"
	"github.com/vowsuite/vowsuite/internal/rsvp"
	"github.com/vowsuite/vowsuite/internal/rsvp/token"
)

func (s *Server) registerRSVPRoutes() {
	g := s.engine.Group("/api/rsvp")

	g.GET("/verify", s.VerifyRSVP)
	g.POST("/submit", s.SubmitRSVP)

	g.POST("/generate-links", s.AdminRequired(), s.GenerateRSVPLinks)
	g.POST("/send-invites", s.AdminRequired(), s.SendInvites)
}

func (s *Server) VerifyRSVP(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("token"))
	if raw == "" {
		AbortWithError(c, token.ErrInvalidToken)
		return
	}

	resp, err := s.rsvpSvc.Verify(c.Request.Context(), raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"guest":      resp.Guest,
		"event":      resp.Event,
		"ceremonies": resp.Ceremonies,
	})
}

type submitRSVPRequest struct {
	Token            string `json:"token"`
	Status           string `json:"rsvp_status"`
	PlusOneConfirmed bool   `json:"plus_one_confirmed"`
	PlusOneName      string `json:"plus_one_name"`
	Children         []struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	} `json:"children"`
	DietaryRestrictions     string `json:"dietary_restrictions"`
	AccommodationPreference string `json:"accommodation_preference"`
	Ceremonies              []struct {
		CeremonyID   string `json:"ceremony_id"`
		Attending    bool   `json:"attending"`
		MealOptionID string `json:"meal_option_id"`
	} `json:"ceremonies"`
}

func (s *Server) SubmitRSVP(c *gin.Context) {
	var req submitRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	children := make([]guestdomain.ChildDetail, 0, len(req.Children))
	for _, child := range req.Children {
		children = append(children, guestdomain.ChildDetail{Name: child.Name, Age: child.Age})
	}
	ceremonies := make([]rsvp.CeremonyResponse, 0, len(req.Ceremonies))
	for _, answer := range req.Ceremonies {
		ceremonies = append(ceremonies, rsvp.CeremonyResponse{
			CeremonyID:   answer.CeremonyID,
			Attending:    answer.Attending,
			MealOptionID: answer.MealOptionID,
		})
	}

	resp, err := s.rsvpSvc.Submit(c.Request.Context(), rsvp.SubmitRequest{
		Token:                   strings.TrimSpace(req.Token),
		Status:                  strings.TrimSpace(req.Status),
		PlusOneConfirmed:        req.PlusOneConfirmed,
		PlusOneName:             strings.TrimSpace(req.PlusOneName),
		Children:                children,
		DietaryRestrictions:     req.DietaryRestrictions,
		AccommodationPreference: req.AccommodationPreference,
		Ceremonies:              ceremonies,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"guest":         resp.Guest,
		"email_sent":    resp.EmailSent,
		"whatsapp_sent": resp.WhatsAppSent,
	})
}

type generateLinksRequest struct {
	EventID  string   `json:"event_id"`
	GuestIDs []string `json:"guest_ids"`
	BaseURL  string   `json:"base_url"`
}

func (s *Server) GenerateRSVPLinks(c *gin.Context) {
	var req generateLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	links, err := s.inviteSvc.GenerateLinks(c.Request.Context(), invite.GenerateLinksRequest{
		EventID:  strings.TrimSpace(req.EventID),
		GuestIDs: req.GuestIDs,
		BaseURL:  strings.TrimSpace(req.BaseURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "links": links})
}

type sendInvitesRequest struct {
	EventID  string   `json:"event_id"`
	GuestIDs []string `json:"guest_ids"`
	Channel  string   `json:"channel"`
	BaseURL  string   `json:"base_url"`
}

func (s *Server) SendInvites(c *gin.Context) {
	var req sendInvitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.inviteSvc.SendInvites(c.Request.Context(), invite.SendInvitesRequest{
		EventID:  strings.TrimSpace(req.EventID),
		GuestIDs: req.GuestIDs,
		Channel:  strings.TrimSpace(req.Channel),
		BaseURL:  strings.TrimSpace(req.BaseURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sent":     resp.Sent,
		"failed":   resp.Failed,
		"outcomes": resp.Outcomes,
	})
}
