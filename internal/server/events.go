package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
)

func (s *Server) registerEventRoutes() {
	g := s.engine.Group("/api/events", s.AdminRequired())

	g.POST("", s.CreateEvent)
	g.GET("", s.ListEvents)
	g.GET("/:id", s.GetEvent)
	g.PATCH("/:id", s.UpdateEvent)
	g.DELETE("/:id", s.DeleteEvent)

	g.PATCH("/:id/email-config", s.UpdateEmailConfig)
	g.GET("/:id/oauth-config", s.GetOAuthConfig)
	g.PATCH("/:id/oauth-config", s.UpdateOAuthConfig)
}

type createEventRequest struct {
	Title        string     `json:"title"`
	CoupleNames  string     `json:"couple_names"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	RSVPDeadline *time.Time `json:"rsvp_deadline"`
}

func (s *Server) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.eventSvc.Create(c.Request.Context(), eventdomain.CreateEventRequest{
		Title:        strings.TrimSpace(req.Title),
		CoupleNames:  strings.TrimSpace(req.CoupleNames),
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		RSVPDeadline: req.RSVPDeadline,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListEvents(c *gin.Context) {
	resp, err := s.eventSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEvent(c *gin.Context) {
	resp, err := s.eventSvc.GetByID(c.Request.Context(), eventdomain.GetEventRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateEventRequest struct {
	Title        *string    `json:"title"`
	CoupleNames  *string    `json:"couple_names"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	RSVPDeadline *time.Time `json:"rsvp_deadline"`
}

func (s *Server) UpdateEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.eventSvc.Update(c.Request.Context(), eventdomain.UpdateEventRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Title:        req.Title,
		CoupleNames:  req.CoupleNames,
		Description:  req.Description,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		RSVPDeadline: req.RSVPDeadline,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteEvent(c *gin.Context) {
	err := s.eventSvc.Delete(c.Request.Context(), eventdomain.GetEventRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type updateEmailConfigRequest struct {
	Provider    *string `json:"provider"`
	APIKey      *string `json:"api_key"`
	FromAddress *string `json:"from_address"`
	FromDomain  *string `json:"from_domain"`
	ReplyTo     *string `json:"reply_to"`

	UseGmail    *bool `json:"use_gmail"`
	UseOutlook  *bool `json:"use_outlook"`
	UseSendGrid *bool `json:"use_sendgrid"`

	SendGridAPIKey *string `json:"sendgrid_api_key"`

	UseWhatsApp           *bool   `json:"use_whatsapp"`
	WhatsAppPhoneNumberID *string `json:"whatsapp_phone_number_id"`
	WhatsAppAccessToken   *string `json:"whatsapp_access_token"`
}

func (s *Server) UpdateEmailConfig(c *gin.Context) {
	var req updateEmailConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.eventSvc.UpdateEmailConfig(c.Request.Context(), eventdomain.UpdateEmailConfigRequest{
		ID:                    strings.TrimSpace(c.Param("id")),
		Provider:              req.Provider,
		APIKey:                req.APIKey,
		FromAddress:           req.FromAddress,
		FromDomain:            req.FromDomain,
		ReplyTo:               req.ReplyTo,
		UseGmail:              req.UseGmail,
		UseOutlook:            req.UseOutlook,
		UseSendGrid:           req.UseSendGrid,
		SendGridAPIKey:        req.SendGridAPIKey,
		UseWhatsApp:           req.UseWhatsApp,
		WhatsAppPhoneNumberID: req.WhatsAppPhoneNumberID,
		WhatsAppAccessToken:   req.WhatsAppAccessToken,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOAuthConfig(c *gin.Context) {
	provider := eventdomain.EmailProvider(strings.TrimSpace(c.Query("provider")))

	resp, err := s.eventSvc.OAuthStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), provider)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateOAuthConfigRequest struct {
	Provider     string `json:"provider"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (s *Server) UpdateOAuthConfig(c *gin.Context) {
	var req updateOAuthConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	err := s.eventSvc.UpdateOAuthClient(c.Request.Context(), eventdomain.UpdateOAuthClientRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		Provider:     eventdomain.EmailProvider(strings.TrimSpace(req.Provider)),
		ClientID:     strings.TrimSpace(req.ClientID),
		ClientSecret: strings.TrimSpace(req.ClientSecret),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
