package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	guestdomain "github.com/vowsuite/vowsuite/internal/guest/domain"
)

func (s *Server) registerGuestRoutes() {
	events := s.engine.Group("/api/events", s.AdminRequired())
	events.POST("/:id/guests", s.CreateGuest)
	events.GET("/:id/guests", s.ListGuests)

	guests := s.engine.Group("/api/guests", s.AdminRequired())
	guests.GET("/:id", s.GetGuest)
	guests.PATCH("/:id", s.UpdateGuest)
	guests.DELETE("/:id", s.DeleteGuest)
	guests.POST("/:id/rsvp", s.ApplyGuestRSVP)
}

type createGuestRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PlusOneAllowed bool   `json:"plus_one_allowed"`
}

func (s *Server) CreateGuest(c *gin.Context) {
	var req createGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.guestSvc.Create(c.Request.Context(), guestdomain.CreateGuestRequest{
		EventID:        strings.TrimSpace(c.Param("id")),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		PlusOneAllowed: req.PlusOneAllowed,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListGuests(c *gin.Context) {
	resp, err := s.guestSvc.ListByEvent(c.Request.Context(), guestdomain.ListGuestsRequest{
		EventID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGuest(c *gin.Context) {
	resp, err := s.guestSvc.GetByID(c.Request.Context(), guestdomain.GetGuestRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateGuestRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	PlusOneAllowed *bool   `json:"plus_one_allowed"`
}

func (s *Server) UpdateGuest(c *gin.Context) {
	var req updateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.guestSvc.Update(c.Request.Context(), guestdomain.UpdateGuestRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		PlusOneAllowed: req.PlusOneAllowed,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteGuest(c *gin.Context) {
	err := s.guestSvc.Delete(c.Request.Context(), guestdomain.GetGuestRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type applyGuestRSVPRequest struct {
	Status           string `json:"rsvp_status"`
	PlusOneConfirmed bool   `json:"plus_one_confirmed"`
	PlusOneName      string `json:"plus_one_name"`
	Children         []struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	} `json:"children"`
	DietaryRestrictions     string `json:"dietary_restrictions"`
	AccommodationPreference string `json:"accommodation_preference"`
}

// ApplyGuestRSVP lets organizers record or correct a response on a guest's
// behalf, bypassing the token flow.
func (s *Server) ApplyGuestRSVP(c *gin.Context) {
	var req applyGuestRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	guestID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, guestdomain.ErrInvalidID)
		return
	}

	children := make([]guestdomain.ChildDetail, 0, len(req.Children))
	for _, child := range req.Children {
		children = append(children, guestdomain.ChildDetail{Name: child.Name, Age: child.Age})
	}

	resp, err := s.guestSvc.ApplyRSVP(c.Request.Context(), guestdomain.ApplyRSVPRequest{
		GuestID:                 guestID,
		Status:                  guestdomain.RSVPStatus(strings.TrimSpace(req.Status)),
		PlusOneConfirmed:        req.PlusOneConfirmed,
		PlusOneName:             strings.TrimSpace(req.PlusOneName),
		Children:                children,
		DietaryRestrictions:     req.DietaryRestrictions,
		AccommodationPreference: req.AccommodationPreference,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
