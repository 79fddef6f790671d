package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	ceremonydomain "github.com/vowsuite/vowsuite/internal/ceremony/domain"
)

func (s *Server) registerCeremonyRoutes() {
	events := s.engine.Group("/api/events", s.AdminRequired())
	events.POST("/:id/ceremonies", s.CreateCeremony)
	events.GET("/:id/ceremonies", s.ListCeremonies)

	ceremonies := s.engine.Group("/api/ceremonies", s.AdminRequired())
	ceremonies.GET("/:id", s.GetCeremony)
	ceremonies.PATCH("/:id", s.UpdateCeremony)
	ceremonies.DELETE("/:id", s.DeleteCeremony)
	ceremonies.POST("/:id/meal-options", s.AddMealOption)
	ceremonies.GET("/:id/meal-options", s.ListMealOptions)

	meals := s.engine.Group("/api/meal-options", s.AdminRequired())
	meals.DELETE("/:id", s.RemoveMealOption)
}

type createCeremonyRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	AttireCode  string     `json:"attire_code"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (s *Server) CreateCeremony(c *gin.Context) {
	var req createCeremonyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.ceremonySvc.Create(c.Request.Context(), ceremonydomain.CreateCeremonyRequest{
		EventID:     strings.TrimSpace(c.Param("id")),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		AttireCode:  strings.TrimSpace(req.AttireCode),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCeremonies(c *gin.Context) {
	resp, err := s.ceremonySvc.ListByEvent(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCeremony(c *gin.Context) {
	resp, err := s.ceremonySvc.GetByID(c.Request.Context(), ceremonydomain.GetCeremonyRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCeremonyRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	AttireCode  *string    `json:"attire_code"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (s *Server) UpdateCeremony(c *gin.Context) {
	var req updateCeremonyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.ceremonySvc.Update(c.Request.Context(), ceremonydomain.UpdateCeremonyRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		AttireCode:  req.AttireCode,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCeremony(c *gin.Context) {
	err := s.ceremonySvc.Delete(c.Request.Context(), ceremonydomain.GetCeremonyRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type createMealOptionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) AddMealOption(c *gin.Context) {
	var req createMealOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errMalformedRequest)
		return
	}

	resp, err := s.ceremonySvc.AddMealOption(c.Request.Context(), ceremonydomain.CreateMealOptionRequest{
		CeremonyID:  strings.TrimSpace(c.Param("id")),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMealOptions(c *gin.Context) {
	resp, err := s.ceremonySvc.ListMealOptions(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveMealOption(c *gin.Context) {
	if err := s.ceremonySvc.RemoveMealOption(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
