package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminRequired guards management routes with the static admin bearer token.
// An empty configured token disables the check, which keeps local development
// working without extra setup.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		want := s.cfg.AdminToken
		if want == "" {
			c.Next()
			return
		}

		got := bearerToken(c.GetHeader("Authorization"))
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
