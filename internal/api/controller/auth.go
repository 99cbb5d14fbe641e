package controller

import (
	"net/http"
	"strings"

	"ctchen222/hotseat/internal/api/response"
	"ctchen222/hotseat/internal/api/token"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// RequireHandle rejects requests whose bearer handle was not issued for the game in the path.
func RequireHandle(handles token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			response.AbortWithError(c, http.StatusUnauthorized, "missing handle")
			return
		}

		sessionID, err := handles.Verify(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		if sessionID != c.Param("id") {
			response.AbortWithError(c, http.StatusForbidden, "handle was issued for another game")
			return
		}

		c.Next()
	}
}
