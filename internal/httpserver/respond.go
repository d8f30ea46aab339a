package httpserver

import (
	"net/http"

	"nanoeats/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps a core error kind to a status code. Storage-layer
// error text never reaches the client; unknown failures become a bare
// 500.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)

	var status int
	switch kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindInsufficient:
		status = http.StatusUnprocessableEntity
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	c.JSON(status, gin.H{"message": err.Error(), "kind": string(kind)})
}

const userIDHeader = "X-User-ID"

// requireUser pulls the caller identity set by the auth gateway.
// Auth itself is out of scope here; the gateway strips any client-set
// values before proxying.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing user identity"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString("userID")
}
