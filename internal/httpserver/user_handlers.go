package httpserver

import (
	"net/http"

	"nanoeats/internal/domain"
	addressrepo "nanoeats/internal/repository/address"
	userrepo "nanoeats/internal/repository/user"

	"github.com/gin-gonic/gin"
)

func getUserAddressesHandler(addresses addressrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		addrs, err := addresses.ListByUser(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if addrs == nil {
			addrs = []domain.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addrs})
	}
}

type grantPointsRequest struct {
	UserID string `json:"userId"`
	Points int64  `json:"points"`
}

// Admin-side bonus credit; the gateway guards who may call it.
func grantPointsHandler(users userrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req grantPointsRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "userId and points are required"})
			return
		}

		if err := users.GrantPoints(c.Request.Context(), req.UserID, req.Points, domain.LedgerBonus); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Points granted successfully",
			"userId":  req.UserID,
			"points":  req.Points,
		})
	}
}
