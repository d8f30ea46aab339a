package httpserver

import (
	"net/http"
	"strconv"

	"nanoeats/internal/domain"
	userrepo "nanoeats/internal/repository/user"
	promosvc "nanoeats/internal/service/promo"

	"github.com/gin-gonic/gin"
)

type validatePromoRequest struct {
	Code         string `json:"code"`
	RestaurantID string `json:"restaurantId"`
	ChefID       string `json:"chefId"`
	Subtotal     int64  `json:"subtotal"`
}

func validatePromoHandler(svc *promosvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validatePromoRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "promo code is required"})
			return
		}

		vendor, err := domain.VendorRefFromIDs(req.RestaurantID, req.ChefID)
		if err != nil {
			respondError(c, err)
			return
		}

		res, err := svc.Validate(c.Request.Context(), currentUser(c), vendor, req.Code, req.Subtotal)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Promo code is valid", "promo": res})
	}
}

func loyaltyHandler(users userrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUser(c)

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if limit <= 0 {
			limit = 20
		}
		if page <= 0 {
			page = 1
		}

		ledger, err := users.LedgerByUser(c.Request.Context(), userID, limit, (page-1)*limit)
		if err != nil {
			respondError(c, err)
			return
		}
		if ledger == nil {
			ledger = []domain.LedgerEntry{}
		}

		c.JSON(http.StatusOK, gin.H{
			"nanoPoints": u.NanoPoints,
			"ledger":     ledger,
		})
	}
}
