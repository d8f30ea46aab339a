package httpserver

import (
	"net/http"

	"nanoeats/internal/domain"
	cartsvc "nanoeats/internal/service/cart"
	"nanoeats/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	RestaurantID   string                       `json:"restaurantId"`
	ChefID         string                       `json:"chefId"`
	MenuItemID     string                       `json:"menuItemId"`
	Quantity       int                          `json:"quantity"`
	Customizations catalog.CustomizationRequest `json:"customizations"`
}

func addToCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}

		vendor, err := domain.VendorRefFromIDs(req.RestaurantID, req.ChefID)
		if err != nil {
			respondError(c, err)
			return
		}

		cart, err := svc.AddItem(c.Request.Context(), currentUser(c), vendor, req.MenuItemID, req.Quantity, req.Customizations)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": cart})
	}
}

type removeFromCartRequest struct {
	CartID     string `json:"cartId"`
	MenuItemID string `json:"menuItemId"`
}

func removeFromCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeFromCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CartID == "" || req.MenuItemID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "cartId and menuItemId are required"})
			return
		}

		cart, err := svc.RemoveItem(c.Request.Context(), currentUser(c), req.CartID, req.MenuItemID)
		if err != nil {
			respondError(c, err)
			return
		}
		if cart == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Item removed and cart deleted"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": cart})
	}
}

type updateCartItemRequest struct {
	CartID         string                        `json:"cartId"`
	MenuItemID     string                        `json:"menuItemId"`
	Quantity       int                           `json:"quantity"`
	Customizations *catalog.CustomizationRequest `json:"customizations"`
}

func updateCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CartID == "" || req.MenuItemID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "cartId, menuItemId, and quantity are required"})
			return
		}

		cart, err := svc.UpdateItem(c.Request.Context(), currentUser(c), req.CartID, req.MenuItemID, req.Quantity, req.Customizations)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "cart": cart})
	}
}

func getCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), currentUser(c), c.Param("cartId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

func getUserCartsHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		carts, err := svc.List(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if carts == nil {
			carts = []domain.Cart{}
		}
		c.JSON(http.StatusOK, gin.H{"carts": carts})
	}
}

func clearCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentUser(c), c.Param("cartId")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}
