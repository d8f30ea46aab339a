package httpserver

import (
	"net/http"
	"strconv"

	"nanoeats/internal/domain"
	orderrepo "nanoeats/internal/repository/order"
	ordersvc "nanoeats/internal/service/order"

	"github.com/gin-gonic/gin"
)

type placeOrderRequest struct {
	CartID            string                 `json:"cartId"`
	DeliveryAddressID string                 `json:"deliveryAddressId"`
	PaymentMethod     string                 `json:"paymentMethod"`
	GatewayResponse   map[string]interface{} `json:"paymentGatewayResponse"`
	PromoCode         string                 `json:"promoCode"`
	RedeemPoints      int64                  `json:"redeemPoints"`
	Tip               int64                  `json:"tip"`
}

func placeOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		if req.CartID == "" || req.DeliveryAddressID == "" || req.PaymentMethod == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cart ID, delivery address ID, and payment method are required"})
			return
		}

		ord, pay, err := svc.PlaceOrder(c.Request.Context(), currentUser(c), ordersvc.PlaceOrderInput{
			CartID:          req.CartID,
			AddressID:       req.DeliveryAddressID,
			Method:          domain.PaymentMethod(req.PaymentMethod),
			GatewayResponse: req.GatewayResponse,
			PromoCode:       req.PromoCode,
			RedeemPoints:    req.RedeemPoints,
			Tip:             req.Tip,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"order":   ord,
			"payment": gin.H{"method": pay.Method, "status": pay.Status},
		})
	}
}

func getOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ord, pay, err := svc.Get(c.Request.Context(), currentUser(c), c.Param("orderId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order":   ord,
			"payment": gin.H{"method": pay.Method, "status": pay.Status, "amount": pay.Amount},
		})
	}
}

func getUserOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if limit <= 0 {
			limit = 10
		}
		if page <= 0 {
			page = 1
		}

		orders, total, err := svc.ListByUser(c.Request.Context(), currentUser(c), orderrepo.ListFilter{
			Status: domain.OrderStatus(c.Query("status")),
			Limit:  limit,
			Offset: (page - 1) * limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}

		totalPages := (total + limit - 1) / limit
		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"pagination": gin.H{
				"totalOrders": total,
				"totalPages":  totalPages,
				"currentPage": page,
				"hasNext":     (page-1)*limit+len(orders) < total,
				"hasPrev":     page > 1,
			},
		})
	}
}

func getOrderStatusHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := svc.GetStatus(c.Request.Context(), currentUser(c), c.Param("orderId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateOrderStatusHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "status is required"})
			return
		}

		orderID := c.Param("orderId")
		if err := svc.UpdateStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Order status updated successfully",
			"orderId":   orderID,
			"newStatus": req.Status,
		})
	}
}

func cancelOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")
		if err := svc.Cancel(c.Request.Context(), currentUser(c), orderID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "orderId": orderID})
	}
}

type paymentWebhookRequest struct {
	OrderID         string                 `json:"orderId"`
	PaymentStatus   string                 `json:"paymentStatus"`
	PaymentResponse map[string]interface{} `json:"paymentResponse"`
}

func paymentWebhookHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.PaymentStatus == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order ID and payment status are required"})
			return
		}

		if err := svc.RecordPaymentResult(c.Request.Context(), req.OrderID, domain.PaymentStatus(req.PaymentStatus), req.PaymentResponse); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":       "Payment status updated successfully",
			"orderId":       req.OrderID,
			"paymentStatus": req.PaymentStatus,
		})
	}
}
