package httpserver

import (
	"log"

	cartsvc "nanoeats/internal/service/cart"
	catalogsvc "nanoeats/internal/service/catalog"
	ordersvc "nanoeats/internal/service/order"
	promosvc "nanoeats/internal/service/promo"

	addressrepo "nanoeats/internal/repository/address"
	"nanoeats/internal/repository/popularity"
	userrepo "nanoeats/internal/repository/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the wired services the handlers dispatch to.
type Deps struct {
	CartSvc     *cartsvc.Service
	CatalogSvc  *catalogsvc.Service
	OrderSvc    *ordersvc.Service
	PromoSvc    *promosvc.Service
	UserRepo    userrepo.Repository
	AddressRepo addressrepo.Repository
	Popularity  popularity.Counter
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/menu", getVendorMenuHandler(deps.CatalogSvc, deps.Popularity))

	cart := router.Group("/cart", requireUser())
	{
		cart.POST("/add", addToCartHandler(deps.CartSvc))
		cart.DELETE("/remove", removeFromCartHandler(deps.CartSvc))
		cart.GET("", getUserCartsHandler(deps.CartSvc))
		cart.GET("/:cartId", getCartHandler(deps.CartSvc))
		cart.PUT("/update", updateCartItemHandler(deps.CartSvc))
		cart.DELETE("/clear/:cartId", clearCartHandler(deps.CartSvc))
	}

	orders := router.Group("/orders")
	{
		user := orders.Group("", requireUser())
		user.POST("/place", placeOrderHandler(deps.OrderSvc))
		user.GET("/details/:orderId", getOrderHandler(deps.OrderSvc))
		user.GET("/user", getUserOrdersHandler(deps.OrderSvc))
		user.GET("/status/:orderId", getOrderStatusHandler(deps.OrderSvc))
		user.PUT("/cancel/:orderId", cancelOrderHandler(deps.OrderSvc))
		user.POST("/validate-promo", validatePromoHandler(deps.PromoSvc))

		// Vendor/admin side; permission checks live in the gateway.
		orders.PUT("/edit-status/:orderId", updateOrderStatusHandler(deps.OrderSvc))

		// Payment gateway webhook (public).
		orders.POST("/payment/webhook", paymentWebhookHandler(deps.OrderSvc))
	}

	users := router.Group("/users")
	{
		me := users.Group("", requireUser())
		me.GET("/loyalty", loyaltyHandler(deps.UserRepo))
		me.GET("/addresses", getUserAddressesHandler(deps.AddressRepo))

		// Admin side; permission checks live in the gateway.
		users.POST("/loyalty/grant", grantPointsHandler(deps.UserRepo))
	}

	return router
}
