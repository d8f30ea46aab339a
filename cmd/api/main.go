package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nanoeats/internal/config"
	"nanoeats/internal/db"
	"nanoeats/internal/httpserver"
	addressrepo "nanoeats/internal/repository/address"
	cartrepo "nanoeats/internal/repository/cart"
	menuitemrepo "nanoeats/internal/repository/menuitem"
	orderrepo "nanoeats/internal/repository/order"
	"nanoeats/internal/repository/popularity"
	promorepo "nanoeats/internal/repository/promo"
	userrepo "nanoeats/internal/repository/user"
	vendorrepo "nanoeats/internal/repository/vendor"
	billingsvc "nanoeats/internal/service/billing"
	cartsvc "nanoeats/internal/service/cart"
	catalogsvc "nanoeats/internal/service/catalog"
	"nanoeats/internal/service/notification"
	ordersvc "nanoeats/internal/service/order"
	promosvc "nanoeats/internal/service/promo"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	menuItemRepo := menuitemrepo.NewPostgres(dbpool)
	vendorRepo := vendorrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	promoRepo := promorepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)
	addressRepo := addressrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	popularityCounter := popularity.NewRedis(redisClient)
	notifier := notification.NewKafka(cfg.KafkaBroker, cfg.KafkaTopic, logger)

	catalogService := catalogsvc.New(menuItemRepo, vendorRepo)
	cartService := cartsvc.New(cartRepo, catalogService, logger)
	billingCalc := billingsvc.New(cfg.Fees)
	promoService := promosvc.New(promoRepo, orderRepo, userRepo, cfg.Fees.PointValue)
	orderService := ordersvc.New(orderRepo, cartRepo, addressRepo, promoService, billingCalc, popularityCounter, notifier, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		CatalogSvc:  catalogService,
		OrderSvc:    orderService,
		PromoSvc:    promoService,
		UserRepo:    userRepo,
		AddressRepo: addressRepo,
		Popularity:  popularityCounter,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go reapCarts(janitorCtx, cartService, cfg.CartExpiry, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// reapCarts periodically removes carts that have not been touched within
// maxAge. Abandoned carts would otherwise pin their vendor slot forever
// because each user holds at most one cart per vendor.
func reapCarts(ctx context.Context, carts *cartsvc.Service, maxAge time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := carts.ReapInactive(ctx, maxAge)
			if err != nil {
				logger.Printf("reap inactive carts: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("reaped %d inactive carts", n)
			}
		}
	}
}
