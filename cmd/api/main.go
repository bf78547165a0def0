package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/strytechcompany/time2cart/internal/config"
	"github.com/strytechcompany/time2cart/internal/db"
	"github.com/strytechcompany/time2cart/internal/httpserver"
	"github.com/strytechcompany/time2cart/internal/notify"
	cartrepo "github.com/strytechcompany/time2cart/internal/repository/cart"
	intentrepo "github.com/strytechcompany/time2cart/internal/repository/intent"
	orderrepo "github.com/strytechcompany/time2cart/internal/repository/order"
	productrepo "github.com/strytechcompany/time2cart/internal/repository/product"
	reviewrepo "github.com/strytechcompany/time2cart/internal/repository/review"
	cartsvc "github.com/strytechcompany/time2cart/internal/service/cart"
	ordersvc "github.com/strytechcompany/time2cart/internal/service/order"
	paymentsvc "github.com/strytechcompany/time2cart/internal/service/payment"
	productsvc "github.com/strytechcompany/time2cart/internal/service/product"
	reviewsvc "github.com/strytechcompany/time2cart/internal/service/review"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	notifier := notify.NewLog(logger)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool)
	intentRepo := intentrepo.NewPostgres(dbpool)

	productService := productsvc.New(productRepo, notifier)
	cartService := cartsvc.New(cartRepo, productRepo)
	paymentService := paymentsvc.New(cartRepo, intentRepo, paymentsvc.Config{
		PayeeID:   cfg.UPIPayeeID,
		PayeeName: cfg.UPIPayeeName,
		TaxRateBP: cfg.TaxRateBP,
		TTL:       cfg.IntentTTL,
	})
	orderService := ordersvc.New(orderRepo, productRepo, cartRepo, notifier, logger)
	reviewService := reviewsvc.New(reviewRepo, orderRepo, productRepo, notifier)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc: productService,
		CartSvc:    cartService,
		PaymentSvc: paymentService,
		OrderSvc:   orderService,
		ReviewSvc:  reviewService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
