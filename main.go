// File: tabeza/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tabeza/config"
	"tabeza/database"
	orderRepoPkg "tabeza/database/repository/order"
	paymentRepoPkg "tabeza/database/repository/payment"
	tabRepoPkg "tabeza/database/repository/tab"
	venueRepoPkg "tabeza/database/repository/venue"
	"tabeza/gateway/mpesa"
	"tabeza/handlers"
	"tabeza/routes"
	orderSvc "tabeza/services/order"
	paymentSvc "tabeza/services/payment"
	tabSvc "tabeza/services/tab"
	"tabeza/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to database: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schema: %v", err)
	}
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.SetupCORS(router)

	// repositories.
	venueRepo := venueRepoPkg.NewSQLVenueRepo(db)
	tabRepo := tabRepoPkg.NewSQLTabRepo(db)
	orderRepo := orderRepoPkg.NewSQLOrderRepo(db)
	paymentRepo := paymentRepoPkg.NewSQLPaymentRepo(db)

	// gateway.
	gateway := mpesa.NewClient(mpesa.Config{
		BaseURL:        config.AppConfig.MpesaBaseURL,
		ConsumerKey:    config.AppConfig.MpesaConsumerKey,
		ConsumerSecret: config.AppConfig.MpesaConsumerSecret,
		GlobalPasskey:  config.AppConfig.MpesaPasskey,
		CallbackURL:    config.AppConfig.MpesaCallbackURL,
		Timeout:        config.AppConfig.MpesaTimeout,
	}, utils.GetCacheClient())

	// services.
	tabService := tabSvc.NewTabService(tabRepo, orderRepo, paymentRepo, venueRepo)
	orderService := orderSvc.NewOrderService(orderRepo, tabRepo)
	paymentService := paymentSvc.NewPaymentService(paymentRepo, tabRepo, venueRepo, gateway)

	// handlers and routes.
	routes.RegisterTabRoutes(router, handlers.NewTabHandler(tabService))
	routes.RegisterOrderRoutes(router, handlers.NewOrderHandler(orderService))
	routes.RegisterPaymentRoutes(router, handlers.NewPaymentHandler(paymentService))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
