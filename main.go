package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storefront-service/catalog"
	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/logger"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Storefront] Failed to load config: ", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	catalogClient := catalog.NewClient(cfg.CatalogProjectID, cfg.CatalogDataset, cfg.CatalogAPIVersion, cfg.CatalogWriteToken)
	repo := repository.NewCatalogStore(catalogClient)
	if !repo.CanWrite() {
		logger.Log.Warn("Catalog write token is not set; order and customer writes are disabled")
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	redisClient := database.NewRedisClient(cfg.RedisURL)
	cartRepo := database.NewCartRepository(redisClient, cfg.CartTTL)

	customerSvc := services.NewCustomerService(repo, stripeSvc, logger.Log)
	checkoutSvc := services.NewCheckoutService(repo, stripeSvc, customerSvc, cfg.BaseURL, logger.Log)
	orderSvc := services.NewOrderService(repo, stripeSvc, logger.Log)

	checkoutController := controllers.NewCheckoutController(checkoutSvc, orderSvc, repo, stripeSvc, logger.Log)
	webhookController := controllers.NewWebhookController(orderSvc, stripeSvc, logger.Log)
	cartController := controllers.NewCartController(cartRepo, logger.Log)
	ordersController := controllers.NewOrdersController(repo, logger.Log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	routes.Register(r, cfg, checkoutController, webhookController, cartController, ordersController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("[Storefront] Running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
	log.Println("Server shutdown complete.")
}
