package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-service/config"
	"storefront-service/controllers"
	"storefront-service/middleware"
)

func Register(r *gin.Engine, cfg *config.Config, checkout *controllers.CheckoutController, webhook *controllers.WebhookController, cart *controllers.CartController, orders *controllers.OrdersController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Stripe webhook (no auth; gated by signature verification instead)
	r.POST("/api/webhooks/stripe", webhook.StripeWebhook)
	r.GET("/api/webhooks/stripe", webhook.Health)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(cfg.ClerkJWTPublicKey))

	api.POST("/checkout", middleware.RateLimit(), checkout.CreateCheckoutSession)
	api.GET("/checkout/session/:id", checkout.GetCheckoutSession)

	api.GET("/orders", orders.ListOrders)

	api.GET("/cart", cart.GetCart)
	api.POST("/cart", cart.AddItem)
	api.DELETE("/cart", cart.ClearCart)
	api.DELETE("/cart/items/:product_id", cart.RemoveItem)
}
