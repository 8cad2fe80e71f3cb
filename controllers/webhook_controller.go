package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"storefront-service/catalog"
	"storefront-service/services"
)

type WebhookController struct {
	Orders *services.OrderService
	Stripe services.PaymentGateway
	Logger *zap.Logger
}

func NewWebhookController(orders *services.OrderService, gateway services.PaymentGateway, logger *zap.Logger) *WebhookController {
	return &WebhookController{Orders: orders, Stripe: gateway, Logger: logger}
}

// StripeWebhook receives signed payment events. The signature is verified
// before anything trusts the payload or touches the store. Reconciliation
// errors come back as 500 so Stripe redelivers, except credential failures,
// which are acknowledged since redelivery cannot fix them.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
			break
		}

		if _, err := wc.Orders.Reconcile(c.Request.Context(), &sess); err != nil {
			if catalog.IsAuthError(err) {
				// Acknowledge so Stripe stops redelivering an event that
				// will fail identically until the credential is fixed.
				wc.Logger.Error("Catalog authentication failed during reconciliation", zap.Error(err))
				break
			}
			wc.Logger.Error("Reconciliation failed, requesting redelivery",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
			return
		}
	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// Health answers GET probes on the webhook path.
func (wc *WebhookController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Stripe webhook endpoint is active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
