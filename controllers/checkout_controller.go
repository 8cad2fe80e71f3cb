package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Repo     repository.CatalogRepository
	Stripe   services.PaymentGateway
	Logger   *zap.Logger
}

func NewCheckoutController(checkout *services.CheckoutService, orders *services.OrderService, repo repository.CatalogRepository, gateway services.PaymentGateway, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		Checkout: checkout,
		Orders:   orders,
		Repo:     repo,
		Stripe:   gateway,
		Logger:   logger,
	}
}

type checkoutRequest struct {
	Items []models.CartItem `json:"items" binding:"required"`
}

// CreateCheckoutSession validates the submitted cart and returns either a
// redirect URL to the hosted payment page or a user-facing error string.
// Validation outcomes ride in the structured result, not in the HTTP status.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user := middleware.CurrentUser(c)
	result := cc.Checkout.CreateSession(c.Request.Context(), user, req.Items)
	c.JSON(http.StatusOK, result)
}

// GetCheckoutSession serves the success page: it retrieves the session,
// refuses sessions belonging to another user, runs the order-creation
// fallback when the webhook has not landed yet, and returns the summary.
func (cc *CheckoutController) GetCheckoutSession(c *gin.Context) {
	sessionID := c.Param("id")
	user := middleware.CurrentUser(c)

	sess, err := cc.Stripe.RetrieveSession(sessionID)
	if err != nil {
		cc.Logger.Warn("Failed to retrieve checkout session", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Could not retrieve order details"})
		return
	}

	// A session is only visible to the user recorded in its metadata.
	if sess.Metadata["clerkUserId"] != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Session not found"})
		return
	}

	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		cc.runFallbackReconcile(c, sess)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": sessionSummary(sess)})
}

// runFallbackReconcile creates the order inline when the webhook has not
// processed this payment yet. Best-effort: the page renders regardless.
func (cc *CheckoutController) runFallbackReconcile(c *gin.Context, sess *stripe.CheckoutSession) {
	paymentID := ""
	if sess.PaymentIntent != nil {
		paymentID = sess.PaymentIntent.ID
	}
	if paymentID == "" {
		return
	}

	existing, err := cc.Repo.OrderByPaymentID(c.Request.Context(), paymentID)
	if err != nil {
		cc.Logger.Warn("Fallback order lookup failed", zap.String("payment_id", paymentID), zap.Error(err))
		return
	}
	if existing != nil {
		return
	}

	cc.Logger.Info("Order not found for payment, attempting fallback creation",
		zap.String("payment_id", paymentID))
	if _, err := cc.Orders.Reconcile(c.Request.Context(), sess); err != nil {
		cc.Logger.Warn("Fallback order creation failed", zap.String("payment_id", paymentID), zap.Error(err))
	}
}

func sessionSummary(sess *stripe.CheckoutSession) models.SessionSummary {
	summary := models.SessionSummary{
		ID:            sess.ID,
		AmountTotal:   sess.AmountTotal,
		PaymentStatus: string(sess.PaymentStatus),
	}

	if details := sess.CustomerDetails; details != nil {
		summary.CustomerEmail = details.Email
		summary.CustomerName = details.Name
		if details.Address != nil {
			summary.ShippingAddress = &models.Address{
				Name:     details.Name,
				Line1:    details.Address.Line1,
				Line2:    details.Address.Line2,
				City:     details.Address.City,
				Postcode: details.Address.PostalCode,
				Country:  details.Address.Country,
			}
		}
	}

	if sess.LineItems != nil {
		for _, item := range sess.LineItems.Data {
			summary.LineItems = append(summary.LineItems, models.SessionLineItem{
				Name:     item.Description,
				Quantity: item.Quantity,
				Amount:   item.AmountTotal,
			})
		}
	}
	return summary
}
