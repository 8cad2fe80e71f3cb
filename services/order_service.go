package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"storefront-service/models"
	"storefront-service/repository"
)

// OrderService turns completed payments into persisted orders plus stock
// decrements. Both the webhook and the success-page fallback converge here;
// the existence check on the payment intent ID is the sole de-duplication
// mechanism and must run before any write.
type OrderService struct {
	repo    repository.CatalogRepository
	gateway PaymentGateway
	logger  *zap.Logger
}

func NewOrderService(repo repository.CatalogRepository, gateway PaymentGateway, logger *zap.Logger) *OrderService {
	return &OrderService{repo: repo, gateway: gateway, logger: logger}
}

// Reconcile creates the order for a completed checkout session exactly once.
// It returns the existing order unchanged when one already exists, (nil, nil)
// when the session cannot be processed (missing metadata, missing write
// token — logged, not retryable), and an error only for failures worth
// redelivering.
func (s *OrderService) Reconcile(ctx context.Context, sess *stripe.CheckoutSession) (*models.Order, error) {
	paymentID := paymentIntentID(sess)
	if paymentID == "" {
		s.logger.Warn("Checkout session has no payment intent, skipping", zap.String("session_id", sess.ID))
		return nil, nil
	}

	existing, err := s.repo.OrderByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("idempotency check: %w", err)
	}
	if existing != nil {
		s.logger.Info("Order already exists for payment, skipping",
			zap.String("payment_id", paymentID),
			zap.String("order_id", existing.ID),
		)
		return existing, nil
	}

	meta, err := ParseCheckoutMetadata(sess.Metadata)
	if err != nil {
		s.logger.Warn("Checkout session metadata is unusable, order not created",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return nil, nil
	}

	if !s.repo.CanWrite() {
		s.logger.Error("Catalog write token is not set, cannot create order",
			zap.String("payment_id", paymentID))
		return nil, nil
	}

	lineItems, err := s.gateway.ListLineItems(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}

	order := s.composeOrder(sess, meta, lineItems, paymentID)

	orderID, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order.ID = orderID

	s.logger.Info("Order created",
		zap.String("order_id", orderID),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_id", paymentID),
	)

	decrements := make([]models.StockDecrement, 0, len(meta.ProductIDs))
	for i, productID := range meta.ProductIDs {
		decrements = append(decrements, models.StockDecrement{
			ProductID: productID,
			Quantity:  meta.Quantities[i],
		})
	}
	if err := s.repo.DecrementStock(ctx, decrements); err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	s.logger.Info("Stock updated", zap.Int("products", len(decrements)))
	return order, nil
}

func (s *OrderService) composeOrder(sess *stripe.CheckoutSession, meta CheckoutMetadata, lineItems []*stripe.LineItem, paymentID string) *models.Order {
	items := make([]models.OrderItem, 0, len(meta.ProductIDs))
	for i, productID := range meta.ProductIDs {
		// The processor's recorded line amount is the authoritative
		// price-at-purchase, independent of the current catalog price.
		var paid float64
		if i < len(lineItems) && lineItems[i] != nil {
			paid = float64(lineItems[i].AmountTotal) / 100
		}
		items = append(items, models.OrderItem{
			ProductID:       productID,
			Quantity:        meta.Quantities[i],
			PriceAtPurchase: paid,
		})
	}

	email := meta.UserEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}

	return &models.Order{
		OrderNumber:     GenerateOrderNumber(),
		CustomerID:      meta.CustomerID,
		ClerkUserID:     meta.ClerkUserID,
		Email:           email,
		Items:           items,
		Total:           float64(sess.AmountTotal) / 100,
		Status:          "paid",
		StripePaymentID: paymentID,
		Address:         shippingAddress(sess),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
}

// GenerateOrderNumber builds a human-readable order label. It is not
// guaranteed unique; stripePaymentId remains the true dedup key.
func GenerateOrderNumber() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("ORD-%s-%s", timestamp, suffix)
}

func paymentIntentID(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent == nil {
		return ""
	}
	return sess.PaymentIntent.ID
}

func shippingAddress(sess *stripe.CheckoutSession) *models.Address {
	details := sess.CustomerDetails
	if details == nil || details.Address == nil {
		return nil
	}
	return &models.Address{
		Name:     details.Name,
		Line1:    details.Address.Line1,
		Line2:    details.Address.Line2,
		City:     details.Address.City,
		Postcode: details.Address.PostalCode,
		Country:  details.Address.Country,
	}
}
