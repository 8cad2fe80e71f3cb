package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"storefront-service/models"
)

func paidSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_123"},
		AmountTotal:   2400,
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: map[string]string{
			"clerkUserId":      "user_123",
			"userEmail":        "shopper@example.com",
			"sanityCustomerId": "cust-1",
			"productIds":       "p1",
			"quantities":       "2",
		},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "shopper@example.com",
			Name:  "Test Shopper",
			Address: &stripe.Address{
				Line1:      "1 High Street",
				City:       "London",
				PostalCode: "N1 1AA",
				Country:    "GB",
			},
		},
	}
}

func TestReconcileCreatesOrderOnce(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true, createOrderID: "order-1"}
	gateway := &mockGateway{lineItems: []*stripe.LineItem{{AmountTotal: 2400, Quantity: 2}}}
	svc := NewOrderService(repo, gateway, zap.NewNop())

	order, err := svc.Reconcile(context.Background(), paidSession())

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "pi_123", order.StripePaymentID)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, 24.0, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 24.0, order.Items[0].PriceAtPurchase, "price-at-purchase comes from the processor's line item")

	assert.Equal(t, []models.StockDecrement{{ProductID: "p1", Quantity: 2}}, repo.decrements)

	assert.Equal(t, "GB", order.Address.Country)
	assert.Equal(t, "N1 1AA", order.Address.Postcode)
}

func TestReconcileIsIdempotent(t *testing.T) {
	existing := &models.Order{ID: "order-1", StripePaymentID: "pi_123"}
	repo := &mockCatalogRepo{canWrite: true, order: existing}
	svc := NewOrderService(repo, &mockGateway{}, zap.NewNop())

	order, err := svc.Reconcile(context.Background(), paidSession())

	assert.NoError(t, err)
	assert.Equal(t, existing, order, "second invocation returns the first order unchanged")
	assert.Nil(t, repo.createdOrder, "no second order may be created")
	assert.Nil(t, repo.decrements, "stock must not be decremented again")
}

func TestReconcileSkipsOnMissingMetadata(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true}
	svc := NewOrderService(repo, &mockGateway{}, zap.NewNop())

	sess := paidSession()
	sess.Metadata = map[string]string{"userEmail": "shopper@example.com"}

	order, err := svc.Reconcile(context.Background(), sess)

	assert.NoError(t, err, "missing metadata is logged, not propagated")
	assert.Nil(t, order)
	assert.Nil(t, repo.createdOrder)
}

func TestReconcileSkipsWithoutWriteToken(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: false}
	svc := NewOrderService(repo, &mockGateway{}, zap.NewNop())

	order, err := svc.Reconcile(context.Background(), paidSession())

	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.Nil(t, repo.createdOrder, "never fabricate a partial order without write access")
}

func TestReconcileSkipsWithoutPaymentIntent(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true}
	svc := NewOrderService(repo, &mockGateway{}, zap.NewNop())

	sess := paidSession()
	sess.PaymentIntent = nil

	order, err := svc.Reconcile(context.Background(), sess)

	assert.NoError(t, err)
	assert.Nil(t, order)
}

func TestReconcilePropagatesCreateFailure(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true, createOrderErr: errors.New("catalog is down")}
	gateway := &mockGateway{lineItems: []*stripe.LineItem{{AmountTotal: 2400}}}
	svc := NewOrderService(repo, gateway, zap.NewNop())

	_, err := svc.Reconcile(context.Background(), paidSession())
	assert.Error(t, err)
}

func TestReconcilePropagatesLineItemFailure(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true}
	gateway := &mockGateway{lineItemsErr: errors.New("stripe unavailable")}
	svc := NewOrderService(repo, gateway, zap.NewNop())

	_, err := svc.Reconcile(context.Background(), paidSession())
	assert.Error(t, err)
	assert.Nil(t, repo.createdOrder)
}

func TestGenerateOrderNumberShape(t *testing.T) {
	number := GenerateOrderNumber()
	assert.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-F]{4}$`, number)
}
