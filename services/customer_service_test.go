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

func TestResolveFastPathSkipsGateway(t *testing.T) {
	repo := &mockCatalogRepo{
		customer: &models.Customer{ID: "cust-1", Email: "a@b.com", StripeCustomerID: "cus_123"},
	}
	gateway := &mockGateway{}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	stripeID, catalogID, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")

	assert.NoError(t, err)
	assert.Equal(t, "cus_123", stripeID)
	assert.Equal(t, "cust-1", catalogID)
	assert.Zero(t, gateway.findCalls, "no processor call on the fast path")
	assert.Zero(t, gateway.createCalls)
}

func TestResolveReusesExistingStripeCustomer(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true, createCustomerID: "cust-new"}
	gateway := &mockGateway{foundCustomer: &stripe.Customer{ID: "cus_existing"}}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	stripeID, catalogID, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")

	assert.NoError(t, err)
	assert.Equal(t, "cus_existing", stripeID)
	assert.Equal(t, "cust-new", catalogID)
	assert.Zero(t, gateway.createCalls)
	assert.Equal(t, "cus_existing", repo.createdCustomer.StripeCustomerID)
	assert.Equal(t, "user_1", repo.createdCustomer.ClerkUserID)
}

func TestResolveCreatesStripeCustomerWhenAbsent(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: true, createCustomerID: "cust-new"}
	gateway := &mockGateway{createdCustomer: &stripe.Customer{ID: "cus_created"}}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	stripeID, _, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")

	assert.NoError(t, err)
	assert.Equal(t, "cus_created", stripeID)
	assert.Equal(t, 1, gateway.createCalls)
}

func TestResolvePatchesExistingCatalogCustomer(t *testing.T) {
	repo := &mockCatalogRepo{
		canWrite: true,
		customer: &models.Customer{ID: "cust-1", Email: "a@b.com"}, // no stripe ID yet
	}
	gateway := &mockGateway{foundCustomer: &stripe.Customer{ID: "cus_123"}}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	stripeID, catalogID, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")

	assert.NoError(t, err)
	assert.Equal(t, "cus_123", stripeID)
	assert.Equal(t, "cust-1", catalogID)
	assert.Equal(t, 1, repo.setStripeIDCalls)
}

func TestResolveDegradesWithoutWriteToken(t *testing.T) {
	repo := &mockCatalogRepo{canWrite: false}
	gateway := &mockGateway{foundCustomer: &stripe.Customer{ID: "cus_123"}}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	stripeID, catalogID, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")

	assert.NoError(t, err, "checkout must never block on a missing write token")
	assert.Equal(t, "cus_123", stripeID)
	assert.Empty(t, catalogID)
	assert.Nil(t, repo.createdCustomer)
}

func TestResolveDegradesOnCatalogWriteFailure(t *testing.T) {
	repo := &mockCatalogRepo{
		canWrite:          true,
		createCustomerErr: errors.New("catalog is down"),
	}
	gateway := &mockGateway{foundCustomer: &stripe.Customer{ID: "cus_123"}}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	stripeID, catalogID, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")

	assert.NoError(t, err)
	assert.Equal(t, "cus_123", stripeID)
	assert.Empty(t, catalogID)
}

func TestResolveFailsOnProcessorError(t *testing.T) {
	repo := &mockCatalogRepo{}
	gateway := &mockGateway{findErr: errors.New("stripe unavailable")}
	svc := NewCustomerService(repo, gateway, zap.NewNop())

	_, _, err := svc.Resolve(context.Background(), "a@b.com", "A B", "user_1")
	assert.Error(t, err)
}
