package controllers

import (
	"context"
	"net/http"

	"github.com/stripe/stripe-go/v80"

	"storefront-service/models"
)

// ---- mock catalog repository ----

type mockCatalogRepo struct {
	lookups int

	order    *models.Order
	orderErr error

	canWrite bool

	createdOrder   *models.Order
	createOrderID  string
	createOrderErr error

	decrements []models.StockDecrement

	userOrders    []models.Order
	userOrdersErr error
}

func (m *mockCatalogRepo) ProductsByIDs(_ context.Context, _ []string) ([]models.Product, error) {
	m.lookups++
	return nil, nil
}

func (m *mockCatalogRepo) CustomerByEmail(_ context.Context, _ string) (*models.Customer, error) {
	m.lookups++
	return nil, nil
}

func (m *mockCatalogRepo) OrderByPaymentID(_ context.Context, _ string) (*models.Order, error) {
	m.lookups++
	return m.order, m.orderErr
}

func (m *mockCatalogRepo) OrdersByClerkID(_ context.Context, _ string) ([]models.Order, error) {
	return m.userOrders, m.userOrdersErr
}

func (m *mockCatalogRepo) CreateCustomer(_ context.Context, _ *models.Customer) (string, error) {
	return "", nil
}

func (m *mockCatalogRepo) SetCustomerStripeID(_ context.Context, _, _, _, _ string) error {
	return nil
}

func (m *mockCatalogRepo) CreateOrder(_ context.Context, o *models.Order) (string, error) {
	m.createdOrder = o
	return m.createOrderID, m.createOrderErr
}

func (m *mockCatalogRepo) DecrementStock(_ context.Context, d []models.StockDecrement) error {
	m.decrements = d
	return nil
}

func (m *mockCatalogRepo) CanWrite() bool {
	return m.canWrite
}

// ---- mock payment gateway ----

type mockGateway struct {
	retrieved   *stripe.CheckoutSession
	retrieveErr error

	lineItems    []*stripe.LineItem
	lineItemsErr error

	parsedEvent stripe.Event
	parseErr    error
}

func (m *mockGateway) CreateCheckoutSession(_ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return nil, nil
}

func (m *mockGateway) RetrieveSession(_ string) (*stripe.CheckoutSession, error) {
	return m.retrieved, m.retrieveErr
}

func (m *mockGateway) ListLineItems(_ string) ([]*stripe.LineItem, error) {
	return m.lineItems, m.lineItemsErr
}

func (m *mockGateway) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return m.parsedEvent, m.parseErr
}

func (m *mockGateway) FindCustomerByEmail(_ string) (*stripe.Customer, error) {
	return nil, nil
}

func (m *mockGateway) CreateCustomer(_, _, _ string) (*stripe.Customer, error) {
	return nil, nil
}
