package services

import (
	"context"
	"net/http"

	"github.com/stripe/stripe-go/v80"

	"storefront-service/models"
)

// ---- mock catalog repository ----

type mockCatalogRepo struct {
	products    []models.Product
	productsErr error

	customer    *models.Customer
	customerErr error

	order    *models.Order
	orderErr error

	canWrite bool

	createdCustomer   *models.Customer
	createCustomerID  string
	createCustomerErr error

	setStripeIDCalls int
	setStripeIDErr   error

	createdOrder   *models.Order
	createOrderID  string
	createOrderErr error

	decrements   []models.StockDecrement
	decrementErr error
}

func (m *mockCatalogRepo) ProductsByIDs(_ context.Context, _ []string) ([]models.Product, error) {
	return m.products, m.productsErr
}

func (m *mockCatalogRepo) CustomerByEmail(_ context.Context, _ string) (*models.Customer, error) {
	return m.customer, m.customerErr
}

func (m *mockCatalogRepo) OrderByPaymentID(_ context.Context, _ string) (*models.Order, error) {
	return m.order, m.orderErr
}

func (m *mockCatalogRepo) OrdersByClerkID(_ context.Context, _ string) ([]models.Order, error) {
	return nil, nil
}

func (m *mockCatalogRepo) CreateCustomer(_ context.Context, c *models.Customer) (string, error) {
	m.createdCustomer = c
	return m.createCustomerID, m.createCustomerErr
}

func (m *mockCatalogRepo) SetCustomerStripeID(_ context.Context, _, _, _, _ string) error {
	m.setStripeIDCalls++
	return m.setStripeIDErr
}

func (m *mockCatalogRepo) CreateOrder(_ context.Context, o *models.Order) (string, error) {
	m.createdOrder = o
	return m.createOrderID, m.createOrderErr
}

func (m *mockCatalogRepo) DecrementStock(_ context.Context, d []models.StockDecrement) error {
	m.decrements = d
	return m.decrementErr
}

func (m *mockCatalogRepo) CanWrite() bool {
	return m.canWrite
}

// ---- mock payment gateway ----

type mockGateway struct {
	sessionParams *stripe.CheckoutSessionParams
	session       *stripe.CheckoutSession
	sessionErr    error

	retrieved   *stripe.CheckoutSession
	retrieveErr error

	lineItems    []*stripe.LineItem
	lineItemsErr error

	foundCustomer *stripe.Customer
	findErr       error
	findCalls     int

	createdCustomer *stripe.Customer
	createErr       error
	createCalls     int
}

func (m *mockGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.sessionParams = params
	return m.session, m.sessionErr
}

func (m *mockGateway) RetrieveSession(_ string) (*stripe.CheckoutSession, error) {
	return m.retrieved, m.retrieveErr
}

func (m *mockGateway) ListLineItems(_ string) ([]*stripe.LineItem, error) {
	return m.lineItems, m.lineItemsErr
}

func (m *mockGateway) ParseWebhook(_ *http.Request) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func (m *mockGateway) FindCustomerByEmail(_ string) (*stripe.Customer, error) {
	m.findCalls++
	return m.foundCustomer, m.findErr
}

func (m *mockGateway) CreateCustomer(_, _, _ string) (*stripe.Customer, error) {
	m.createCalls++
	return m.createdCustomer, m.createErr
}
