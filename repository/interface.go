package repository

import (
	"context"

	"storefront-service/models"
)

// CatalogRepository is the service-facing view of the catalog store.
// Implementations return (nil, nil) from the single-document lookups when
// nothing matches.
type CatalogRepository interface {
	ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	CustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	OrderByPaymentID(ctx context.Context, stripePaymentID string) (*models.Order, error)
	OrdersByClerkID(ctx context.Context, clerkUserID string) ([]models.Order, error)

	CreateCustomer(ctx context.Context, customer *models.Customer) (string, error)
	SetCustomerStripeID(ctx context.Context, customerID, stripeCustomerID, clerkUserID, name string) error
	CreateOrder(ctx context.Context, order *models.Order) (string, error)
	// DecrementStock applies all decrements as one atomic transaction.
	DecrementStock(ctx context.Context, decrements []models.StockDecrement) error

	// CanWrite reports whether write operations are available. Callers use
	// it to soft-fail instead of attempting doomed mutations.
	CanWrite() bool
}
