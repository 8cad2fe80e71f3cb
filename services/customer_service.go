package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storefront-service/catalog"
	"storefront-service/models"
	"storefront-service/repository"
)

// CustomerService maps an authenticated shopper to a payment-processor
// customer and a catalog customer record, creating either on first checkout.
type CustomerService struct {
	repo    repository.CatalogRepository
	gateway PaymentGateway
	logger  *zap.Logger
}

func NewCustomerService(repo repository.CatalogRepository, gateway PaymentGateway, logger *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, gateway: gateway, logger: logger}
}

// Resolve returns the processor customer ID and the catalog customer ID for
// the given shopper. The catalog sync is best-effort: a missing write token
// or a failed write returns an empty catalog ID instead of an error, so
// checkout is never blocked on a non-critical write.
func (s *CustomerService) Resolve(ctx context.Context, email, name, clerkUserID string) (stripeCustomerID, catalogCustomerID string, err error) {
	existing, lookupErr := s.repo.CustomerByEmail(ctx, email)
	if lookupErr != nil {
		s.logger.Warn("Customer lookup failed, continuing without catalog record",
			zap.String("email", email), zap.Error(lookupErr))
		existing = nil
	}

	// Fast path: catalog record already carries the processor ID.
	if existing != nil && existing.StripeCustomerID != "" {
		return existing.StripeCustomerID, existing.ID, nil
	}

	stripeCustomer, err := s.gateway.FindCustomerByEmail(email)
	if err != nil {
		return "", "", err
	}
	if stripeCustomer != nil {
		stripeCustomerID = stripeCustomer.ID
	} else {
		created, err := s.gateway.CreateCustomer(email, name, clerkUserID)
		if err != nil {
			return "", "", err
		}
		stripeCustomerID = created.ID
	}

	if !s.repo.CanWrite() {
		s.logger.Error("Catalog write token is not set, cannot sync customer record")
		// Catalog sync is deferred to reconciliation.
		return stripeCustomerID, "", nil
	}

	if existing != nil {
		if err := s.repo.SetCustomerStripeID(ctx, existing.ID, stripeCustomerID, clerkUserID, name); err != nil {
			s.logWriteFailure("Failed to update catalog customer", err)
			return stripeCustomerID, existing.ID, nil
		}
		return stripeCustomerID, existing.ID, nil
	}

	newCustomer := &models.Customer{
		Email:            email,
		Name:             name,
		ClerkUserID:      clerkUserID,
		StripeCustomerID: stripeCustomerID,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	catalogID, createErr := s.repo.CreateCustomer(ctx, newCustomer)
	if createErr != nil {
		s.logWriteFailure("Failed to create catalog customer", createErr)
		return stripeCustomerID, "", nil
	}
	return stripeCustomerID, catalogID, nil
}

func (s *CustomerService) logWriteFailure(msg string, err error) {
	if catalog.IsAuthError(err) {
		s.logger.Error("Catalog authentication failed, check the write token permissions", zap.Error(err))
		return
	}
	s.logger.Error(msg, zap.Error(err))
}
