package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"storefront-service/models"
	"storefront-service/repository"
)

// shippingCountries is the allow-list offered on the hosted payment page.
var shippingCountries = []string{
	"GB", "US", "CA", "AU", "NZ", "IE",
	"DE", "FR", "ES", "IT", "NL", "BE", "AT", "CH",
	"SE", "NO", "DK", "FI", "PT", "PL", "CZ", "GR",
	"HU", "RO", "BG", "HR", "SI", "SK", "LT", "LV",
	"EE", "LU", "MT", "CY",
	"JP", "SG", "HK", "KR", "TW", "MY", "TH", "IN",
	"AE", "SA", "IL", "ZA",
	"BR", "MX", "AR", "CL", "CO",
}

// CheckoutService validates cart contents against live catalog data and
// builds hosted payment sessions.
type CheckoutService struct {
	repo      repository.CatalogRepository
	gateway   PaymentGateway
	customers *CustomerService
	baseURL   string
	logger    *zap.Logger
}

func NewCheckoutService(repo repository.CatalogRepository, gateway PaymentGateway, customers *CustomerService, baseURL string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		repo:      repo,
		gateway:   gateway,
		customers: customers,
		baseURL:   baseURL,
		logger:    logger,
	}
}

type validatedItem struct {
	product  models.Product
	quantity int
}

// CreateSession validates the cart and creates a hosted checkout session.
// Client-supplied prices are ignored: the catalog price is authoritative.
// All validation failures across the cart are collected and returned as one
// message rather than failing on the first bad line.
func (s *CheckoutService) CreateSession(ctx context.Context, user AuthUser, items []models.CartItem) models.CheckoutResult {
	if user.ID == "" {
		return models.CheckoutResult{Success: false, Error: "Please sign in to checkout"}
	}
	if len(items) == 0 {
		return models.CheckoutResult{Success: false, Error: "Your cart is empty"}
	}

	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.repo.ProductsByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error("Failed to load products for checkout", zap.Error(err))
		return models.CheckoutResult{Success: false, Error: "Something went wrong. Please try again."}
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var validationErrors []string
	var validated []validatedItem

	for _, item := range items {
		// Comma-joined metadata cannot round-trip IDs containing commas.
		if strings.Contains(item.ProductID, ",") {
			validationErrors = append(validationErrors, fmt.Sprintf("Product %q has an invalid identifier", item.Name))
			continue
		}

		product, ok := byID[item.ProductID]
		if !ok {
			validationErrors = append(validationErrors, fmt.Sprintf("Product %q is no longer available", item.Name))
			continue
		}
		if product.Stock == 0 {
			validationErrors = append(validationErrors, fmt.Sprintf("%q is out of stock", product.Name))
			continue
		}
		if item.Quantity > product.Stock {
			validationErrors = append(validationErrors, fmt.Sprintf("Only %d of %q available", product.Stock, product.Name))
			continue
		}
		validated = append(validated, validatedItem{product: product, quantity: item.Quantity})
	}

	if len(validationErrors) > 0 {
		return models.CheckoutResult{Success: false, Error: strings.Join(validationErrors, ". ")}
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(validated))
	for _, v := range validated {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(v.product.Name),
			Metadata: map[string]string{"productId": v.product.ID},
		}
		if v.product.ImageURL != "" {
			productData.Images = []*string{stripe.String(v.product.ImageURL)}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String("eur"),
				UnitAmount:  stripe.Int64(int64(math.Round(v.product.Price * 100))),
				ProductData: productData,
			},
			Quantity: stripe.Int64(int64(v.quantity)),
		})
	}

	stripeCustomerID, catalogCustomerID, err := s.customers.Resolve(ctx, user.Email, user.Name, user.ID)
	if err != nil {
		s.logger.Error("Failed to resolve customer for checkout", zap.Error(err))
		return models.CheckoutResult{Success: false, Error: "Something went wrong. Please try again."}
	}

	metadata := CheckoutMetadata{
		ClerkUserID: user.ID,
		UserEmail:   user.Email,
		CustomerID:  catalogCustomerID,
	}
	for _, v := range validated {
		metadata.ProductIDs = append(metadata.ProductIDs, v.product.ID)
		metadata.Quantities = append(metadata.Quantities, v.quantity)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Customer:           stripe.String(stripeCustomerID),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shippingCountries),
		},
		SuccessURL: stripe.String(s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.baseURL + "/checkout"),
	}
	for key, val := range metadata.Encode() {
		params.AddMetadata(key, val)
	}

	sess, err := s.gateway.CreateCheckoutSession(params)
	if err != nil {
		s.logger.Error("Failed to create checkout session", zap.Error(err))
		return models.CheckoutResult{Success: false, Error: "Something went wrong. Please try again."}
	}

	return models.CheckoutResult{Success: true, URL: sess.URL}
}
