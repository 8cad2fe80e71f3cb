package services

import (
	"net/http"

	"github.com/stripe/stripe-go/v80"
)

// AuthUser is the authenticated shopper, as resolved by the auth middleware.
type AuthUser struct {
	ID    string
	Email string
	Name  string
}

// PaymentGateway abstracts the payment processor so services can be tested
// without network calls. StripeService is the production implementation.
type PaymentGateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	RetrieveSession(sessionID string) (*stripe.CheckoutSession, error)
	ListLineItems(sessionID string) ([]*stripe.LineItem, error)
	ParseWebhook(r *http.Request) (stripe.Event, error)
	// FindCustomerByEmail returns nil when no customer matches.
	FindCustomerByEmail(email string) (*stripe.Customer, error)
	CreateCustomer(email, name, clerkUserID string) (*stripe.Customer, error)
}
