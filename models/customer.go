package models

// Customer mirrors the catalog store's customer document, cross-referenced
// to the payment processor via StripeCustomerID.
type Customer struct {
	ID               string `json:"_id,omitempty"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	ClerkUserID      string `json:"clerkUserId"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
}
