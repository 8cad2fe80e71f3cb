package models

// OrderItem records one purchased line: a reference to the catalog product,
// the quantity and the amount actually paid for the line.
type OrderItem struct {
	ProductID       string  `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

type Address struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Order is created exactly once per Stripe payment intent;
// StripePaymentID is the idempotency key. OrderNumber is a display label
// and must never be used for identity.
type Order struct {
	ID              string      `json:"_id,omitempty"`
	OrderNumber     string      `json:"orderNumber"`
	CustomerID      string      `json:"customer_id,omitempty"`
	ClerkUserID     string      `json:"clerkUserId"`
	Email           string      `json:"email"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	Status          string      `json:"status"`
	StripePaymentID string      `json:"stripePaymentId"`
	Address         *Address    `json:"address,omitempty"`
	CreatedAt       string      `json:"createdAt"`
}

// StockDecrement is one product's share of an order's batched stock update.
type StockDecrement struct {
	ProductID string
	Quantity  int
}
