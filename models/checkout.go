package models

// CheckoutResult is the structured outcome of a checkout attempt. Validation
// failures land in Error; they are never surfaced as HTTP errors.
type CheckoutResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SessionLineItem is one purchased line as reported by the payment processor.
type SessionLineItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Amount   int64  `json:"amount"`
}

// SessionSummary is what the checkout success page renders.
type SessionSummary struct {
	ID              string            `json:"id"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerName    string            `json:"customer_name"`
	AmountTotal     int64             `json:"amount_total"`
	PaymentStatus   string            `json:"payment_status"`
	ShippingAddress *Address          `json:"shipping_address,omitempty"`
	LineItems       []SessionLineItem `json:"line_items"`
}
