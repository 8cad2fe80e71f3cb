package services

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckoutMetadata is the reconciliation payload attached to a checkout
// session. It is the only channel through which the webhook later
// reconstructs order intent, so it must round-trip losslessly: product IDs
// and quantities are comma-joined, positionally aligned arrays.
type CheckoutMetadata struct {
	ClerkUserID string
	UserEmail   string
	CustomerID  string
	ProductIDs  []string
	Quantities  []int
}

// Encode flattens the metadata into the string map the payment processor
// stores on the session.
func (m CheckoutMetadata) Encode() map[string]string {
	quantities := make([]string, 0, len(m.Quantities))
	for _, q := range m.Quantities {
		quantities = append(quantities, strconv.Itoa(q))
	}
	return map[string]string{
		"clerkUserId":      m.ClerkUserID,
		"userEmail":        m.UserEmail,
		"sanityCustomerId": m.CustomerID,
		"productIds":       strings.Join(m.ProductIDs, ","),
		"quantities":       strings.Join(quantities, ","),
	}
}

// ParseCheckoutMetadata decodes session metadata. It fails when any of the
// required keys is missing, the arrays are misaligned, or a quantity is not
// numeric.
func ParseCheckoutMetadata(meta map[string]string) (CheckoutMetadata, error) {
	m := CheckoutMetadata{
		ClerkUserID: meta["clerkUserId"],
		UserEmail:   meta["userEmail"],
		CustomerID:  meta["sanityCustomerId"],
	}

	productIDs := meta["productIds"]
	quantities := meta["quantities"]
	if m.ClerkUserID == "" || productIDs == "" || quantities == "" {
		return m, fmt.Errorf("missing required metadata: clerkUserId=%t productIds=%t quantities=%t",
			m.ClerkUserID != "", productIDs != "", quantities != "")
	}

	m.ProductIDs = strings.Split(productIDs, ",")
	for _, raw := range strings.Split(quantities, ",") {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return m, fmt.Errorf("invalid quantity %q in metadata", raw)
		}
		m.Quantities = append(m.Quantities, q)
	}

	if len(m.ProductIDs) != len(m.Quantities) {
		return m, fmt.Errorf("metadata arrays misaligned: %d products, %d quantities",
			len(m.ProductIDs), len(m.Quantities))
	}
	return m, nil
}
