package repository

import (
	"context"
	"fmt"

	"storefront-service/catalog"
	"storefront-service/models"
)

// GROQ queries. Projections are aliased to match the model json tags so
// results decode straight into the models.
const (
	productsByIDsQuery = `*[_type == "product" && _id in $ids]{
  _id, name, price, stock, "imageUrl": image.asset->url
}`

	customerByEmailQuery = `*[_type == "customer" && email == $email][0]{
  _id, email, name, clerkUserId, stripeCustomerId, createdAt
}`

	ordersByClerkIDQuery = `*[_type == "order" && clerkUserId == $clerkUserId] | order(createdAt desc){
  _id, orderNumber, "customer_id": customer._ref, clerkUserId, email, total,
  status, stripePaymentId, createdAt, address,
  "items": items[]{ "product_id": product._ref, quantity, "price_at_purchase": priceAtPurchase }
}`

	orderByPaymentIDQuery = `*[_type == "order" && stripePaymentId == $stripePaymentId][0]{
  _id, orderNumber, "customer_id": customer._ref, clerkUserId, email, total,
  status, stripePaymentId, createdAt, address,
  "items": items[]{ "product_id": product._ref, quantity, "price_at_purchase": priceAtPurchase }
}`
)

// CatalogStore implements CatalogRepository against the content platform.
type CatalogStore struct {
	client *catalog.Client
}

func NewCatalogStore(client *catalog.Client) *CatalogStore {
	return &CatalogStore{client: client}
}

func (s *CatalogStore) CanWrite() bool {
	return s.client.CanWrite()
}

func (s *CatalogStore) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	err := s.client.Query(ctx, productsByIDsQuery, map[string]interface{}{"ids": ids}, &products)
	if err != nil {
		return nil, fmt.Errorf("products by ids: %w", err)
	}
	return products, nil
}

func (s *CatalogStore) CustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := s.client.Query(ctx, customerByEmailQuery, map[string]interface{}{"email": email}, &customer)
	if err != nil {
		return nil, fmt.Errorf("customer by email: %w", err)
	}
	if customer.ID == "" {
		return nil, nil
	}
	return &customer, nil
}

func (s *CatalogStore) OrderByPaymentID(ctx context.Context, stripePaymentID string) (*models.Order, error) {
	var order models.Order
	err := s.client.Query(ctx, orderByPaymentIDQuery, map[string]interface{}{"stripePaymentId": stripePaymentID}, &order)
	if err != nil {
		return nil, fmt.Errorf("order by payment id: %w", err)
	}
	if order.ID == "" {
		return nil, nil
	}
	return &order, nil
}

func (s *CatalogStore) OrdersByClerkID(ctx context.Context, clerkUserID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.client.Query(ctx, ordersByClerkIDQuery, map[string]interface{}{"clerkUserId": clerkUserID}, &orders)
	if err != nil {
		return nil, fmt.Errorf("orders by user: %w", err)
	}
	return orders, nil
}

// ---- document shapes for the mutate endpoint ----

type reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

type customerDoc struct {
	Type             string `json:"_type"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	ClerkUserID      string `json:"clerkUserId"`
	StripeCustomerID string `json:"stripeCustomerId"`
	CreatedAt        string `json:"createdAt"`
}

type orderItemDoc struct {
	Key             string    `json:"_key"`
	Product         reference `json:"product"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"priceAtPurchase"`
}

type addressDoc struct {
	Name     string `json:"name"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

type orderDoc struct {
	Type            string         `json:"_type"`
	OrderNumber     string         `json:"orderNumber"`
	Customer        *reference     `json:"customer,omitempty"`
	ClerkUserID     string         `json:"clerkUserId"`
	Email           string         `json:"email"`
	Items           []orderItemDoc `json:"items"`
	Total           float64        `json:"total"`
	Status          string         `json:"status"`
	StripePaymentID string         `json:"stripePaymentId"`
	Address         *addressDoc    `json:"address,omitempty"`
	CreatedAt       string         `json:"createdAt"`
}

func (s *CatalogStore) CreateCustomer(ctx context.Context, customer *models.Customer) (string, error) {
	doc := customerDoc{
		Type:             "customer",
		Email:            customer.Email,
		Name:             customer.Name,
		ClerkUserID:      customer.ClerkUserID,
		StripeCustomerID: customer.StripeCustomerID,
		CreatedAt:        customer.CreatedAt,
	}

	result, err := s.client.Mutate(ctx, []catalog.Mutation{catalog.NewCreate(doc)})
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("create customer: no document id returned")
	}
	return result.Results[0].ID, nil
}

func (s *CatalogStore) SetCustomerStripeID(ctx context.Context, customerID, stripeCustomerID, clerkUserID, name string) error {
	patch := catalog.NewPatchSet(customerID, map[string]interface{}{
		"stripeCustomerId": stripeCustomerID,
		"clerkUserId":      clerkUserID,
		"name":             name,
	})
	if _, err := s.client.Mutate(ctx, []catalog.Mutation{patch}); err != nil {
		return fmt.Errorf("set customer stripe id: %w", err)
	}
	return nil
}

func (s *CatalogStore) CreateOrder(ctx context.Context, order *models.Order) (string, error) {
	items := make([]orderItemDoc, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, orderItemDoc{
			Key:             fmt.Sprintf("item-%d", i),
			Product:         reference{Type: "reference", Ref: item.ProductID},
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}

	doc := orderDoc{
		Type:            "order",
		OrderNumber:     order.OrderNumber,
		ClerkUserID:     order.ClerkUserID,
		Email:           order.Email,
		Items:           items,
		Total:           order.Total,
		Status:          order.Status,
		StripePaymentID: order.StripePaymentID,
		CreatedAt:       order.CreatedAt,
	}
	if order.CustomerID != "" {
		doc.Customer = &reference{Type: "reference", Ref: order.CustomerID}
	}
	if order.Address != nil {
		doc.Address = &addressDoc{
			Name:     order.Address.Name,
			Line1:    order.Address.Line1,
			Line2:    order.Address.Line2,
			City:     order.Address.City,
			Postcode: order.Address.Postcode,
			Country:  order.Address.Country,
		}
	}

	result, err := s.client.Mutate(ctx, []catalog.Mutation{catalog.NewCreate(doc)})
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("create order: no document id returned")
	}
	return result.Results[0].ID, nil
}

func (s *CatalogStore) DecrementStock(ctx context.Context, decrements []models.StockDecrement) error {
	mutations := make([]catalog.Mutation, 0, len(decrements))
	for _, dec := range decrements {
		mutations = append(mutations, catalog.NewPatchDec(dec.ProductID, map[string]interface{}{
			"stock": dec.Quantity,
		}))
	}
	if _, err := s.client.Mutate(ctx, mutations); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}
