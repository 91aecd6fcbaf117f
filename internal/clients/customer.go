package clients

import (
	"context"
	"fmt"
	"net/http"

	"food-delivery/internal/auth"
	"food-delivery/internal/models"
)

// CustomerClient calls the customer service
type CustomerClient struct {
	baseClient
}

// NewCustomerClient creates a client for the customer service
func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{newBaseClient(baseURL)}
}

// Create registers a new customer record. The password in the request is
// expected to be hashed already.
func (c *CustomerClient) Create(ctx context.Context, req *models.RegisterRequest) (*models.Customer, error) {
	var customer models.Customer
	if err := c.doJSON(ctx, http.MethodPost, "/api/customers", nil, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUsername returns the full customer record including the password
// hash. Used by the gateway for login and by peers resolving identity
// headers to customer ids.
func (c *CustomerClient) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	var customer models.Customer
	path := fmt.Sprintf("/api/customers/username/%s", username)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByID returns the public customer profile
func (c *CustomerClient) GetByID(ctx context.Context, id int64) (*models.CustomerResponse, error) {
	var customer models.CustomerResponse
	path := fmt.Sprintf("/api/customers/id/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// MakeRestaurantOwner promotes the given customer to RESTAURANT_OWNER
func (c *CustomerClient) MakeRestaurantOwner(ctx context.Context, username string) error {
	headers := http.Header{}
	auth.SetHeaders(headers, auth.Identity{Username: username})
	return c.doJSON(ctx, http.MethodPut, "/api/customers/make-restaurant-owner", headers, nil, nil)
}
