package clients

import (
	"context"
	"fmt"
	"net/http"

	"food-delivery/internal/models"
)

// OrderClient calls the order service
type OrderClient struct {
	baseClient
}

// NewOrderClient creates a client for the order service
func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{newBaseClient(baseURL)}
}

// GetByID returns an order projection by id
func (c *OrderClient) GetByID(ctx context.Context, id int64) (*models.OrderResponse, error) {
	var order models.OrderResponse
	path := fmt.Sprintf("/api/orders/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
