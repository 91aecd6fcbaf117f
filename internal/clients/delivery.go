package clients

import (
	"context"
	"fmt"
	"net/http"

	"food-delivery/internal/models"
)

// DeliveryClient calls the delivery service
type DeliveryClient struct {
	baseClient
}

// NewDeliveryClient creates a client for the delivery service
func NewDeliveryClient(baseURL string) *DeliveryClient {
	return &DeliveryClient{newBaseClient(baseURL)}
}

// GetByOrderID returns the delivery tracking an order, if any
func (c *DeliveryClient) GetByOrderID(ctx context.Context, orderID int64) (*models.DeliveryResponse, error) {
	var delivery models.DeliveryResponse
	path := fmt.Sprintf("/api/deliveries/order/%d", orderID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &delivery); err != nil {
		return nil, err
	}
	return &delivery, nil
}
