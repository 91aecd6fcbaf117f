package clients

import (
	"context"
	"fmt"
	"net/http"

	"food-delivery/internal/models"
)

// RestaurantClient calls the restaurant service
type RestaurantClient struct {
	baseClient
}

// NewRestaurantClient creates a client for the restaurant service
func NewRestaurantClient(baseURL string) *RestaurantClient {
	return &RestaurantClient{newBaseClient(baseURL)}
}

// GetByID returns a restaurant by id
func (c *RestaurantClient) GetByID(ctx context.Context, id int64) (*models.RestaurantResponse, error) {
	var restaurant models.RestaurantResponse
	path := fmt.Sprintf("/api/restaurants/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// GetMenuItem returns a menu item by id
func (c *RestaurantClient) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	path := fmt.Sprintf("/api/restaurants/menu/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
