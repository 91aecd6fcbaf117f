package models

import (
	"time"

	"github.com/shopspring/decimal"

	"food-delivery/internal/apperr"
)

// Restaurant is the catalog record owned by the restaurant service.
// OwnerID references a customer; other services never join on it.
type Restaurant struct {
	ID                       int64     `json:"id" db:"id"`
	Name                     string    `json:"name" db:"name"`
	Description              string    `json:"description" db:"description"`
	CuisineType              string    `json:"cuisine_type" db:"cuisine_type"`
	Address                  string    `json:"address" db:"address"`
	City                     string    `json:"city" db:"city"`
	Phone                    string    `json:"phone" db:"phone"`
	Active                   bool      `json:"active" db:"active"`
	Rating                   float64   `json:"rating" db:"rating"`
	EstimatedDeliveryMinutes int       `json:"estimated_delivery_minutes" db:"estimated_delivery_minutes"`
	OwnerID                  int64     `json:"owner_id" db:"owner_id"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
}

// MenuItem belongs to a single restaurant
type MenuItem struct {
	ID           int64           `json:"id" db:"id"`
	RestaurantID int64           `json:"restaurant_id" db:"restaurant_id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Category     string          `json:"category" db:"category"`
	Available    bool            `json:"available" db:"available"`
	ImageURL     string          `json:"image_url" db:"image_url"`
}

// RestaurantResponse is the read projection, optionally enriched with the
// owner's name fetched from the customer service at read time. A nil
// OwnerName means enrichment was unavailable, not that the owner is gone.
type RestaurantResponse struct {
	Restaurant
	OwnerName *string `json:"owner_name,omitempty"`
}

// RestaurantRequest creates a new restaurant
type RestaurantRequest struct {
	Name                     string `json:"name"`
	Description              string `json:"description"`
	CuisineType              string `json:"cuisine_type"`
	Address                  string `json:"address"`
	City                     string `json:"city"`
	Phone                    string `json:"phone"`
	EstimatedDeliveryMinutes int    `json:"estimated_delivery_minutes"`
}

// Validate checks the restaurant request fields
func (r *RestaurantRequest) Validate() error {
	if r.Name == "" {
		return apperr.InvalidState("name is required")
	}
	if r.Address == "" {
		return apperr.InvalidState("address is required")
	}
	if r.EstimatedDeliveryMinutes <= 0 {
		return apperr.InvalidState("estimated_delivery_minutes must be positive")
	}
	return nil
}

// MenuItemRequest creates a new menu item
type MenuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

// Validate checks the menu item request fields
func (r *MenuItemRequest) Validate() error {
	if r.Name == "" {
		return apperr.InvalidState("name is required")
	}
	if r.Price.LessThanOrEqual(decimal.Zero) {
		return apperr.InvalidState("price must be positive")
	}
	return nil
}

// MenuItemUpdate partially updates a menu item. Nil fields are left
// unchanged.
type MenuItemUpdate struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
}
