package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"food-delivery/internal/apperr"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderPlaced         OrderStatus = "PLACED"
	OrderConfirmed      OrderStatus = "CONFIRMED"
	OrderPreparing      OrderStatus = "PREPARING"
	OrderReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCancelled      OrderStatus = "CANCELLED"
)

// ParseOrderStatus parses a status string case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(s))
	switch status {
	case OrderPlaced, OrderConfirmed, OrderPreparing, OrderReadyForPickup,
		OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return status, nil
	default:
		return "", apperr.InvalidState(fmt.Sprintf("Unknown order status: %s", s))
	}
}

// DefaultDeliveryFee is applied to every order unless otherwise set.
var DefaultDeliveryFee = decimal.RequireFromString("2.99")

// Order is the record owned by the order service. Customer and restaurant
// fields are snapshots captured at placement time; they never change even
// if the source records do.
type Order struct {
	ID                    int64           `json:"id" db:"id"`
	Status                OrderStatus     `json:"status" db:"status"`
	TotalAmount           decimal.Decimal `json:"total_amount" db:"total_amount"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	DeliveryAddress       string          `json:"delivery_address" db:"delivery_address"`
	SpecialInstructions   string          `json:"special_instructions" db:"special_instructions"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
	EstimatedDeliveryTime time.Time       `json:"estimated_delivery_time" db:"estimated_delivery_time"`
	Items                 []OrderItem     `json:"items"`

	CustomerID        int64  `json:"customer_id" db:"customer_id"`
	CustomerName      string `json:"customer_name" db:"customer_name"`
	RestaurantID      int64  `json:"restaurant_id" db:"restaurant_id"`
	RestaurantName    string `json:"restaurant_name" db:"restaurant_name"`
	RestaurantAddress string `json:"restaurant_address" db:"restaurant_address"`
}

// OrderItem is an order line. MenuItemID and ItemName are snapshots of the
// menu item at placement time; items are immutable once the order exists.
type OrderItem struct {
	ID                  int64           `json:"id" db:"id"`
	OrderID             int64           `json:"order_id" db:"order_id"`
	MenuItemID          int64           `json:"menu_item_id" db:"menu_item_id"`
	ItemName            string          `json:"item_name" db:"item_name"`
	Quantity            int             `json:"quantity" db:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal            decimal.Decimal `json:"subtotal" db:"subtotal"`
	SpecialInstructions string          `json:"special_instructions" db:"special_instructions"`
}

// PlaceOrderRequest asks the order service to create an order
type PlaceOrderRequest struct {
	RestaurantID        int64              `json:"restaurant_id"`
	Items               []OrderItemRequest `json:"items"`
	DeliveryAddress     string             `json:"delivery_address,omitempty"` // optional override of customer's default address
	SpecialInstructions string             `json:"special_instructions,omitempty"`
}

// OrderItemRequest identifies one requested menu item
type OrderItemRequest struct {
	MenuItemID          int64  `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// Validate checks the placement request fields
func (r *PlaceOrderRequest) Validate() error {
	if r.RestaurantID <= 0 {
		return apperr.InvalidState("restaurant_id is required")
	}
	if len(r.Items) == 0 {
		return apperr.InvalidState("items array cannot be empty")
	}
	for i, item := range r.Items {
		if item.MenuItemID <= 0 {
			return apperr.InvalidState(fmt.Sprintf("items[%d].menu_item_id is required", i))
		}
		if item.Quantity < 1 {
			return apperr.InvalidState(fmt.Sprintf("items[%d].quantity must be positive", i))
		}
	}
	return nil
}

// DeliveryInfo is the optional delivery enrichment on an order projection.
type DeliveryInfo struct {
	Status      string `json:"status"`
	DriverName  string `json:"driver_name"`
	DriverPhone string `json:"driver_phone"`
}

// OrderResponse is the order read projection. Delivery is filled by a
// best-effort call to the delivery service at read time; nil means the
// enrichment was unavailable, never an error to the caller.
type OrderResponse struct {
	ID                    int64             `json:"id"`
	Status                OrderStatus       `json:"status"`
	TotalAmount           decimal.Decimal   `json:"total_amount"`
	DeliveryFee           decimal.Decimal   `json:"delivery_fee"`
	DeliveryAddress       string            `json:"delivery_address"`
	SpecialInstructions   string            `json:"special_instructions,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	EstimatedDeliveryTime time.Time         `json:"estimated_delivery_time"`
	Items                 []OrderItemDetail `json:"items"`

	CustomerID        int64  `json:"customer_id"`
	CustomerName      string `json:"customer_name"`
	RestaurantID      int64  `json:"restaurant_id"`
	RestaurantName    string `json:"restaurant_name"`
	RestaurantAddress string `json:"restaurant_address"`

	Delivery *DeliveryInfo `json:"delivery,omitempty"`
}

// OrderItemDetail is the line-item projection with snapshot names
type OrderItemDetail struct {
	ID       int64           `json:"id"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ToResponse builds the read projection from an order record.
func (o *Order) ToResponse() *OrderResponse {
	items := make([]OrderItemDetail, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDetail{
			ID:        item.ID,
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &OrderResponse{
		ID:                    o.ID,
		Status:                o.Status,
		TotalAmount:           o.TotalAmount,
		DeliveryFee:           o.DeliveryFee,
		DeliveryAddress:       o.DeliveryAddress,
		SpecialInstructions:   o.SpecialInstructions,
		CreatedAt:             o.CreatedAt,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		Items:                 items,
		CustomerID:            o.CustomerID,
		CustomerName:          o.CustomerName,
		RestaurantID:          o.RestaurantID,
		RestaurantName:        o.RestaurantName,
		RestaurantAddress:     o.RestaurantAddress,
	}
}
