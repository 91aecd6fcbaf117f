package models

import (
	"fmt"
	"strings"
	"time"

	"food-delivery/internal/apperr"
)

// DeliveryStatus represents the lifecycle status of a delivery.
// DELIVERED and FAILED are terminal.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// ParseDeliveryStatus parses a status string case-insensitively.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	status := DeliveryStatus(strings.ToUpper(s))
	switch status {
	case DeliveryPending, DeliveryAssigned, DeliveryPickedUp,
		DeliveryInTransit, DeliveryDelivered, DeliveryFailed:
		return status, nil
	default:
		return "", apperr.InvalidState(fmt.Sprintf("Unknown delivery status: %s", s))
	}
}

// Delivery is the record owned by the delivery service. OrderID is a
// reference only; the order itself is never embedded.
type Delivery struct {
	ID              int64          `json:"id" db:"id"`
	OrderID         int64          `json:"order_id" db:"order_id"`
	Status          DeliveryStatus `json:"status" db:"status"`
	DriverName      string         `json:"driver_name" db:"driver_name"`
	DriverPhone     string         `json:"driver_phone" db:"driver_phone"`
	PickupAddress   string         `json:"pickup_address" db:"pickup_address"`
	DeliveryAddress string         `json:"delivery_address" db:"delivery_address"`
	AssignedAt      *time.Time     `json:"assigned_at,omitempty" db:"assigned_at"`
	PickedUpAt      *time.Time     `json:"picked_up_at,omitempty" db:"picked_up_at"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// OrderInfo is the optional order enrichment on a delivery projection.
type OrderInfo struct {
	Status         string `json:"status"`
	CustomerID     int64  `json:"customer_id"`
	CustomerName   string `json:"customer_name"`
	RestaurantName string `json:"restaurant_name"`
}

// DeliveryResponse is the delivery read projection. Order is filled by a
// best-effort call to the order service at read time; nil means the
// enrichment was unavailable.
type DeliveryResponse struct {
	Delivery
	Order *OrderInfo `json:"order,omitempty"`
}
