package models

// Routing keys on the application topic exchange
const (
	RoutingOrderPlaced    = "order.placed"
	RoutingOrderDeleted   = "order.deleted"
	RoutingDeliveryUpdate = "delivery.update"
)

// DeliveryUpdateEvent is published by the delivery service when a delivery
// status changes, and consumed by the order service for reconciliation.
type DeliveryUpdateEvent struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// MapDeliveryToOrderStatus maps a delivery status string to the order
// status it implies. ok is false for statuses with no mapping; those
// events are logged and ignored.
func MapDeliveryToOrderStatus(deliveryStatus string) (OrderStatus, bool) {
	switch DeliveryStatus(deliveryStatus) {
	case "CONFIRMED", DeliveryAssigned:
		return OrderConfirmed, true
	case DeliveryPickedUp, DeliveryInTransit:
		return OrderOutForDelivery, true
	case DeliveryDelivered:
		return OrderDelivered, true
	case DeliveryFailed:
		return OrderCancelled, true
	default:
		return "", false
	}
}
