package delivery

import (
	"context"
	"fmt"
	"time"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

// Store is the persistence boundary for deliveries
type Store interface {
	Create(ctx context.Context, d *models.Delivery) error
	GetByID(ctx context.Context, id int64) (*models.Delivery, error)
	GetByOrderID(ctx context.Context, orderID int64) (*models.Delivery, error)
	GetByStatus(ctx context.Context, status models.DeliveryStatus) ([]models.Delivery, error)
	Update(ctx context.Context, d *models.Delivery) error
}

// Publisher emits delivery status events
type Publisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload interface{}) error
}

// OrderLookup fetches order projections for read-time enrichment
type OrderLookup interface {
	GetByID(ctx context.Context, id int64) (*models.OrderResponse, error)
}

type Service struct {
	store     Store
	publisher Publisher
	orders    OrderLookup
	log       *logger.Logger
}

func NewService(store Store, publisher Publisher, orders OrderLookup, log *logger.Logger) *Service {
	return &Service{store: store, publisher: publisher, orders: orders, log: log}
}

// CreateForOrder assigns a driver to a freshly placed order. The pickup
// address comes from the order's restaurant snapshot. The resulting
// delivery.update event carries status CONFIRMED so the order service
// confirms the order.
func (s *Service) CreateForOrder(ctx context.Context, order *models.OrderResponse, requestID string) (*models.Delivery, error) {
	if existing, err := s.store.GetByOrderID(ctx, order.ID); err == nil {
		s.log.Debug("delivery_exists",
			fmt.Sprintf("Delivery %d already tracks order %d", existing.ID, order.ID),
			requestID, nil)
		return existing, nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	driver := pickDriver()
	now := time.Now()
	d := &models.Delivery{
		OrderID:         order.ID,
		Status:          models.DeliveryAssigned,
		DriverName:      driver.Name,
		DriverPhone:     driver.Phone,
		PickupAddress:   order.RestaurantAddress,
		DeliveryAddress: order.DeliveryAddress,
		AssignedAt:      &now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	s.publishUpdate(ctx, d.OrderID, "CONFIRMED", requestID)

	s.log.Info("delivery_assigned",
		fmt.Sprintf("Delivery %d assigned to %s for order %d", d.ID, driver.Name, order.ID),
		requestID,
		map[string]interface{}{"delivery_id": d.ID, "order_id": order.ID, "driver": driver.Name})

	return d, nil
}

// GetByID returns a delivery enriched with order details when the order
// service answers.
func (s *Service) GetByID(ctx context.Context, id int64, requestID string) (*models.DeliveryResponse, error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, d, requestID), nil
}

func (s *Service) GetByOrderID(ctx context.Context, orderID int64, requestID string) (*models.DeliveryResponse, error) {
	d, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, d, requestID), nil
}

// GetByStatus lists deliveries in a given status. The status string is
// parsed case-insensitively.
func (s *Service) GetByStatus(ctx context.Context, statusStr, requestID string) ([]*models.DeliveryResponse, error) {
	status, err := models.ParseDeliveryStatus(statusStr)
	if err != nil {
		return nil, err
	}

	deliveries, err := s.store.GetByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	out := make([]*models.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		out = append(out, s.enrich(ctx, &deliveries[i], requestID))
	}
	return out, nil
}

// UpdateStatus moves a delivery through its lifecycle. Only the
// DELIVERED transition is published; the order service learns about
// intermediate stops when it next enriches a read.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statusStr, requestID string) (*models.DeliveryResponse, error) {
	status, err := models.ParseDeliveryStatus(statusStr)
	if err != nil {
		return nil, err
	}

	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	d.Status = status
	switch status {
	case models.DeliveryPickedUp:
		d.PickedUpAt = &now
	case models.DeliveryDelivered:
		d.DeliveredAt = &now
	}

	if err := s.store.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update delivery: %w", err)
	}

	if status == models.DeliveryDelivered {
		s.publishUpdate(ctx, d.OrderID, string(status), requestID)
	}

	s.log.Info("delivery_status_updated",
		fmt.Sprintf("Delivery %d set to %s", id, status),
		requestID,
		map[string]interface{}{"delivery_id": id, "order_id": d.OrderID, "status": string(status)})

	return s.enrich(ctx, d, requestID), nil
}

// Cancel marks a delivery FAILED. Used both for the REST endpoint and
// for order.deleted events. No event goes out; the order has already
// been cancelled on its own side.
func (s *Service) Cancel(ctx context.Context, id int64, requestID string) error {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.cancel(ctx, d, requestID)
}

// CancelForOrder abandons the delivery tracking a cancelled order
func (s *Service) CancelForOrder(ctx context.Context, orderID int64, requestID string) error {
	d, err := s.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	return s.cancel(ctx, d, requestID)
}

func (s *Service) cancel(ctx context.Context, d *models.Delivery, requestID string) error {
	d.Status = models.DeliveryFailed
	if err := s.store.Update(ctx, d); err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}

	s.log.Info("delivery_cancelled",
		fmt.Sprintf("Delivery %d cancelled", d.ID),
		requestID,
		map[string]interface{}{"delivery_id": d.ID, "order_id": d.OrderID})

	return nil
}

func (s *Service) publishUpdate(ctx context.Context, orderID int64, status, requestID string) {
	event := models.DeliveryUpdateEvent{OrderID: orderID, Status: status}
	if err := s.publisher.PublishEvent(ctx, models.RoutingDeliveryUpdate, event); err != nil {
		s.log.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish delivery.update for order %d", orderID),
			requestID, err, nil)
	}
}

// enrich attaches order details when the order service answers. A failed
// lookup leaves Order nil and the response still goes out.
func (s *Service) enrich(ctx context.Context, d *models.Delivery, requestID string) *models.DeliveryResponse {
	resp := &models.DeliveryResponse{Delivery: *d}
	order, err := s.orders.GetByID(ctx, d.OrderID)
	if err != nil {
		s.log.Debug("enrichment_skipped",
			fmt.Sprintf("Order lookup failed for delivery %d", d.ID),
			requestID,
			map[string]interface{}{"order_id": d.OrderID, "error": err.Error()})
		return resp
	}
	resp.Order = &models.OrderInfo{
		Status:         string(order.Status),
		CustomerID:     order.CustomerID,
		CustomerName:   order.CustomerName,
		RestaurantName: order.RestaurantName,
	}
	return resp
}
