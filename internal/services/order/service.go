package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

// Store is the persistence boundary for orders
type Store interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	GetOrdersByRestaurant(ctx context.Context, restaurantID int64) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
}

// Publisher emits order lifecycle events
type Publisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload interface{}) error
}

// CustomerDirectory resolves customer accounts on the customer service
type CustomerDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
}

// RestaurantCatalog resolves restaurants and menu items
type RestaurantCatalog interface {
	GetByID(ctx context.Context, id int64) (*models.RestaurantResponse, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
}

// DeliveryLookup fetches the delivery tracking an order, for read-time
// enrichment.
type DeliveryLookup interface {
	GetByOrderID(ctx context.Context, orderID int64) (*models.DeliveryResponse, error)
}

type Service struct {
	store       Store
	publisher   Publisher
	customers   CustomerDirectory
	restaurants RestaurantCatalog
	deliveries  DeliveryLookup
	log         *logger.Logger
}

func NewService(store Store, publisher Publisher, customers CustomerDirectory, restaurants RestaurantCatalog, deliveries DeliveryLookup, log *logger.Logger) *Service {
	return &Service{
		store:       store,
		publisher:   publisher,
		customers:   customers,
		restaurants: restaurants,
		deliveries:  deliveries,
		log:         log,
	}
}

// Place creates an order for the authenticated customer. Customer and
// restaurant details are copied into the order as immutable snapshots,
// the delivery fee is recorded as a separate charge next to the item
// total and an order.placed event carries the result to the delivery
// service.
func (s *Service) Place(ctx context.Context, username string, req *models.PlaceOrderRequest, requestID string) (*models.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.Active {
		return nil, apperr.InvalidState(fmt.Sprintf("Restaurant is not accepting orders: %s", restaurant.Name))
	}

	itemTotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		menuItem, err := s.restaurants.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if menuItem.RestaurantID != req.RestaurantID {
			return nil, apperr.InvalidState(fmt.Sprintf("Menu item %d does not belong to restaurant %d", menuItem.ID, req.RestaurantID))
		}
		if !menuItem.Available {
			return nil, apperr.InvalidState(fmt.Sprintf("Menu item is not available: %s", menuItem.Name))
		}

		subtotal := menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		itemTotal = itemTotal.Add(subtotal)
		items = append(items, models.OrderItem{
			MenuItemID:          menuItem.ID,
			ItemName:            menuItem.Name,
			Quantity:            line.Quantity,
			UnitPrice:           menuItem.Price,
			Subtotal:            subtotal,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	deliveryAddress := req.DeliveryAddress
	if deliveryAddress == "" {
		deliveryAddress = customer.DeliveryAddress
	}

	o := &models.Order{
		Status:                models.OrderPlaced,
		TotalAmount:           itemTotal,
		DeliveryFee:           models.DefaultDeliveryFee,
		DeliveryAddress:       deliveryAddress,
		SpecialInstructions:   req.SpecialInstructions,
		EstimatedDeliveryTime: time.Now().Add(time.Duration(restaurant.EstimatedDeliveryMinutes) * time.Minute),
		Items:                 items,
		CustomerID:            customer.ID,
		CustomerName:          customer.FullName(),
		RestaurantID:          restaurant.ID,
		RestaurantName:        restaurant.Name,
		RestaurantAddress:     restaurant.Address,
	}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	resp := o.ToResponse()
	if err := s.publisher.PublishEvent(ctx, models.RoutingOrderPlaced, resp); err != nil {
		s.log.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish order.placed for order %d", o.ID),
			requestID, err, nil)
	}

	s.log.Info("order_placed",
		fmt.Sprintf("Order %d placed by customer %d", o.ID, customer.ID),
		requestID,
		map[string]interface{}{
			"order_id":      o.ID,
			"restaurant_id": restaurant.ID,
			"total_amount":  o.TotalAmount.String(),
		})

	return resp, nil
}

// GetByID returns an order enriched with its delivery status when the
// delivery service answers.
func (s *Service) GetByID(ctx context.Context, id int64, requestID string) (*models.OrderResponse, error) {
	o, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, o, requestID), nil
}

// GetCustomerOrders returns the authenticated customer's orders
func (s *Service) GetCustomerOrders(ctx context.Context, username, requestID string) ([]*models.OrderResponse, error) {
	customer, err := s.customers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.GetOrdersByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	return s.enrichAll(ctx, orders, requestID), nil
}

// GetRestaurantOrders returns the orders placed against a restaurant
func (s *Service) GetRestaurantOrders(ctx context.Context, restaurantID int64, requestID string) ([]*models.OrderResponse, error) {
	orders, err := s.store.GetOrdersByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant orders: %w", err)
	}
	return s.enrichAll(ctx, orders, requestID), nil
}

// UpdateStatus sets an order's status. The incoming string is parsed
// case-insensitively.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statusStr, requestID string) (*models.OrderResponse, error) {
	status, err := models.ParseOrderStatus(statusStr)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.log.Info("order_status_updated",
		fmt.Sprintf("Order %d set to %s", id, status),
		requestID,
		map[string]interface{}{"order_id": id, "status": string(status)})

	return s.GetByID(ctx, id, requestID)
}

// Cancel cancels one of the caller's orders. Only orders still in PLACED
// or CONFIRMED can be cancelled; the delivery service is told through an
// order.deleted event.
func (s *Service) Cancel(ctx context.Context, username string, id int64, requestID string) error {
	caller, err := s.customers.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	o, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if o.CustomerID != caller.ID {
		return apperr.Unauthorized(fmt.Sprintf("User %s does not own order %d", username, id))
	}
	if o.Status != models.OrderPlaced && o.Status != models.OrderConfirmed {
		return apperr.InvalidState(fmt.Sprintf("Cannot cancel order in status: %s", o.Status))
	}

	if err := s.store.UpdateStatus(ctx, id, models.OrderCancelled); err != nil {
		return err
	}

	o.Status = models.OrderCancelled
	if err := s.publisher.PublishEvent(ctx, models.RoutingOrderDeleted, o.ToResponse()); err != nil {
		s.log.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish order.deleted for order %d", id),
			requestID, err, nil)
	}

	s.log.Info("order_cancelled",
		fmt.Sprintf("Order %d cancelled by %s", id, username),
		requestID,
		map[string]interface{}{"order_id": id})

	return nil
}

// ReconcileDeliveryUpdate maps a delivery status event onto the order it
// tracks. Events for unknown orders or statuses with no order mapping
// are logged and dropped.
func (s *Service) ReconcileDeliveryUpdate(ctx context.Context, event *models.DeliveryUpdateEvent, requestID string) error {
	status, ok := models.MapDeliveryToOrderStatus(event.Status)
	if !ok {
		s.log.Debug("delivery_update_ignored",
			fmt.Sprintf("No order status mapping for delivery status %s", event.Status),
			requestID,
			map[string]interface{}{"order_id": event.OrderID})
		return nil
	}

	if err := s.store.UpdateStatus(ctx, event.OrderID, status); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			s.log.Error("delivery_update_orphaned",
				fmt.Sprintf("Delivery update for unknown order %d", event.OrderID),
				requestID, err, nil)
			return nil
		}
		return fmt.Errorf("failed to reconcile order %d: %w", event.OrderID, err)
	}

	s.log.Info("order_reconciled",
		fmt.Sprintf("Order %d set to %s from delivery status %s", event.OrderID, status, event.Status),
		requestID,
		map[string]interface{}{"order_id": event.OrderID, "status": string(status)})

	return nil
}

// enrich attaches delivery tracking when the delivery service answers.
// A failed lookup leaves Delivery nil and the response still goes out.
func (s *Service) enrich(ctx context.Context, o *models.Order, requestID string) *models.OrderResponse {
	resp := o.ToResponse()
	d, err := s.deliveries.GetByOrderID(ctx, o.ID)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			s.log.Debug("enrichment_skipped",
				fmt.Sprintf("Delivery lookup failed for order %d", o.ID),
				requestID,
				map[string]interface{}{"error": err.Error()})
		}
		return resp
	}
	resp.Delivery = &models.DeliveryInfo{
		Status:      string(d.Status),
		DriverName:  d.DriverName,
		DriverPhone: d.DriverPhone,
	}
	return resp
}

func (s *Service) enrichAll(ctx context.Context, orders []models.Order, requestID string) []*models.OrderResponse {
	out := make([]*models.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, s.enrich(ctx, &orders[i], requestID))
	}
	return out
}
