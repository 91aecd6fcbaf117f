package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/messaging"
	"food-delivery/internal/models"
)

// Listener consumes order.* events to create and abandon deliveries
type Listener struct {
	consumer *messaging.Consumer
	service  *Service
	log      *logger.Logger
}

func NewListener(conn *messaging.Connection, service *Service, log *logger.Logger) *Listener {
	consumer := messaging.NewConsumer(conn, log, messaging.DeliveryQueue, "delivery-service", 10)
	return &Listener{consumer: consumer, service: service, log: log}
}

// Start blocks consuming until the context is cancelled
func (l *Listener) Start(ctx context.Context) error {
	return l.consumer.StartConsuming(ctx, l.handleMessage)
}

func (l *Listener) Close() error {
	return l.consumer.Close()
}

func (l *Listener) handleMessage(ctx context.Context, routingKey string, body []byte) error {
	requestID := logger.GenerateRequestID()

	switch routingKey {
	case models.RoutingOrderPlaced:
		return l.handleOrderPlaced(ctx, body, requestID)
	case models.RoutingOrderDeleted:
		return l.handleOrderDeleted(ctx, body, requestID)
	default:
		l.log.Debug("event_ignored",
			fmt.Sprintf("Ignoring event with routing key %s", routingKey),
			requestID, nil)
		return nil
	}
}

func (l *Listener) handleOrderPlaced(ctx context.Context, body []byte, requestID string) error {
	var order models.OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		// malformed payloads never become parseable, drop them
		l.log.Error("event_malformed", "Failed to decode order.placed", requestID, err, nil)
		return nil
	}

	if _, err := l.service.CreateForOrder(ctx, &order, requestID); err != nil {
		return err
	}
	return nil
}

func (l *Listener) handleOrderDeleted(ctx context.Context, body []byte, requestID string) error {
	var order models.OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		l.log.Error("event_malformed", "Failed to decode order.deleted", requestID, err, nil)
		return nil
	}

	err := l.service.CancelForOrder(ctx, order.ID, requestID)
	if err == nil {
		return nil
	}
	// an order cancelled before any delivery existed is not worth a
	// redelivery loop
	if apperr.IsKind(err, apperr.KindNotFound) {
		l.log.Debug("order_deleted_ignored",
			fmt.Sprintf("Nothing to cancel for order %d", order.ID),
			requestID,
			map[string]interface{}{"error": err.Error()})
		return nil
	}
	return err
}
