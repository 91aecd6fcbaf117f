package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"food-delivery/internal/logger"
	"food-delivery/internal/messaging"
	"food-delivery/internal/models"
)

// Listener consumes delivery.* events and reconciles order statuses
type Listener struct {
	consumer *messaging.Consumer
	service  *Service
	log      *logger.Logger
}

func NewListener(conn *messaging.Connection, service *Service, log *logger.Logger) *Listener {
	consumer := messaging.NewConsumer(conn, log, messaging.OrderQueue, "order-service", 10)
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

	if routingKey != models.RoutingDeliveryUpdate {
		l.log.Debug("event_ignored",
			fmt.Sprintf("Ignoring event with routing key %s", routingKey),
			requestID, nil)
		return nil
	}

	var event models.DeliveryUpdateEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// malformed payloads never become parseable, drop them
		l.log.Error("event_malformed", "Failed to decode delivery update", requestID, err, nil)
		return nil
	}
	event.Status = strings.ToUpper(event.Status)

	return l.service.ReconcileDeliveryUpdate(ctx, &event, requestID)
}
