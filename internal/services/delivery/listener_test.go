package delivery

import (
	"context"
	"encoding/json"
	"testing"

	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

func newTestListener(f *fixture) *Listener {
	return &Listener{service: f.svc, log: logger.New("delivery-service-test")}
}

func TestHandleOrderPlacedCreatesDelivery(t *testing.T) {
	f := newFixture()
	l := newTestListener(f)

	body, _ := json.Marshal(placedOrder())
	if err := l.handleMessage(context.Background(), models.RoutingOrderPlaced, body); err != nil {
		t.Fatalf("handleMessage failed: %v", err)
	}

	d, err := f.store.GetByOrderID(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected a delivery for order 1: %v", err)
	}
	if d.Status != models.DeliveryAssigned {
		t.Errorf("expected ASSIGNED, got %s", d.Status)
	}
}

func TestHandleOrderDeletedCancelsDelivery(t *testing.T) {
	f := newFixture()
	l := newTestListener(f)

	if _, err := f.svc.CreateForOrder(context.Background(), placedOrder(), "req-1"); err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}

	cancelled := placedOrder()
	cancelled.Status = models.OrderCancelled
	body, _ := json.Marshal(cancelled)
	if err := l.handleMessage(context.Background(), models.RoutingOrderDeleted, body); err != nil {
		t.Fatalf("handleMessage failed: %v", err)
	}

	d, _ := f.store.GetByOrderID(context.Background(), 1)
	if d.Status != models.DeliveryFailed {
		t.Errorf("expected FAILED, got %s", d.Status)
	}
}

func TestHandleOrderDeletedWithoutDelivery(t *testing.T) {
	f := newFixture()
	l := newTestListener(f)

	body := []byte(`{"id": 404, "status": "CANCELLED"}`)
	if err := l.handleMessage(context.Background(), models.RoutingOrderDeleted, body); err != nil {
		t.Errorf("missing delivery should be dropped without error, got %v", err)
	}
}

func TestHandleMessageDropsMalformed(t *testing.T) {
	f := newFixture()
	l := newTestListener(f)

	if err := l.handleMessage(context.Background(), models.RoutingOrderPlaced, []byte(`{`)); err != nil {
		t.Errorf("malformed payload should be dropped without error, got %v", err)
	}
}
