package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

type fakeStore struct {
	orders map[int64]*models.Order
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[int64]*models.Order), nextID: 1}
}

func (f *fakeStore) CreateOrder(_ context.Context, o *models.Order) error {
	o.ID = f.nextID
	f.nextID++
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		o.Items[i].ID = f.nextID
		o.Items[i].OrderID = o.ID
		f.nextID++
	}
	clone := *o
	f.orders[o.ID] = &clone
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order", "id", fmt.Sprintf("%d", id))
	}
	clone := *o
	return &clone, nil
}

func (f *fakeStore) GetOrdersByCustomer(_ context.Context, customerID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrdersByRestaurant(_ context.Context, restaurantID int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.RestaurantID == restaurantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, status models.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("Order", "id", fmt.Sprintf("%d", id))
	}
	o.Status = status
	return nil
}

type publishedEvent struct {
	routingKey string
	payload    interface{}
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, routingKey string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{routingKey, payload})
	return nil
}

type fakeDirectory struct {
	customers map[string]*models.Customer
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*models.Customer, error) {
	c, ok := f.customers[username]
	if !ok {
		return nil, apperr.NotFound("Customer", "username", username)
	}
	return c, nil
}

type fakeCatalog struct {
	restaurants map[int64]*models.RestaurantResponse
	menuItems   map[int64]*models.MenuItem
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*models.RestaurantResponse, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, apperr.NotFound("Restaurant", "id", fmt.Sprintf("%d", id))
	}
	return r, nil
}

func (f *fakeCatalog) GetMenuItem(_ context.Context, id int64) (*models.MenuItem, error) {
	item, ok := f.menuItems[id]
	if !ok {
		return nil, apperr.NotFound("MenuItem", "id", fmt.Sprintf("%d", id))
	}
	return item, nil
}

type fakeDeliveries struct {
	deliveries map[int64]*models.DeliveryResponse
	err        error
}

func (f *fakeDeliveries) GetByOrderID(_ context.Context, orderID int64) (*models.DeliveryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.deliveries[orderID]
	if !ok {
		return nil, apperr.NotFound("Delivery", "order_id", fmt.Sprintf("%d", orderID))
	}
	return d, nil
}

type fixture struct {
	svc        *Service
	store      *fakeStore
	publisher  *fakePublisher
	deliveries *fakeDeliveries
}

func newFixture() *fixture {
	store := newFakeStore()
	publisher := &fakePublisher{}
	deliveries := &fakeDeliveries{deliveries: make(map[int64]*models.DeliveryResponse)}

	directory := &fakeDirectory{customers: map[string]*models.Customer{
		"alice": {ID: 1, Username: "alice", FirstName: "Alice", LastName: "Smith",
			DeliveryAddress: "1 Main St", Role: models.RoleCustomer},
		"root": {ID: 2, Username: "root", FirstName: "Rita", LastName: "Admin",
			DeliveryAddress: "2 Side St", Role: models.RoleAdmin},
	}}
	catalog := &fakeCatalog{
		restaurants: map[int64]*models.RestaurantResponse{
			10: {Restaurant: models.Restaurant{
				ID: 10, Name: "Napoli", Address: "5 Oven Way", Active: true,
				EstimatedDeliveryMinutes: 30,
			}},
			11: {Restaurant: models.Restaurant{ID: 11, Name: "Closed Kitchen", Active: false}},
		},
		menuItems: map[int64]*models.MenuItem{
			100: {ID: 100, RestaurantID: 10, Name: "Margherita",
				Price: decimal.RequireFromString("9.50"), Available: true},
			101: {ID: 101, RestaurantID: 10, Name: "Calzone",
				Price: decimal.RequireFromString("11.00"), Available: false},
			102: {ID: 102, RestaurantID: 10, Name: "Tiramisu",
				Price: decimal.RequireFromString("5.25"), Available: true},
			200: {ID: 200, RestaurantID: 20, Name: "Sushi Set",
				Price: decimal.RequireFromString("15.00"), Available: true},
		},
	}

	svc := NewService(store, publisher, directory, catalog, deliveries, logger.New("order-service-test"))
	return &fixture{svc: svc, store: store, publisher: publisher, deliveries: deliveries}
}

func placeRequest() *models.PlaceOrderRequest {
	return &models.PlaceOrderRequest{
		RestaurantID: 10,
		Items: []models.OrderItemRequest{
			{MenuItemID: 100, Quantity: 2},
		},
	}
}

func TestPlace(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	// 2 x 9.50, fee tracked separately
	want := decimal.RequireFromString("19.00")
	if !resp.TotalAmount.Equal(want) {
		t.Errorf("expected total %s, got %s", want, resp.TotalAmount)
	}
	if !resp.DeliveryFee.Equal(models.DefaultDeliveryFee) {
		t.Errorf("expected delivery fee 2.99, got %s", resp.DeliveryFee)
	}
	if resp.Status != models.OrderPlaced {
		t.Errorf("expected status PLACED, got %s", resp.Status)
	}
	if resp.DeliveryAddress != "1 Main St" {
		t.Errorf("expected customer's default address, got %q", resp.DeliveryAddress)
	}
	if resp.CustomerName != "Alice Smith" || resp.RestaurantName != "Napoli" {
		t.Errorf("snapshot fields not captured: %q / %q", resp.CustomerName, resp.RestaurantName)
	}

	eta := time.Until(resp.EstimatedDeliveryTime)
	if eta < 29*time.Minute || eta > 31*time.Minute {
		t.Errorf("expected ETA about 30 minutes out, got %v", eta)
	}

	if len(f.publisher.events) != 1 || f.publisher.events[0].routingKey != models.RoutingOrderPlaced {
		t.Fatalf("expected one order.placed event, got %+v", f.publisher.events)
	}
}

func TestPlaceTotalIndependentOfItemOrder(t *testing.T) {
	f := newFixture()

	forward := placeRequest()
	forward.Items = []models.OrderItemRequest{
		{MenuItemID: 100, Quantity: 2},
		{MenuItemID: 102, Quantity: 1},
	}
	reversed := placeRequest()
	reversed.Items = []models.OrderItemRequest{
		{MenuItemID: 102, Quantity: 1},
		{MenuItemID: 100, Quantity: 2},
	}

	first, err := f.svc.Place(context.Background(), "alice", forward, "req-1")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	second, err := f.svc.Place(context.Background(), "alice", reversed, "req-2")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	want := decimal.RequireFromString("24.25")
	if !first.TotalAmount.Equal(want) {
		t.Errorf("expected total %s, got %s", want, first.TotalAmount)
	}
	if !first.TotalAmount.Equal(second.TotalAmount) {
		t.Errorf("totals differ by item order: %s vs %s", first.TotalAmount, second.TotalAmount)
	}
}

func TestPlaceAddressOverride(t *testing.T) {
	f := newFixture()

	req := placeRequest()
	req.DeliveryAddress = "9 Office Park"
	resp, err := f.svc.Place(context.Background(), "alice", req, "req-1")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if resp.DeliveryAddress != "9 Office Park" {
		t.Errorf("expected override address, got %q", resp.DeliveryAddress)
	}
}

func TestPlaceInactiveRestaurant(t *testing.T) {
	f := newFixture()

	req := placeRequest()
	req.RestaurantID = 11
	_, err := f.svc.Place(context.Background(), "alice", req, "req-1")
	if !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

func TestPlaceUnavailableItem(t *testing.T) {
	f := newFixture()

	req := placeRequest()
	req.Items = []models.OrderItemRequest{{MenuItemID: 101, Quantity: 1}}
	_, err := f.svc.Place(context.Background(), "alice", req, "req-1")
	if !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

func TestPlaceItemFromOtherRestaurant(t *testing.T) {
	f := newFixture()

	req := placeRequest()
	req.Items = []models.OrderItemRequest{{MenuItemID: 200, Quantity: 1}}
	_, err := f.svc.Place(context.Background(), "alice", req, "req-1")
	if !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

func TestPlaceUnknownCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Place(context.Background(), "ghost", placeRequest(), "req-1")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestPlaceSurvivesPublishFailure(t *testing.T) {
	f := newFixture()
	f.publisher.err = fmt.Errorf("broker unavailable")

	if _, err := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1"); err != nil {
		t.Errorf("placement should succeed when publishing fails, got %v", err)
	}
}

func TestGetByIDDeliveryEnrichment(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	f.deliveries.deliveries[resp.ID] = &models.DeliveryResponse{
		Delivery: models.Delivery{
			OrderID: resp.ID, Status: models.DeliveryAssigned,
			DriverName: "Carlos Martinez", DriverPhone: "+1-555-0101",
		},
	}

	got, err := f.svc.GetByID(context.Background(), resp.ID, "req-2")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Delivery == nil {
		t.Fatal("expected delivery enrichment")
	}
	if got.Delivery.DriverName != "Carlos Martinez" {
		t.Errorf("expected driver name, got %q", got.Delivery.DriverName)
	}
}

func TestGetByIDEnrichmentUnavailable(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	f.deliveries.err = fmt.Errorf("delivery service unavailable")
	got, err := f.svc.GetByID(context.Background(), resp.ID, "req-2")
	if err != nil {
		t.Fatalf("GetByID should not fail when enrichment is unavailable: %v", err)
	}
	if got.Delivery != nil {
		t.Errorf("expected nil delivery, got %+v", got.Delivery)
	}
}

func TestUpdateStatusCaseInsensitive(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	got, err := f.svc.UpdateStatus(context.Background(), resp.ID, "preparing", "req-2")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if got.Status != models.OrderPreparing {
		t.Errorf("expected PREPARING, got %s", got.Status)
	}
}

func TestUpdateStatusUnknown(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	_, err := f.svc.UpdateStatus(context.Background(), resp.ID, "TELEPORTED", "req-2")
	if !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("error = %v, want KindInvalidState for unknown status", err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	if err := f.svc.Cancel(context.Background(), "alice", resp.ID, "req-2"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	o, _ := f.store.GetOrderByID(context.Background(), resp.ID)
	if o.Status != models.OrderCancelled {
		t.Errorf("expected CANCELLED, got %s", o.Status)
	}

	last := f.publisher.events[len(f.publisher.events)-1]
	if last.routingKey != models.RoutingOrderDeleted {
		t.Errorf("expected order.deleted event, got %s", last.routingKey)
	}
}

func TestCancelWrongOwner(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")

	o := f.store.orders[resp.ID]
	o.CustomerID = 99

	err := f.svc.Cancel(context.Background(), "alice", resp.ID, "req-2")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestCancelAdminIsNotOwner(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")

	err := f.svc.Cancel(context.Background(), "root", resp.ID, "req-2")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestCancelAfterPreparing(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")
	f.store.orders[resp.ID].Status = models.OrderPreparing

	err := f.svc.Cancel(context.Background(), "alice", resp.ID, "req-2")
	if !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

func TestReconcileDeliveryUpdate(t *testing.T) {
	f := newFixture()
	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")

	tests := []struct {
		deliveryStatus string
		want           models.OrderStatus
	}{
		{"CONFIRMED", models.OrderConfirmed},
		{"PICKED_UP", models.OrderOutForDelivery},
		{"IN_TRANSIT", models.OrderOutForDelivery},
		{"DELIVERED", models.OrderDelivered},
		{"FAILED", models.OrderCancelled},
	}
	for _, tt := range tests {
		event := &models.DeliveryUpdateEvent{OrderID: resp.ID, Status: tt.deliveryStatus}
		if err := f.svc.ReconcileDeliveryUpdate(context.Background(), event, "req-2"); err != nil {
			t.Fatalf("ReconcileDeliveryUpdate(%s) failed: %v", tt.deliveryStatus, err)
		}
		o, _ := f.store.GetOrderByID(context.Background(), resp.ID)
		if o.Status != tt.want {
			t.Errorf("delivery status %s: expected order status %s, got %s", tt.deliveryStatus, tt.want, o.Status)
		}
	}
}

func TestReconcileUnmappedStatusDropped(t *testing.T) {
	f := newFixture()
	resp, _ := f.svc.Place(context.Background(), "alice", placeRequest(), "req-1")

	event := &models.DeliveryUpdateEvent{OrderID: resp.ID, Status: "PENDING"}
	if err := f.svc.ReconcileDeliveryUpdate(context.Background(), event, "req-2"); err != nil {
		t.Errorf("unmapped status should be dropped without error, got %v", err)
	}
	o, _ := f.store.GetOrderByID(context.Background(), resp.ID)
	if o.Status != models.OrderPlaced {
		t.Errorf("order status should be untouched, got %s", o.Status)
	}
}

func TestReconcileUnknownOrderDropped(t *testing.T) {
	f := newFixture()

	event := &models.DeliveryUpdateEvent{OrderID: 404, Status: "DELIVERED"}
	if err := f.svc.ReconcileDeliveryUpdate(context.Background(), event, "req-1"); err != nil {
		t.Errorf("unknown order should be dropped without error, got %v", err)
	}
}
