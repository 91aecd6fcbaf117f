package restaurant

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

type fakeStore struct {
	restaurants map[int64]*models.Restaurant
	menuItems   map[int64]*models.MenuItem
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		restaurants: make(map[int64]*models.Restaurant),
		menuItems:   make(map[int64]*models.MenuItem),
		nextID:      1,
	}
}

func (f *fakeStore) CreateRestaurant(_ context.Context, r *models.Restaurant) error {
	r.ID = f.nextID
	f.nextID++
	clone := *r
	f.restaurants[r.ID] = &clone
	return nil
}

func (f *fakeStore) GetRestaurantByID(_ context.Context, id int64) (*models.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, apperr.NotFound("Restaurant", "id", fmt.Sprintf("%d", id))
	}
	clone := *r
	return &clone, nil
}

func (f *fakeStore) SearchByCity(_ context.Context, city string) ([]models.Restaurant, error) {
	var out []models.Restaurant
	for _, r := range f.restaurants {
		if r.City == city && r.Active {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchByCuisine(_ context.Context, cuisineType string) ([]models.Restaurant, error) {
	var out []models.Restaurant
	for _, r := range f.restaurants {
		if r.CuisineType == cuisineType && r.Active {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActive(_ context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	for _, r := range f.restaurants {
		if r.Active {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	item.ID = f.nextID
	f.nextID++
	clone := *item
	f.menuItems[item.ID] = &clone
	return nil
}

func (f *fakeStore) GetMenuItemByID(_ context.Context, id int64) (*models.MenuItem, error) {
	item, ok := f.menuItems[id]
	if !ok {
		return nil, apperr.NotFound("MenuItem", "id", fmt.Sprintf("%d", id))
	}
	clone := *item
	return &clone, nil
}

func (f *fakeStore) GetMenu(_ context.Context, restaurantID int64) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range f.menuItems {
		if item.RestaurantID == restaurantID && item.Available {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateMenuItem(_ context.Context, item *models.MenuItem) error {
	if _, ok := f.menuItems[item.ID]; !ok {
		return apperr.NotFound("MenuItem", "id", fmt.Sprintf("%d", item.ID))
	}
	clone := *item
	f.menuItems[item.ID] = &clone
	return nil
}

type fakeDirectory struct {
	customers map[string]*models.Customer
	promoted  []string
	lookupErr error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{customers: make(map[string]*models.Customer)}
}

func (f *fakeDirectory) add(id int64, username string, role models.Role) {
	f.customers[username] = &models.Customer{
		ID: id, Username: username, FirstName: "Test", LastName: username, Role: role,
	}
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*models.Customer, error) {
	c, ok := f.customers[username]
	if !ok {
		return nil, apperr.NotFound("Customer", "username", username)
	}
	return c, nil
}

func (f *fakeDirectory) GetByID(_ context.Context, id int64) (*models.CustomerResponse, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, c := range f.customers {
		if c.ID == id {
			return c.ToResponse(), nil
		}
	}
	return nil, apperr.NotFound("Customer", "id", fmt.Sprintf("%d", id))
}

func (f *fakeDirectory) MakeRestaurantOwner(_ context.Context, username string) error {
	f.promoted = append(f.promoted, username)
	if c, ok := f.customers[username]; ok {
		c.Role = models.RoleRestaurantOwner
	}
	return nil
}

func newTestService() (*Service, *fakeStore, *fakeDirectory) {
	store := newFakeStore()
	dir := newFakeDirectory()
	svc := NewService(store, dir, logger.New("restaurant-service-test"))
	return svc, store, dir
}

func validRestaurant() *models.RestaurantRequest {
	return &models.RestaurantRequest{
		Name:                     "Napoli",
		CuisineType:              "Italian",
		Address:                  "5 Oven Way",
		City:                     "Springfield",
		EstimatedDeliveryMinutes: 30,
	}
}

func TestCreatePromotesCustomer(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleCustomer)

	resp, err := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(dir.promoted) != 1 || dir.promoted[0] != "alice" {
		t.Errorf("expected alice to be promoted, got %v", dir.promoted)
	}
	if !resp.Active {
		t.Error("new restaurant should be active")
	}
	if resp.OwnerID != 1 {
		t.Errorf("expected owner id 1, got %d", resp.OwnerID)
	}
}

func TestCreateExistingOwnerNotPromoted(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)

	if _, err := svc.Create(context.Background(), "alice", validRestaurant(), "req-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(dir.promoted) != 0 {
		t.Errorf("owner should not be promoted again, got %v", dir.promoted)
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), "ghost", validRestaurant(), "req-1")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestGetByIDEnrichment(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)

	created, err := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := svc.GetByID(context.Background(), created.ID, "req-2")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if resp.OwnerName == nil || *resp.OwnerName != "Test alice" {
		t.Errorf("expected owner name enrichment, got %v", resp.OwnerName)
	}
}

func TestGetByIDEnrichmentUnavailable(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)

	created, err := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dir.lookupErr = fmt.Errorf("customer service unavailable")
	resp, err := svc.GetByID(context.Background(), created.ID, "req-2")
	if err != nil {
		t.Fatalf("GetByID should not fail when enrichment is unavailable: %v", err)
	}
	if resp.OwnerName != nil {
		t.Errorf("expected nil owner name, got %v", *resp.OwnerName)
	}
}

func TestAddMenuItemOwnership(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)
	dir.add(2, "bob", models.RoleRestaurantOwner)

	created, err := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := &models.MenuItemRequest{Name: "Margherita", Price: decimal.RequireFromString("9.50")}
	_, err = svc.AddMenuItem(context.Background(), "bob", created.ID, req, "req-2")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}

	item, err := svc.AddMenuItem(context.Background(), "alice", created.ID, req, "req-3")
	if err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}
	if !item.Available {
		t.Error("new menu item should be available")
	}
}

func TestAdminBypassesOwnership(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)
	dir.add(2, "root", models.RoleAdmin)

	created, err := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req := &models.MenuItemRequest{Name: "Calzone", Price: decimal.RequireFromString("11.00")}
	if _, err := svc.AddMenuItem(context.Background(), "root", created.ID, req, "req-2"); err != nil {
		t.Errorf("admin should bypass ownership check, got %v", err)
	}
}

func TestUpdateMenuItemPartial(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)

	created, _ := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	item, err := svc.AddMenuItem(context.Background(), "alice", created.ID,
		&models.MenuItemRequest{Name: "Margherita", Price: decimal.RequireFromString("9.50")}, "req-2")
	if err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}

	price := decimal.RequireFromString("10.50")
	updated, err := svc.UpdateMenuItem(context.Background(), "alice", item.ID,
		&models.MenuItemUpdate{Price: &price}, "req-3")
	if err != nil {
		t.Fatalf("UpdateMenuItem failed: %v", err)
	}
	if !updated.Price.Equal(price) {
		t.Errorf("expected price 10.50, got %s", updated.Price)
	}
	if updated.Name != "Margherita" {
		t.Errorf("untouched field changed: %s", updated.Name)
	}
}

func TestToggleAvailability(t *testing.T) {
	svc, store, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)

	created, _ := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	item, err := svc.AddMenuItem(context.Background(), "alice", created.ID,
		&models.MenuItemRequest{Name: "Margherita", Price: decimal.RequireFromString("9.50")}, "req-2")
	if err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}

	if err := svc.ToggleAvailability(context.Background(), "alice", item.ID, "req-3"); err != nil {
		t.Fatalf("ToggleAvailability failed: %v", err)
	}
	stored, _ := store.GetMenuItemByID(context.Background(), item.ID)
	if stored.Available {
		t.Error("expected item to become unavailable")
	}

	if err := svc.ToggleAvailability(context.Background(), "alice", item.ID, "req-4"); err != nil {
		t.Fatalf("second ToggleAvailability failed: %v", err)
	}
	stored, _ = store.GetMenuItemByID(context.Background(), item.ID)
	if !stored.Available {
		t.Error("expected item to become available again")
	}
}

func TestGetMenuExcludesUnavailable(t *testing.T) {
	svc, _, dir := newTestService()
	dir.add(1, "alice", models.RoleRestaurantOwner)

	created, _ := svc.Create(context.Background(), "alice", validRestaurant(), "req-1")
	item, _ := svc.AddMenuItem(context.Background(), "alice", created.ID,
		&models.MenuItemRequest{Name: "Margherita", Price: decimal.RequireFromString("9.50")}, "req-2")
	if _, err := svc.AddMenuItem(context.Background(), "alice", created.ID,
		&models.MenuItemRequest{Name: "Calzone", Price: decimal.RequireFromString("11.00")}, "req-3"); err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}

	if err := svc.ToggleAvailability(context.Background(), "alice", item.ID, "req-4"); err != nil {
		t.Fatalf("ToggleAvailability failed: %v", err)
	}

	menu, err := svc.GetMenu(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetMenu failed: %v", err)
	}
	if len(menu) != 1 || menu[0].Name != "Calzone" {
		t.Errorf("expected only the available item, got %+v", menu)
	}
}

func TestGetMenuUnknownRestaurant(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetMenu(context.Background(), 42)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
