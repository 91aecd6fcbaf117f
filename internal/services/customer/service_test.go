package customer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

type fakeStore struct {
	customers map[int64]*models.Customer
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: make(map[int64]*models.Customer), nextID: 1}
}

func (f *fakeStore) Create(_ context.Context, c *models.Customer) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	f.customers[c.ID] = &clone
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, apperr.NotFound("Customer", "id", fmt.Sprintf("%d", id))
	}
	clone := *c
	return &clone, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Username == username {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Customer", "username", username)
}

func (f *fakeStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, c := range f.customers {
		if c.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Update(_ context.Context, c *models.Customer) error {
	if _, ok := f.customers[c.ID]; !ok {
		return apperr.NotFound("Customer", "id", fmt.Sprintf("%d", c.ID))
	}
	clone := *c
	f.customers[c.ID] = &clone
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, logger.New("customer-service-test")), store
}

func validRegister() *models.RegisterRequest {
	return &models.RegisterRequest{
		Username:        "alice",
		Password:        "$2a$10$hash",
		Email:           "alice@example.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Phone:           "+1-555-1234",
		DeliveryAddress: "1 Main St",
		City:            "Springfield",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, validRegister(), "req-1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.ID == 0 {
		t.Error("expected an assigned ID")
	}
	if resp.Role != models.RoleCustomer {
		t.Errorf("expected default role CUSTOMER, got %s", resp.Role)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister(), "req-1"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	dup := validRegister()
	dup.Email = "other@example.com"
	_, err := svc.Register(ctx, dup, "req-2")
	if !apperr.IsKind(err, apperr.KindDuplicate) {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister(), "req-1"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	dup := validRegister()
	dup.Username = "bob"
	_, err := svc.Register(ctx, dup, "req-2")
	if !apperr.IsKind(err, apperr.KindDuplicate) {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestRegisterInvalidRequest(t *testing.T) {
	svc, _ := newTestService()

	req := validRegister()
	req.Username = ""
	if _, err := svc.Register(context.Background(), req, "req-1"); err == nil {
		t.Error("expected validation error for empty username")
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister(), "req-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	phone := "+1-555-9999"
	resp, err := svc.UpdateProfile(ctx, "alice", &models.UpdateProfileRequest{Phone: &phone}, "req-2")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if resp.Phone != phone {
		t.Errorf("expected phone %s, got %s", phone, resp.Phone)
	}
	if resp.Email != "alice@example.com" {
		t.Errorf("untouched field changed: %s", resp.Email)
	}
}

func TestUpdateProfileNotFound(t *testing.T) {
	svc, _ := newTestService()

	city := "Shelbyville"
	_, err := svc.UpdateProfile(context.Background(), "ghost", &models.UpdateProfileRequest{City: &city}, "req-1")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestMakeRestaurantOwner(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister(), "req-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	resp, err := svc.MakeRestaurantOwner(ctx, "alice", "req-2")
	if err != nil {
		t.Fatalf("MakeRestaurantOwner failed: %v", err)
	}
	if resp.Role != models.RoleRestaurantOwner {
		t.Errorf("expected role RESTAURANT_OWNER, got %s", resp.Role)
	}

	// promoting again is a no-op
	resp, err = svc.MakeRestaurantOwner(ctx, "alice", "req-3")
	if err != nil {
		t.Fatalf("second MakeRestaurantOwner failed: %v", err)
	}
	if resp.Role != models.RoleRestaurantOwner {
		t.Errorf("expected role to stay RESTAURANT_OWNER, got %s", resp.Role)
	}

	stored, _ := store.GetByUsername(ctx, "alice")
	if stored.Role != models.RoleRestaurantOwner {
		t.Errorf("role not persisted, got %s", stored.Role)
	}
}

func TestMakeRestaurantOwnerAdmin(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegister(), "req-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	admin, _ := store.GetByUsername(ctx, "alice")
	admin.Role = models.RoleAdmin
	if err := store.Update(ctx, admin); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	_, err := svc.MakeRestaurantOwner(ctx, "alice", "req-2")
	if !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("expected invalid state error, got %v", err)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetProfile(context.Background(), "ghost")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}
