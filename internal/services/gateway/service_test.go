package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

type fakeDirectory struct {
	customers map[string]*models.Customer
	nextID    int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{customers: make(map[string]*models.Customer), nextID: 1}
}

func (f *fakeDirectory) Create(_ context.Context, req *models.RegisterRequest) (*models.Customer, error) {
	if _, ok := f.customers[req.Username]; ok {
		return nil, apperr.Duplicate("Username already exists: " + req.Username)
	}
	c := &models.Customer{
		ID:       f.nextID,
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     models.RoleCustomer,
	}
	f.nextID++
	f.customers[c.Username] = c
	return c, nil
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*models.Customer, error) {
	c, ok := f.customers[username]
	if !ok {
		return nil, apperr.NotFound("Customer", "username", username)
	}
	return c, nil
}

func newTestService() (*Service, *fakeDirectory) {
	dir := newFakeDirectory()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewService(dir, tokens, logger.New("api-gateway-test")), dir
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Username: "alice",
		Password: "hunter22",
		Email:    "alice@example.com",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, dir := newTestService()

	resp, err := svc.Register(context.Background(), registerRequest(), "req-1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	stored := dir.customers["alice"]
	if stored.Password == "hunter22" {
		t.Error("password stored in plain text")
	}
	if !strings.HasPrefix(stored.Password, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", stored.Password)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not match original password: %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), registerRequest(), "req-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	resp, err := svc.Login(context.Background(), &LoginRequest{Username: "alice", Password: "hunter22"}, "req-2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.Username != "alice" || resp.Role != models.RoleCustomer {
		t.Errorf("unexpected auth response: %+v", resp)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), registerRequest(), "req-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "alice", Password: "wrong"}, "req-2")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "ghost", Password: "whatever"}, "req-1")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("unknown users should get the same unauthorized answer, got %v", err)
	}
}
