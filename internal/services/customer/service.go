package customer

import (
	"context"
	"fmt"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

// Store is the persistence boundary for customer accounts
type Store interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, c *models.Customer) error
}

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Register creates a new customer account. The password is expected to
// arrive already hashed (the gateway owns credential handling).
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, requestID string) (*models.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate(fmt.Sprintf("Username already exists: %s", req.Username))
	}

	taken, err = s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate(fmt.Sprintf("Email already exists: %s", req.Email))
	}

	c := &models.Customer{
		Username:        req.Username,
		Password:        req.Password,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		City:            req.City,
		Role:            models.RoleCustomer,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.log.Info("customer_registered",
		fmt.Sprintf("Customer %s registered", c.Username),
		requestID,
		map[string]interface{}{"customer_id": c.ID, "role": c.Role})

	return c.ToResponse(), nil
}

// GetProfile returns the account of the authenticated user
func (s *Service) GetProfile(ctx context.Context, username string) (*models.CustomerResponse, error) {
	c, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return c.ToResponse(), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*models.CustomerResponse, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.ToResponse(), nil
}

// GetByUsername returns the full record including the password hash.
// It backs the gateway's login flow and is not exposed through the proxy.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	return s.store.GetByUsername(ctx, username)
}

// UpdateProfile applies the non-nil fields of req to the account
func (s *Service) UpdateProfile(ctx context.Context, username string, req *models.UpdateProfileRequest, requestID string) (*models.CustomerResponse, error) {
	c, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.DeliveryAddress != nil {
		c.DeliveryAddress = *req.DeliveryAddress
	}
	if req.City != nil {
		c.City = *req.City
	}

	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.log.Info("profile_updated",
		fmt.Sprintf("Customer %s updated profile", username),
		requestID,
		map[string]interface{}{"customer_id": c.ID})

	return c.ToResponse(), nil
}

// MakeRestaurantOwner promotes a CUSTOMER account to RESTAURANT_OWNER.
// Promotion of an admin is rejected; promoting an owner again is a no-op.
func (s *Service) MakeRestaurantOwner(ctx context.Context, username string, requestID string) (*models.CustomerResponse, error) {
	c, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	switch c.Role {
	case models.RoleRestaurantOwner:
		return c.ToResponse(), nil
	case models.RoleAdmin:
		return nil, apperr.InvalidState("Cannot change role of an admin account")
	}

	c.Role = models.RoleRestaurantOwner
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update customer role: %w", err)
	}

	s.log.Info("role_changed",
		fmt.Sprintf("Customer %s promoted to restaurant owner", username),
		requestID,
		map[string]interface{}{"customer_id": c.ID})

	return c.ToResponse(), nil
}
