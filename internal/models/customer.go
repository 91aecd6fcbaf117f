package models

import (
	"strings"
	"time"

	"food-delivery/internal/apperr"
)

// Role represents a customer's role on the platform
type Role string

const (
	RoleCustomer        Role = "CUSTOMER"
	RoleRestaurantOwner Role = "RESTAURANT_OWNER"
	RoleAdmin           Role = "ADMIN"
)

// Customer is the full customer record owned by the customer service.
// Password holds the bcrypt hash produced by the API gateway; it is only
// serialized on the internal username lookup the gateway uses for login.
type Customer struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	Email           string    `json:"email" db:"email"`
	Password        string    `json:"password,omitempty" db:"password"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	Phone           string    `json:"phone" db:"phone"`
	DeliveryAddress string    `json:"delivery_address" db:"delivery_address"`
	City            string    `json:"city" db:"city"`
	Role            Role      `json:"role" db:"role"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the display name captured in order snapshots.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CustomerResponse is the public profile projection without credentials.
type CustomerResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Phone           string    `json:"phone"`
	DeliveryAddress string    `json:"delivery_address"`
	City            string    `json:"city"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToResponse strips credentials from a customer record.
func (c *Customer) ToResponse() *CustomerResponse {
	return &CustomerResponse{
		ID:              c.ID,
		Username:        c.Username,
		Email:           c.Email,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Phone:           c.Phone,
		DeliveryAddress: c.DeliveryAddress,
		City:            c.City,
		Role:            c.Role,
		CreatedAt:       c.CreatedAt,
	}
}

// RegisterRequest creates a new customer. Password arrives already hashed
// from the API gateway.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	DeliveryAddress string `json:"delivery_address"`
	City            string `json:"city"`
}

// Validate checks the register request fields
func (r *RegisterRequest) Validate() error {
	if r.Username == "" {
		return apperr.InvalidState("username is required")
	}
	if len(r.Username) > 50 {
		return apperr.InvalidState("username must not exceed 50 characters")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return apperr.InvalidState("a valid email is required")
	}
	if r.Password == "" {
		return apperr.InvalidState("password is required")
	}
	return nil
}

// UpdateProfileRequest partially updates a customer profile. Nil fields
// are left unchanged.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	DeliveryAddress *string `json:"delivery_address,omitempty"`
	City            *string `json:"city,omitempty"`
}
