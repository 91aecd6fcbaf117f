package gateway

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

// CustomerDirectory is the gateway's view of the customer service
type CustomerDirectory interface {
	Create(ctx context.Context, req *models.RegisterRequest) (*models.Customer, error)
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
}

// Service handles registration and login for the gateway
type Service struct {
	customers CustomerDirectory
	tokens    *TokenIssuer
	log       *logger.Logger
}

func NewService(customers CustomerDirectory, tokens *TokenIssuer, log *logger.Logger) *Service {
	return &Service{customers: customers, tokens: tokens, log: log}
}

// LoginRequest carries credentials for the login endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	Token    string      `json:"token"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Register hashes the password, creates the account on the customer
// service and returns a token for it.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, requestID string) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	req.Password = string(hash)

	customer, err := s.customers.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("user_registered",
		fmt.Sprintf("User %s registered", customer.Username),
		requestID,
		map[string]interface{}{"customer_id": customer.ID})

	return &AuthResponse{
		Token:    s.tokens.Issue(customer.Username, customer.Role),
		Username: customer.Username,
		Role:     customer.Role,
	}, nil
}

// Login verifies credentials against the stored bcrypt hash and returns
// a fresh token. Unknown users and wrong passwords get the same answer.
func (s *Service) Login(ctx context.Context, req *LoginRequest, requestID string) (*AuthResponse, error) {
	customer, err := s.customers.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	s.log.Info("user_logged_in",
		fmt.Sprintf("User %s logged in", customer.Username),
		requestID,
		map[string]interface{}{"customer_id": customer.ID})

	return &AuthResponse{
		Token:    s.tokens.Issue(customer.Username, customer.Role),
		Username: customer.Username,
		Role:     customer.Role,
	}, nil
}
