package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"food-delivery/internal/apperr"
	"food-delivery/internal/database"
	"food-delivery/internal/models"
)

// Repository implements Store on top of Postgres
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (username, password, email, first_name, last_name, phone, delivery_address, city, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		c.Username, c.Password, c.Email, c.FirstName, c.LastName,
		c.Phone, c.DeliveryAddress, c.City, c.Role,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	c, err := r.scanOne(ctx, `WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Customer", "id", fmt.Sprintf("%d", id))
	}
	return c, err
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	c, err := r.scanOne(ctx, `WHERE username = $1`, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Customer", "username", username)
	}
	return c, err
}

func (r *Repository) scanOne(ctx context.Context, where string, arg interface{}) (*models.Customer, error) {
	query := `
		SELECT id, username, password, email, first_name, last_name, phone, delivery_address, city, role, created_at, updated_at
		FROM customers ` + where

	var c models.Customer
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Username, &c.Password, &c.Email, &c.FirstName, &c.LastName,
		&c.Phone, &c.DeliveryAddress, &c.City, &c.Role, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

func (r *Repository) Update(ctx context.Context, c *models.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, phone = $4,
		    delivery_address = $5, city = $6, role = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Phone, c.DeliveryAddress, c.City, c.Role,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Customer", "id", fmt.Sprintf("%d", c.ID))
	}
	return err
}
