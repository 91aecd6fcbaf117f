package delivery

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

const deliveryColumns = `id, order_id, status, driver_name, driver_phone, pickup_address, delivery_address, assigned_at, picked_up_at, delivered_at, created_at`

func (r *Repository) Create(ctx context.Context, d *models.Delivery) error {
	query := `
		INSERT INTO deliveries (order_id, status, driver_name, driver_phone, pickup_address, delivery_address, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		d.OrderID, d.Status, d.DriverName, d.DriverPhone,
		d.PickupAddress, d.DeliveryAddress, d.AssignedAt,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Delivery, error) {
	d, err := r.scanOne(ctx, `WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Delivery", "id", fmt.Sprintf("%d", id))
	}
	return d, err
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID int64) (*models.Delivery, error) {
	d, err := r.scanOne(ctx, `WHERE order_id = $1`, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Delivery", "order_id", fmt.Sprintf("%d", orderID))
	}
	return d, err
}

func (r *Repository) scanOne(ctx context.Context, where string, arg interface{}) (*models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries ` + where

	var d models.Delivery
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&d.ID, &d.OrderID, &d.Status, &d.DriverName, &d.DriverPhone,
		&d.PickupAddress, &d.DeliveryAddress,
		&d.AssignedAt, &d.PickedUpAt, &d.DeliveredAt, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) GetByStatus(ctx context.Context, status models.DeliveryStatus) ([]models.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []models.Delivery
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(
			&d.ID, &d.OrderID, &d.Status, &d.DriverName, &d.DriverPhone,
			&d.PickupAddress, &d.DeliveryAddress,
			&d.AssignedAt, &d.PickedUpAt, &d.DeliveredAt, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (r *Repository) Update(ctx context.Context, d *models.Delivery) error {
	query := `
		UPDATE deliveries
		SET status = $2, picked_up_at = $3, delivered_at = $4
		WHERE id = $1
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query, d.ID, d.Status, d.PickedUpAt, d.DeliveredAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Delivery", "id", fmt.Sprintf("%d", d.ID))
	}
	return err
}
