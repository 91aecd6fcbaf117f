package order

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

// CreateOrder inserts the order and its items in one transaction
func (r *Repository) CreateOrder(ctx context.Context, o *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (status, total_amount, delivery_fee, delivery_address, special_instructions,
		                    estimated_delivery_time, customer_id, customer_name, restaurant_id, restaurant_name, restaurant_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, orderQuery,
		o.Status, o.TotalAmount, o.DeliveryFee, o.DeliveryAddress, o.SpecialInstructions,
		o.EstimatedDeliveryTime, o.CustomerID, o.CustomerName, o.RestaurantID, o.RestaurantName, o.RestaurantAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, menu_item_id, item_name, quantity, unit_price, subtotal, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRow(ctx, itemQuery,
			item.OrderID, item.MenuItemID, item.ItemName, item.Quantity,
			item.UnitPrice, item.Subtotal, item.SpecialInstructions,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const orderColumns = `id, status, total_amount, delivery_fee, delivery_address, special_instructions,
	created_at, updated_at, estimated_delivery_time,
	customer_id, customer_name, restaurant_id, restaurant_name, restaurant_address`

func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o models.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Status, &o.TotalAmount, &o.DeliveryFee, &o.DeliveryAddress, &o.SpecialInstructions,
		&o.CreatedAt, &o.UpdatedAt, &o.EstimatedDeliveryTime,
		&o.CustomerID, &o.CustomerName, &o.RestaurantID, &o.RestaurantName, &o.RestaurantAddress,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Order", "id", fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *Repository) GetOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, customerID)
}

func (r *Repository) GetOrdersByRestaurant(ctx context.Context, restaurantID int64) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE restaurant_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, restaurantID)
}

func (r *Repository) queryMany(ctx context.Context, query string, arg interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.Status, &o.TotalAmount, &o.DeliveryFee, &o.DeliveryAddress, &o.SpecialInstructions,
			&o.CreatedAt, &o.UpdatedAt, &o.EstimatedDeliveryTime,
			&o.CustomerID, &o.CustomerName, &o.RestaurantID, &o.RestaurantName, &o.RestaurantAddress,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *Repository) getItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, menu_item_id, item_name, quantity, unit_price, subtotal, special_instructions
		FROM order_items WHERE order_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.SpecialInstructions,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING id`

	var updated int64
	err := r.db.QueryRow(ctx, query, id, status).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Order", "id", fmt.Sprintf("%d", id))
	}
	return err
}
