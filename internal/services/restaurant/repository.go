package restaurant

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

const restaurantColumns = `id, name, description, cuisine_type, address, city, phone, active, rating, estimated_delivery_minutes, owner_id, created_at`

func (r *Repository) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	query := `
		INSERT INTO restaurants (name, description, cuisine_type, address, city, phone, active, rating, estimated_delivery_minutes, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		rest.Name, rest.Description, rest.CuisineType, rest.Address, rest.City,
		rest.Phone, rest.Active, rest.Rating, rest.EstimatedDeliveryMinutes, rest.OwnerID,
	).Scan(&rest.ID, &rest.CreatedAt)
}

func (r *Repository) GetRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	var rest models.Restaurant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rest.ID, &rest.Name, &rest.Description, &rest.CuisineType, &rest.Address,
		&rest.City, &rest.Phone, &rest.Active, &rest.Rating,
		&rest.EstimatedDeliveryMinutes, &rest.OwnerID, &rest.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Restaurant", "id", fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *Repository) SearchByCity(ctx context.Context, city string) ([]models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE LOWER(city) = LOWER($1) AND active ORDER BY rating DESC`
	return r.queryMany(ctx, query, city)
}

func (r *Repository) SearchByCuisine(ctx context.Context, cuisineType string) ([]models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE LOWER(cuisine_type) = LOWER($1) AND active ORDER BY rating DESC`
	return r.queryMany(ctx, query, cuisineType)
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE active ORDER BY rating DESC`
	return r.queryMany(ctx, query)
}

func (r *Repository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Restaurant, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var rest models.Restaurant
		if err := rows.Scan(
			&rest.ID, &rest.Name, &rest.Description, &rest.CuisineType, &rest.Address,
			&rest.City, &rest.Phone, &rest.Active, &rest.Rating,
			&rest.EstimatedDeliveryMinutes, &rest.OwnerID, &rest.CreatedAt,
		); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *Repository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (restaurant_id, name, description, price, category, available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	return r.db.QueryRow(ctx, query,
		item.RestaurantID, item.Name, item.Description, item.Price,
		item.Category, item.Available, item.ImageURL,
	).Scan(&item.ID)
}

func (r *Repository) GetMenuItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, price, category, available, image_url
		FROM menu_items WHERE id = $1`

	var item models.MenuItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description,
		&item.Price, &item.Category, &item.Available, &item.ImageURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("MenuItem", "id", fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) GetMenu(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, price, category, available, image_url
		FROM menu_items WHERE restaurant_id = $1 AND available ORDER BY category, name`

	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Description,
			&item.Price, &item.Category, &item.Available, &item.ImageURL,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, category = $5, available = $6, image_url = $7
		WHERE id = $1
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		item.ID, item.Name, item.Description, item.Price,
		item.Category, item.Available, item.ImageURL,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("MenuItem", "id", fmt.Sprintf("%d", item.ID))
	}
	return err
}
