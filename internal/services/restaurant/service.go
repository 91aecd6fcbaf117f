package restaurant

import (
	"context"
	"fmt"

	"food-delivery/internal/apperr"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

// Store is the persistence boundary for restaurants and their menus
type Store interface {
	CreateRestaurant(ctx context.Context, r *models.Restaurant) error
	GetRestaurantByID(ctx context.Context, id int64) (*models.Restaurant, error)
	SearchByCity(ctx context.Context, city string) ([]models.Restaurant, error)
	SearchByCuisine(ctx context.Context, cuisineType string) ([]models.Restaurant, error)
	ListActive(ctx context.Context) ([]models.Restaurant, error)

	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItemByID(ctx context.Context, id int64) (*models.MenuItem, error)
	GetMenu(ctx context.Context, restaurantID int64) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
}

// CustomerDirectory resolves customer accounts on the customer service
type CustomerDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.CustomerResponse, error)
	MakeRestaurantOwner(ctx context.Context, username string) error
}

type Service struct {
	store     Store
	customers CustomerDirectory
	log       *logger.Logger
}

func NewService(store Store, customers CustomerDirectory, log *logger.Logger) *Service {
	return &Service{store: store, customers: customers, log: log}
}

// Create registers a restaurant owned by the authenticated user. A plain
// CUSTOMER account is promoted to RESTAURANT_OWNER as part of creation.
func (s *Service) Create(ctx context.Context, ownerUsername string, req *models.RestaurantRequest, requestID string) (*models.RestaurantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.customers.GetByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}

	if owner.Role == models.RoleCustomer {
		if err := s.customers.MakeRestaurantOwner(ctx, ownerUsername); err != nil {
			return nil, fmt.Errorf("failed to promote owner: %w", err)
		}
		s.log.Info("owner_promoted",
			fmt.Sprintf("Customer %s promoted to restaurant owner", ownerUsername),
			requestID, nil)
	}

	r := &models.Restaurant{
		Name:                     req.Name,
		Description:              req.Description,
		CuisineType:              req.CuisineType,
		Address:                  req.Address,
		City:                     req.City,
		Phone:                    req.Phone,
		Active:                   true,
		EstimatedDeliveryMinutes: req.EstimatedDeliveryMinutes,
		OwnerID:                  owner.ID,
	}
	if err := s.store.CreateRestaurant(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	s.log.Info("restaurant_created",
		fmt.Sprintf("Restaurant %s created", r.Name),
		requestID,
		map[string]interface{}{"restaurant_id": r.ID, "owner_id": owner.ID})

	name := owner.FullName()
	return &models.RestaurantResponse{Restaurant: *r, OwnerName: &name}, nil
}

// GetByID returns a restaurant enriched with its owner's name
func (s *Service) GetByID(ctx context.Context, id int64, requestID string) (*models.RestaurantResponse, error) {
	r, err := s.store.GetRestaurantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, r, requestID), nil
}

func (s *Service) SearchByCity(ctx context.Context, city, requestID string) ([]*models.RestaurantResponse, error) {
	restaurants, err := s.store.SearchByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("failed to search by city: %w", err)
	}
	return s.enrichAll(ctx, restaurants, requestID), nil
}

func (s *Service) SearchByCuisine(ctx context.Context, cuisineType, requestID string) ([]*models.RestaurantResponse, error) {
	restaurants, err := s.store.SearchByCuisine(ctx, cuisineType)
	if err != nil {
		return nil, fmt.Errorf("failed to search by cuisine: %w", err)
	}
	return s.enrichAll(ctx, restaurants, requestID), nil
}

func (s *Service) ListActive(ctx context.Context, requestID string) ([]*models.RestaurantResponse, error) {
	restaurants, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return s.enrichAll(ctx, restaurants, requestID), nil
}

// enrich attaches the owner's name when the customer service answers.
// A failed lookup leaves OwnerName nil and the response still goes out.
func (s *Service) enrich(ctx context.Context, r *models.Restaurant, requestID string) *models.RestaurantResponse {
	resp := &models.RestaurantResponse{Restaurant: *r}
	owner, err := s.customers.GetByID(ctx, r.OwnerID)
	if err != nil {
		s.log.Debug("enrichment_skipped",
			fmt.Sprintf("Owner lookup failed for restaurant %d", r.ID),
			requestID,
			map[string]interface{}{"owner_id": r.OwnerID, "error": err.Error()})
		return resp
	}
	name := fmt.Sprintf("%s %s", owner.FirstName, owner.LastName)
	resp.OwnerName = &name
	return resp
}

func (s *Service) enrichAll(ctx context.Context, restaurants []models.Restaurant, requestID string) []*models.RestaurantResponse {
	out := make([]*models.RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		out = append(out, s.enrich(ctx, &restaurants[i], requestID))
	}
	return out
}

// AddMenuItem adds an item to a restaurant's menu. Only the owner of
// the restaurant (or an admin) may modify the menu.
func (s *Service) AddMenuItem(ctx context.Context, username string, restaurantID int64, req *models.MenuItemRequest, requestID string) (*models.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r, err := s.store.GetRestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, username, r); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Available:    true,
		ImageURL:     req.ImageURL,
	}
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.log.Info("menu_item_added",
		fmt.Sprintf("Menu item %s added to restaurant %d", item.Name, restaurantID),
		requestID,
		map[string]interface{}{"menu_item_id": item.ID})

	return item, nil
}

func (s *Service) GetMenuItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	return s.store.GetMenuItemByID(ctx, id)
}

// GetMenu lists a restaurant's available menu items
func (s *Service) GetMenu(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	if _, err := s.store.GetRestaurantByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.store.GetMenu(ctx, restaurantID)
}

// UpdateMenuItem applies the non-nil fields of upd to a menu item
func (s *Service) UpdateMenuItem(ctx context.Context, username string, itemID int64, upd *models.MenuItemUpdate, requestID string) (*models.MenuItem, error) {
	item, r, err := s.menuItemForOwner(ctx, username, itemID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}

	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.log.Info("menu_item_updated",
		fmt.Sprintf("Menu item %d updated on restaurant %d", item.ID, r.ID),
		requestID, nil)

	return item, nil
}

// ToggleAvailability flips a menu item's availability flag
func (s *Service) ToggleAvailability(ctx context.Context, username string, itemID int64, requestID string) error {
	item, _, err := s.menuItemForOwner(ctx, username, itemID)
	if err != nil {
		return err
	}

	item.Available = !item.Available
	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	s.log.Info("menu_item_toggled",
		fmt.Sprintf("Menu item %d availability set to %t", item.ID, item.Available),
		requestID, nil)

	return nil
}

func (s *Service) menuItemForOwner(ctx context.Context, username string, itemID int64) (*models.MenuItem, *models.Restaurant, error) {
	item, err := s.store.GetMenuItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.store.GetRestaurantByID(ctx, item.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkOwnership(ctx, username, r); err != nil {
		return nil, nil, err
	}
	return item, r, nil
}

func (s *Service) checkOwnership(ctx context.Context, username string, r *models.Restaurant) error {
	caller, err := s.customers.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.ID != r.OwnerID {
		return apperr.Unauthorized(fmt.Sprintf("User %s does not own restaurant %d", username, r.ID))
	}
	return nil
}
