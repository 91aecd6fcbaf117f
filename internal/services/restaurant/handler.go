package restaurant

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"food-delivery/internal/auth"
	"food-delivery/internal/httpx"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

type Handler struct {
	service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/restaurants", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/restaurants/search/all", h.handleListActive).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/search/city/{city}", h.handleSearchByCity).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/search/cuisine/{type}", h.handleSearchByCuisine).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/menu/{itemId:[0-9]+}", h.handleGetMenuItem).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/menu/{itemId:[0-9]+}", h.handleUpdateMenuItem).Methods(http.MethodPut)
	r.HandleFunc("/api/restaurants/menu/{itemId:[0-9]+}/toggle", h.handleToggleMenuItem).Methods(http.MethodPatch)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.handleGetByID).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}/menu", h.handleGetMenu).Methods(http.MethodGet)
	r.HandleFunc("/api/restaurants/{id:[0-9]+}/menu", h.handleAddMenuItem).Methods(http.MethodPost)

	return httpx.WithLogging(h.log, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	var req models.RestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	resp, err := h.service.Create(r.Context(), id.Username, &req, requestID)
	if err != nil {
		h.log.Error("restaurant_create_failed", "Failed to create restaurant", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), id, requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	resp, err := h.service.ListActive(r.Context(), requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSearchByCity(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	resp, err := h.service.SearchByCity(r.Context(), mux.Vars(r)["city"], requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSearchByCuisine(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	resp, err := h.service.SearchByCuisine(r.Context(), mux.Vars(r)["type"], requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAddMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	restaurantID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	var req models.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	item, err := h.service.AddMenuItem(r.Context(), id.Username, restaurantID, &req, requestID)
	if err != nil {
		h.log.Error("menu_item_add_failed", "Failed to add menu item", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	restaurantID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	items, err := h.service.GetMenu(r.Context(), restaurantID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	httpx.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	itemID, err := httpx.PathID(r, "itemId")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	item, err := h.service.GetMenuItemByID(r.Context(), itemID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	itemID, err := httpx.PathID(r, "itemId")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	var upd models.MenuItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), id.Username, itemID, &upd, requestID)
	if err != nil {
		h.log.Error("menu_item_update_failed", "Failed to update menu item", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleToggleMenuItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	itemID, err := httpx.PathID(r, "itemId")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if err := h.service.ToggleAvailability(r.Context(), id.Username, itemID, requestID); err != nil {
		h.log.Error("menu_item_toggle_failed", "Failed to toggle menu item", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
