package order

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

	r.HandleFunc("/api/orders", h.handlePlace).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/my-orders", h.handleMyOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/restaurant/{restaurantId:[0-9]+}", h.handleRestaurantOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id:[0-9]+}", h.handleGetByID).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id:[0-9]+}/status", h.handleUpdateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/api/orders/{id:[0-9]+}/cancel", h.handleCancel).Methods(http.MethodPost)

	return httpx.WithLogging(h.log, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	resp, err := h.service.Place(r.Context(), id.Username, &req, requestID)
	if err != nil {
		h.log.Error("order_place_failed", "Failed to place order", requestID, err, nil)
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

func (h *Handler) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	resp, err := h.service.GetCustomerOrders(r.Context(), id.Username, requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	restaurantID, err := httpx.PathID(r, "restaurantId")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	resp, err := h.service.GetRestaurantOrders(r.Context(), restaurantID, requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

// handleUpdateStatus reads the new status from the ?status= query
// parameter, mirroring the delivery status endpoint.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "status query parameter is required", requestID)
		return
	}

	resp, err := h.service.UpdateStatus(r.Context(), id, status, requestID)
	if err != nil {
		h.log.Error("order_status_update_failed", "Failed to update order status", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	orderID, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if err := h.service.Cancel(r.Context(), id.Username, orderID, requestID); err != nil {
		h.log.Error("order_cancel_failed", "Failed to cancel order", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
