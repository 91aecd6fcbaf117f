package delivery

import (
	"net/http"

	"github.com/gorilla/mux"

	"food-delivery/internal/httpx"
	"food-delivery/internal/logger"
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

	r.HandleFunc("/api/deliveries/order/{orderId:[0-9]+}", h.handleGetByOrderID).Methods(http.MethodGet)
	r.HandleFunc("/api/deliveries/status/{status}", h.handleGetByStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/deliveries/{id:[0-9]+}", h.handleGetByID).Methods(http.MethodGet)
	r.HandleFunc("/api/deliveries/{id:[0-9]+}/status", h.handleUpdateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/api/deliveries/{id:[0-9]+}/cancel", h.handleCancel).Methods(http.MethodPost)

	return httpx.WithLogging(h.log, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "UP"})
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

func (h *Handler) handleGetByOrderID(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	orderID, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	resp, err := h.service.GetByOrderID(r.Context(), orderID, requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetByStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	resp, err := h.service.GetByStatus(r.Context(), mux.Vars(r)["status"], requestID)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

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
		h.log.Error("delivery_status_update_failed", "Failed to update delivery status", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if err := h.service.Cancel(r.Context(), id, requestID); err != nil {
		h.log.Error("delivery_cancel_failed", "Failed to cancel delivery", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
