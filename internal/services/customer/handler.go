package customer

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
	r.HandleFunc("/api/customers", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/customers/me", h.handleGetProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/customers/me", h.handleUpdateProfile).Methods(http.MethodPut)
	r.HandleFunc("/api/customers/make-restaurant-owner", h.handleMakeRestaurantOwner).Methods(http.MethodPut)
	r.HandleFunc("/api/customers/id/{id:[0-9]+}", h.handleGetByID).Methods(http.MethodGet)
	r.HandleFunc("/api/customers/username/{username}", h.handleGetByUsername).Methods(http.MethodGet)
	return httpx.WithLogging(h.log, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	resp, err := h.service.Register(r.Context(), &req, requestID)
	if err != nil {
		h.log.Error("register_failed", "Failed to register customer", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	resp, err := h.service.GetProfile(r.Context(), id.Username)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), id.Username, &req, requestID)
	if err != nil {
		h.log.Error("profile_update_failed", "Failed to update profile", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMakeRestaurantOwner(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, ok := auth.FromRequest(r)
	if !ok {
		httpx.RespondBadRequest(w, http.StatusUnauthorized, "Missing identity", requestID)
		return
	}

	resp, err := h.service.MakeRestaurantOwner(r.Context(), id.Username, requestID)
	if err != nil {
		h.log.Error("role_change_failed", "Failed to promote customer", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}

// handleGetByUsername serves inter-service lookups only. The gateway uses
// it during login and needs the password hash, so the full record is
// returned here and never proxied to clients.
func (h *Handler) handleGetByUsername(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()
	username := mux.Vars(r)["username"]

	c, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, c)
}
