package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"food-delivery/internal/httpx"
	"food-delivery/internal/logger"
	"food-delivery/internal/models"
)

type Handler struct {
	service *Service
	proxy   *Proxy
	log     *logger.Logger
}

func NewHandler(service *Service, proxy *Proxy, log *logger.Logger) *Handler {
	return &Handler{service: service, proxy: proxy, log: log}
}

func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.handleLogin).Methods(http.MethodPost)
	r.PathPrefix("/api/").Handler(h.proxy)
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
		h.log.Error("register_failed", "Failed to register user", requestID, err, nil)
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondBadRequest(w, http.StatusBadRequest, "Invalid request body", requestID)
		return
	}

	resp, err := h.service.Login(r.Context(), &req, requestID)
	if err != nil {
		h.log.Error("login_failed", "Failed login attempt", requestID, err,
			map[string]interface{}{"username": req.Username})
		httpx.RespondError(w, err, requestID)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, resp)
}
