package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"food-delivery/internal/auth"
	"food-delivery/internal/httpx"
	"food-delivery/internal/logger"
)

// Proxy forwards /api requests to the owning service, translating the
// caller's bearer token into trusted identity headers. Client-supplied
// identity headers are always stripped first.
type Proxy struct {
	tokens    *TokenIssuer
	upstreams map[string]*httputil.ReverseProxy
	log       *logger.Logger
}

func NewProxy(tokens *TokenIssuer, log *logger.Logger, customerURL, restaurantURL, orderURL, deliveryURL string) (*Proxy, error) {
	upstreams := make(map[string]*httputil.ReverseProxy)
	for prefix, rawURL := range map[string]string{
		"customers":   customerURL,
		"restaurants": restaurantURL,
		"orders":      orderURL,
		"deliveries":  deliveryURL,
	} {
		target, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream url %q: %w", rawURL, err)
		}
		rp := httputil.NewSingleHostReverseProxy(target)
		rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			requestID := logger.GenerateRequestID()
			log.Error("proxy_upstream_failed",
				fmt.Sprintf("Upstream request failed: %s %s", r.Method, r.URL.Path),
				requestID, err, nil)
			httpx.RespondBadRequest(w, http.StatusBadGateway, "Upstream service unavailable", requestID)
		}
		upstreams[prefix] = rp
	}
	return &Proxy{tokens: tokens, upstreams: upstreams, log: log}, nil
}

// ServeHTTP routes /api/{service}/... to the owning upstream
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	rest, ok := strings.CutPrefix(r.URL.Path, "/api/")
	if !ok {
		httpx.RespondBadRequest(w, http.StatusNotFound, "Not found", requestID)
		return
	}
	prefix, tail, _ := strings.Cut(rest, "/")

	// internal lookup carrying credential hashes, never exposed
	if prefix == "customers" && strings.HasPrefix(tail, "username/") {
		httpx.RespondBadRequest(w, http.StatusNotFound, "Not found", requestID)
		return
	}

	upstream, ok := p.upstreams[prefix]
	if !ok {
		httpx.RespondBadRequest(w, http.StatusNotFound, "Not found", requestID)
		return
	}

	r.Header.Del(auth.UserHeader)
	r.Header.Del(auth.RoleHeader)

	if token, ok := bearerToken(r); ok {
		claims, err := p.tokens.Verify(token)
		if err != nil {
			httpx.RespondBadRequest(w, http.StatusUnauthorized, "Invalid or expired token", requestID)
			return
		}
		auth.SetHeaders(r.Header, auth.Identity{Username: claims.Username, Role: string(claims.Role)})
	}

	upstream.ServeHTTP(w, r)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
