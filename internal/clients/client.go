// Package clients holds the typed HTTP clients each service uses to talk
// to its peers. Every client exposes only the operations its consumer
// needs, over the peer's public REST surface.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"food-delivery/internal/apperr"
)

const defaultTimeout = 10 * time.Second

type baseClient struct {
	baseURL string
	http    *http.Client
}

func newBaseClient(baseURL string) baseClient {
	return baseClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// doJSON performs a request and decodes the JSON response into out.
// A 404 from the peer maps to apperr.KindNotFound so callers can
// distinguish a lookup miss from an outage.
func (c baseClient) doJSON(ctx context.Context, method, path string, headers http.Header, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound("Resource", "path", path)
	case resp.StatusCode == http.StatusConflict:
		return apperr.InvalidState(readErrorMessage(resp.Body, path))
	case resp.StatusCode >= 400:
		return fmt.Errorf("request to %s returned status %d: %s", path, resp.StatusCode, readErrorMessage(resp.Body, path))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// readErrorMessage extracts the error field from a peer error response
func readErrorMessage(body io.Reader, path string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("peer call to %s failed", path)
}
