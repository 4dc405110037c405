// Package httpapi provides small shared helpers for the coordinator and
// worker's read-only HTTP surfaces: a context-aware JSON client (the
// teacher's PostJSON/GetJSON pattern) and response-writing helpers.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a shared HTTP client with a fixed timeout, matching the
// teacher's package-level httpClient convention.
var Client = &http.Client{Timeout: 5 * time.Second}

// SnapshotClient is used by the coordinator's snapshot loop, which per
// spec.md §4.9/§5 needs a tighter 1.5s timeout so a slow snapshot fetch
// never blocks tick delivery or backs up behind a stuck worker.
var SnapshotClient = &http.Client{Timeout: 1500 * time.Millisecond}

// GetJSON issues a GET request and decodes a JSON response body into v.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("httpapi: GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// PostJSON issues a POST request with a JSON-encoded body and decodes
// the JSON response into v (if v is non-nil).
func PostJSON(ctx context.Context, client *http.Client, url string, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("httpapi: POST %s: status %d", url, resp.StatusCode)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GetBinary fetches url and returns the raw response body, used for the
// shard image/layer endpoints which are not JSON.
func GetBinary(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("httpapi: GET %s: status %d", url, resp.StatusCode)
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
