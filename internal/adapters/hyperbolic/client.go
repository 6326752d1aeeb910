// Package hyperbolic is a thin client for the Hyperbolic GPU marketplace:
// rent a GPU, poll it, run text generation against it, release it.
package hyperbolic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/example/chirp/internal/observability"
)

const DefaultBaseURL = "https://api.hyperbolic.xyz"

// GPU lifecycle states reported by the status endpoint.
const (
	StatusPending = "pending"
	StatusReady   = "ready"
	StatusError   = "error"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	gpuID string
}

// NewClient builds a Hyperbolic client. baseURL may be empty for production.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// GPUID returns the currently rented GPU id, empty if none.
func (c *Client) GPUID() string { return c.gpuID }

type RentResponse struct {
	GPUID  string  `json:"gpu_id"`
	Status string  `json:"status"`
	Price  float64 `json:"price"`
}

// Rent reserves a GPU able to serve modelID. maxPrice <= 0 means no ceiling.
func (c *Client) Rent(ctx context.Context, modelID string, maxPrice float64) (*RentResponse, error) {
	payload := map[string]any{"model_id": modelID}
	if maxPrice > 0 {
		payload["max_price"] = maxPrice
	}

	var out RentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/gpus/rent", payload, &out); err != nil {
		return nil, fmt.Errorf("renting GPU: %w", err)
	}

	c.gpuID = out.GPUID
	observability.LoggerFromContext(ctx).Info("rented GPU", "gpu_id", c.gpuID)
	return &out, nil
}

type StatusResponse struct {
	GPUID  string `json:"gpu_id"`
	Status string `json:"status"`
}

// Status reports the state of the rented GPU.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	if c.gpuID == "" {
		return nil, fmt.Errorf("no GPU rented")
	}

	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/gpus/"+c.gpuID, nil, &out); err != nil {
		return nil, fmt.Errorf("checking GPU status: %w", err)
	}
	return &out, nil
}

// Release returns the rented GPU to the marketplace.
func (c *Client) Release(ctx context.Context) error {
	if c.gpuID == "" {
		return nil
	}

	if err := c.do(ctx, http.MethodPost, "/v1/gpus/"+c.gpuID+"/release", nil, nil); err != nil {
		return fmt.Errorf("releasing GPU: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("released GPU", "gpu_id", c.gpuID)
	c.gpuID = ""
	return nil
}

type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	ModelID     string  `json:"model_id"`
	GPUID       string  `json:"gpu_id"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	TopK        int     `json:"top_k"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

// GenerateText runs inference on the rented GPU. The caller is responsible
// for having rented one first.
func (c *Client) GenerateText(ctx context.Context, req GenerateRequest) (string, error) {
	if req.GPUID == "" {
		req.GPUID = c.gpuID
	}

	var out GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/v1/generate", req, &out); err != nil {
		return "", fmt.Errorf("generating text: %w", err)
	}
	return out.Text, nil
}

// GPUStatus exposes status as a generic map for the metrics surface.
func (c *Client) GPUStatus(ctx context.Context) (map[string]any, error) {
	if c.gpuID == "" {
		return map[string]any{"status": "none"}, nil
	}

	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/v1/gpus/"+c.gpuID, nil, &out); err != nil {
		return nil, fmt.Errorf("checking GPU status: %w", err)
	}
	return out, nil
}

// BillingHistory returns the account's billing records.
func (c *Client) BillingHistory(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/v1/billing/history", nil, &out); err != nil {
		return nil, fmt.Errorf("querying billing history: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
