package client

import (
	"context"
	"encoding/json"
	"net/url"
)

// Payload is the /api/data body keyed by dataset name plus
// "recommendations" and, with insights enabled, "integrated_analysis".
type Payload map[string]json.RawMessage

// DatasetResult is the common part of one dataset section.  Fields holds the
// whole section including the analytics keys.
type DatasetResult struct {
	Insights  []string               `json:"insights"`
	Synthetic bool                   `json:"synthetic,omitempty"`
	Status    string                 `json:"status,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"-"`
}

// StatusResponse is the /api/vercel body.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// LivenessResponse is the /healthz body.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the /readyz body.
type ReadinessResponse struct {
	Status     string `json:"status"`
	Components map[string]struct {
		Status  string `json:"status"`
		Latency string `json:"latency,omitempty"`
		Error   string `json:"error,omitempty"`
	} `json:"components,omitempty"`
}

// Data fetches the full payload.  refresh asks the server to recompute, which
// the server may rate limit.
func (c *Client) Data(ctx context.Context, refresh bool) (Payload, error) {
	path := "/api/data"
	if refresh {
		path += "?refresh=true"
	}
	var out Payload
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dataset fetches one dataset section.
func (c *Client) Dataset(ctx context.Context, name string) (*DatasetResult, error) {
	body, err := c.getRaw(ctx, "/api/data/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	return decodeDataset(body)
}

// Recommendations returns the recommendation list from a payload.
func (p Payload) Recommendations() ([]string, error) {
	var out []string
	raw, ok := p["recommendations"]
	if !ok {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dataset decodes one section of a payload.  ok is false when name is absent.
func (p Payload) Dataset(name string) (*DatasetResult, bool, error) {
	raw, ok := p[name]
	if !ok {
		return nil, false, nil
	}
	res, err := decodeDataset(raw)
	return res, true, err
}

func decodeDataset(body []byte) (*DatasetResult, error) {
	var res DatasetResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &res.Fields); err != nil {
		return nil, err
	}
	return &res, nil
}

// Status calls /api/vercel.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.get(ctx, "/api/vercel", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (*LivenessResponse, error) {
	var out LivenessResponse
	if err := c.get(ctx, "/healthz", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready calls the readiness probe.  A not-ready server yields an *APIError
// with status 503 after the configured retries.
func (c *Client) Ready(ctx context.Context) (*ReadinessResponse, error) {
	var out ReadinessResponse
	if err := c.get(ctx, "/readyz", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
