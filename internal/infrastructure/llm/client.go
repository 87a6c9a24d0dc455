// Package llm is the optional insight-generation client.  It renders a
// prompt per dataset, calls an OpenAI-compatible chat completions endpoint
// once with a bounded timeout and parses the JSON reply.  Every failure is
// absorbed: callers always receive an analysis, the canned one when the
// service is disabled or misbehaves.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Call outcomes reported to the Observer.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid_reply"
	OutcomeDisabled = "disabled"
)

// maxReplyBytes caps how much of a completion response is read.
const maxReplyBytes = 4 << 20

// HTTPDoer is the subset of *http.Client used for completion calls.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer receives one notification per completion attempt.
type Observer interface {
	ObserveLLMCall(template, outcome string, d time.Duration)
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client calls the insight service.
type Client struct {
	cfg      config.InsightConfig
	http     HTTPDoer
	prompts  *PromptManager
	logger   logging.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(d HTTPDoer) Option {
	return func(c *Client) { c.http = d }
}

// WithObserver registers a call observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a client from cfg.  A disabled config, or one without an
// API key, yields a client that always returns the canned analysis.
func NewClient(cfg config.InsightConfig, logger logging.Logger, opts ...Option) (*Client, error) {
	prompts, err := NewPromptManager(cfg.SystemPrompt)
	if err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{},
		prompts: prompts,
		logger:  logging.OrDefault(logger).Named("llm"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Enabled reports whether completion calls are made at all.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled && c.cfg.APIKey != ""
}

// SampleSize is the number of records embedded in a dataset prompt.
func (c *Client) SampleSize() int {
	return c.cfg.SampleSize
}

// Analyze renders the dataset template called name with data and returns the
// parsed analysis.  It never fails: on any problem the canned analysis is
// returned and the cause is logged at WARN.
func (c *Client) Analyze(ctx context.Context, name string, data PromptData) *Analysis {
	reply, ok := c.complete(ctx, name, data)
	if !ok {
		return CannedAnalysis()
	}
	a, err := ParseAnalysis(reply)
	if err != nil {
		c.warn(name, "Insight reply could not be parsed, using canned analysis", err)
		c.observe(name, OutcomeInvalid, 0)
		return CannedAnalysis()
	}
	return a
}

// AnalyzeIntegrated runs the cross-dataset prompt.  Like Analyze it always
// returns a value.
func (c *Client) AnalyzeIntegrated(ctx context.Context, data IntegratedPromptData) *IntegratedAnalysis {
	reply, ok := c.complete(ctx, TemplateIntegrated, data)
	if !ok {
		return CannedIntegratedAnalysis()
	}
	a, err := ParseIntegratedAnalysis(reply)
	if err != nil {
		c.warn(TemplateIntegrated, "Integrated reply could not be parsed, using canned analysis", err)
		c.observe(TemplateIntegrated, OutcomeInvalid, 0)
		return CannedIntegratedAnalysis()
	}
	return a
}

// complete renders the prompt and performs the single completion attempt.
func (c *Client) complete(ctx context.Context, name string, data interface{}) (string, bool) {
	if !c.Enabled() {
		c.observe(name, OutcomeDisabled, 0)
		return "", false
	}
	prompt, err := c.prompts.Build(name, data)
	if err != nil {
		c.warn(name, "Failed to build insight prompt", err)
		c.observe(name, OutcomeFailure, 0)
		return "", false
	}

	start := time.Now()
	reply, err := c.Complete(ctx, prompt.Messages)
	took := time.Since(start)
	if err != nil {
		c.warn(name, "Insight service call failed, using canned analysis", err)
		c.observe(name, OutcomeFailure, took)
		return "", false
	}
	c.observe(name, OutcomeSuccess, took)
	c.logger.Debug("Insight service replied",
		logging.String("template", name),
		logging.Int("estimated_tokens", prompt.EstimatedTokens),
		logging.Duration("took", took))
	return reply, true
}

// Complete sends messages to POST {base_url}/chat/completions and returns
// the first choice's content.  Errors carry CodeUpstreamFailed.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeSerialization, "failed to encode completion request")
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamFailed, "failed to build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamFailed, "completion request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamFailed, "failed to read completion response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Upstream(fmt.Sprintf("completion endpoint returned status %d", resp.StatusCode)).
			WithDetail(truncate(string(raw), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamFailed, "completion response is not valid JSON")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.Upstream("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) warn(name, msg string, err error) {
	c.logger.Warn(msg, logging.String("template", name), logging.String("code", string(errors.GetCode(err))), logging.Err(err))
}

func (c *Client) observe(name, outcome string, d time.Duration) {
	if c != nil && c.observer != nil {
		c.observer.ObserveLLMCall(name, outcome, d)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

//Personal.AI order the ending
