package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xutq/Raycast-Easydict/pkg/api"
	"github.com/xutq/Raycast-Easydict/pkg/debug"
	"github.com/xutq/Raycast-Easydict/pkg/observability"
)

// Config holds the settings for a translation client.
type Config struct {
	// Endpoint is the full chat completions URL.
	Endpoint string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Model is the model identifier. Capabilities (dedicated translation
	// mode, forced non-streaming) are derived from it per request.
	Model string

	// Timeout guards time-to-first-frame on the streaming path and the
	// whole exchange on the non-streaming path. Defaults to 15s.
	Timeout time.Duration

	// ProxyURL overrides the environment proxy settings when non-empty.
	ProxyURL string
}

// Client dispatches translation requests against a chat completion backend.
// Safe for concurrent use; each request owns its own cancellation context,
// timer, and accumulator.
type Client struct {
	cfg          Config
	httpClient   *http.Client // bounded by Timeout; non-streaming path
	streamClient *http.Client // no timeout; the request context governs lifetime
}

// New creates a Client. Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("openai: Endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai: Model is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	tr, err := newTransport(cfg.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return &Client{
		cfg:          cfg,
		httpClient:   &http.Client{Transport: tr, Timeout: cfg.Timeout},
		streamClient: &http.Client{Transport: tr},
	}, nil
}

// Request describes one translation. Immutable once dispatch begins.
// Callbacks are optional; when set, OnMessage observes every delta (or the
// single synthesized chunk on the non-streaming path) and OnFinish fires
// exactly once at stream end.
type Request struct {
	Text string
	From string // display name, e.g. "English" or "Auto"
	To   string

	OnMessage func(api.Delta)
	OnFinish  func(reason string)
}

// Translate runs one translation to completion. Progressive updates arrive
// through the request callbacks; the return value is the single terminal
// outcome. A deliberately canceled request returns context.Canceled, every
// other failure a *api.QueryError.
func (c *Client) Translate(ctx context.Context, req *Request) (*api.QueryResult, error) {
	info := api.QueryWordInfo{
		Word:         req.Text,
		FromLanguage: req.From,
		ToLanguage:   req.To,
	}
	payload := BuildPayload(c.cfg.Model, info)

	mode := "stream"
	if !payload.Stream {
		mode = "once"
	}
	debug.Log("translate", "dispatching translation",
		"model", payload.Model,
		"mode", mode,
		"from", req.From,
		"to", req.To,
		"chars", len(req.Text),
	)

	start := time.Now()
	var result *api.QueryResult
	var err error
	if payload.Stream {
		result, err = c.translateStream(ctx, req, info, payload)
	} else {
		result, err = c.translateOnce(ctx, req, info, payload)
	}
	observability.ObserveTranslation(payload.Model, mode, err, time.Since(start))
	return result, err
}

// translateOnce issues one POST and parses one JSON body. The consumer still
// observes the streaming callback shape: one synthetic delta, then a stop.
func (c *Client) translateOnce(ctx context.Context, req *Request, info api.QueryWordInfo, payload ChatCompletionRequest) (*api.QueryResult, error) {
	httpReq, err := c.newHTTPRequest(ctx, payload, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapHTTPError(resp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, api.NewNetworkError("", fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, api.NewNoResultError("translation response contained no content")
	}
	content := chatResp.Choices[0].Message.Content

	if req.OnMessage != nil {
		req.OnMessage(api.Delta{Content: content, Role: "assistant"})
	}
	if req.OnFinish != nil {
		req.OnFinish("stop")
	}
	return api.NewQueryResult(info, content), nil
}

// translateStream issues the request with SSE accept headers and decodes the
// event stream. The timeout timer fires a cancellation cause until the first
// frame arrives; after that the stream may run as long as it needs.
func (c *Client) translateStream(parent context.Context, req *Request, info api.QueryWordInfo, payload ChatCompletionRequest) (*api.QueryResult, error) {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	timer := time.AfterFunc(c.cfg.Timeout, func() {
		cancel(errFirstByteTimeout)
	})
	defer timer.Stop()

	httpReq, err := c.newHTTPRequest(ctx, payload, true)
	if err != nil {
		return nil, err
	}

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapHTTPError(resp)
	}

	observability.ActiveStreams.Inc()
	defer observability.ActiveStreams.Dec()

	start := time.Now()
	dec := newStreamDecoder(info.Word, req.OnMessage, req.OnFinish, func() {
		timer.Stop()
		observability.FirstDeltaLatency.WithLabelValues(payload.Model).Observe(time.Since(start).Seconds())
	})

	if err := parseStream(ctx, resp.Body, dec); err != nil {
		return nil, mapTransportError(ctx, err)
	}
	return api.NewQueryResult(info, dec.text()), nil
}

// newHTTPRequest marshals the payload and builds the outgoing POST.
func (c *Client) newHTTPRequest(ctx context.Context, payload ChatCompletionRequest, stream bool) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, api.NewNetworkError("", fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	if debug.TraceIsEnabled("translate") {
		debug.Raw("translate", string(body))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewNetworkError("", fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	return httpReq, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	c.streamClient.CloseIdleConnections()
	return nil
}
