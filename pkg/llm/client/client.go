// Package client sends streaming chat requests to an OpenAI compatible API.
// In auto mode the Responses endpoint is tried first and Chat Completions is
// used when it fails.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/papercomputeco/codestream/pkg/llm"
	"github.com/papercomputeco/codestream/pkg/llm/provider"
	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/pkg/utils"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 512

// Client streams chat completions from one upstream.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	endpoint   Endpoint
	httpClient *http.Client
	logger     *slog.Logger
}

// Stream is an open response body and the endpoint that produced it.
// The caller must close Body.
type Stream struct {
	Body     io.ReadCloser
	Endpoint Endpoint
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = EndpointAuto
	}
	if _, err := ParseEndpoint(string(endpoint)); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the model name sent with requests.
func (c *Client) Model() string {
	return c.model
}

// Stream sends messages and returns the open event stream. In auto mode any
// failure of the Responses endpoint other than cancellation is logged and the
// request is retried once against Chat Completions.
func (c *Client) Stream(ctx context.Context, messages []llm.Message) (*Stream, error) {
	req := &llm.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	}

	attempts := c.endpoint.endpoints()
	var errs []error
	for i, endpoint := range attempts {
		body, err := c.post(ctx, endpoint, req)
		if err == nil {
			return &Stream{Body: body, Endpoint: endpoint}, nil
		}
		errs = append(errs, err)

		if ctx.Err() != nil || i == len(attempts)-1 {
			break
		}
		c.logger.Warn("endpoint failed, falling back",
			"endpoint", endpoint,
			"fallback", attempts[i+1],
			"error", err,
		)
	}
	return nil, errors.Join(errs...)
}

func (c *Client) post(ctx context.Context, endpoint Endpoint, req *llm.ChatRequest) (io.ReadCloser, error) {
	shape, err := provider.New(string(endpoint))
	if err != nil {
		return nil, err
	}

	body, err := shape.MarshalRequest(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", endpoint, err)
	}

	url := c.baseURL + shape.Path()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("sending chat request",
		"url", url,
		"model", req.Model,
		"message_count", len(req.Messages),
		"request_id", requestID,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending %s request: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody*4))
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       utils.Truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
	}

	return resp.Body, nil
}
