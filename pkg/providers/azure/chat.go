// Package azure implements the completion port against Azure OpenAI
// chat-completions deployments.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/expertbridge/interviewer/pkg/errorsx"
	"github.com/expertbridge/interviewer/pkg/llm"
	"github.com/expertbridge/interviewer/pkg/resilience"
)

const defaultAPIVersion = "2024-02-15-preview"

// Config holds the connection settings for one Azure OpenAI resource. Models
// passed to Complete are deployment names under this resource.
type Config struct {
	Endpoint   string
	APIKey     string
	APIVersion string
}

// Client issues chat completions against Azure OpenAI deployments. It is
// safe for concurrent use. A breaker fails calls fast while the resource is
// rate limiting, so the fallback sweep moves on without burning its timeout.
type Client struct {
	cfg     Config
	client  *http.Client
	breaker *resilience.CircuitBreaker
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errorsx.Wrap(errors.New("azure: endpoint is required"), errorsx.ReasonConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errorsx.Wrap(errors.New("azure: api key is required"), errorsx.ReasonConfigInvalid)
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: resilience.NewCircuitBreaker(3, 30*time.Second),
	}, nil
}

func (c *Client) Name() string { return "azure_openai" }

// Complete issues one chat completion against the named deployment. The
// standard shape carries temperature and max_tokens; the reduced shape sends
// messages only, for deployments that reject sampling controls.
func (c *Client) Complete(ctx context.Context, model string, messages []llm.Message, params llm.Params) (string, error) {
	if !c.breaker.Allow() {
		return "", llm.ClassifiedError{Class: llm.ClassTransient, Err: errors.New("azure: circuit open, backing off")}
	}
	body, err := json.Marshal(c.buildRequest(messages, params))
	if err != nil {
		return "", llm.ClassifiedError{Class: llm.ClassFatal, Err: err}
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.cfg.Endpoint, url.PathEscape(model), url.QueryEscape(c.cfg.APIVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", llm.ClassifiedError{Class: llm.ClassFatal, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.OnFailure()
		return "", llm.ClassifiedError{Class: llm.ClassTransient, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		class := classifyStatus(resp.StatusCode, raw)
		if class == llm.ClassTransient {
			c.breaker.OnFailure()
		}
		return "", llm.ClassifiedError{
			Class: class,
			Err:   fmt.Errorf("azure: deployment %s: status %d: %s", model, resp.StatusCode, truncate(string(raw), 512)),
		}
	}
	c.breaker.OnSuccess()

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", llm.ClassifiedError{Class: llm.ClassFatal, Err: fmt.Errorf("azure: decode response: %w", err)}
	}
	if len(payload.Choices) == 0 {
		return "", llm.ClassifiedError{Class: llm.ClassFatal, Err: errors.New("azure: no choices in response")}
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) buildRequest(messages []llm.Message, params llm.Params) map[string]any {
	wire := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, map[string]string{"role": string(m.Role), "content": m.Content})
	}
	req := map[string]any{"messages": wire}
	if params.Reduced {
		return req
	}
	req["temperature"] = params.Temperature
	if params.MaxTokens > 0 {
		req["max_tokens"] = params.MaxTokens
	}
	if params.JSON {
		req["response_format"] = map[string]string{"type": "json_object"}
	}
	return req
}

// classifyStatus maps HTTP failures to error classes. Body sniffing happens
// only here, behind the port boundary.
func classifyStatus(status int, body []byte) llm.ErrorClass {
	switch {
	case status == http.StatusBadRequest && looksLikeParamRejection(string(body)):
		return llm.ClassUnsupportedParams
	case status == http.StatusTooManyRequests, status >= 500:
		return llm.ClassTransient
	default:
		return llm.ClassFatal
	}
}

func looksLikeParamRejection(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range []string{"unsupported", "temperature", "max_tokens", "parameter"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ llm.CompletionClient = (*Client)(nil)
