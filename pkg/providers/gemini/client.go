// Package gemini implements the completion port on the Gemini API, used as
// an alternative generation backend next to Azure OpenAI.
package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/expertbridge/interviewer/pkg/errorsx"
	"github.com/expertbridge/interviewer/pkg/llm"
)

// Config holds the Gemini API credentials.
type Config struct {
	APIKey string
}

// Client issues chat completions through the Gemini API. Model names passed
// to Complete are Gemini model IDs (e.g. "gemini-2.0-flash").
type Client struct {
	genai *genai.Client
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errorsx.Wrap(errors.New("gemini: api key is required"), errorsx.ReasonConfigInvalid)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonProviderBuild)
	}
	return &Client{genai: gc}, nil
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Complete(ctx context.Context, model string, messages []llm.Message, params llm.Params) (string, error) {
	config := &genai.GenerateContentConfig{}
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}

	if !params.Reduced {
		config.Temperature = genai.Ptr(float32(params.Temperature))
		if params.MaxTokens > 0 {
			config.MaxOutputTokens = int32(params.MaxTokens)
		}
		if params.JSON {
			config.ResponseMIMEType = "application/json"
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", llm.ClassifiedError{Class: classifyErr(err), Err: err}
	}
	text := collectText(resp)
	if text == "" {
		return "", llm.ClassifiedError{Class: llm.ClassFatal, Err: errors.New("gemini: empty response")}
	}
	return text, nil
}

func classifyErr(err error) llm.ErrorClass {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return llm.ClassTransient
		}
		return llm.ClassFatal
	}
	return llm.ClassTransient
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(strings.TrimSpace(part.Text))
		}
	}
	return sb.String()
}

var _ llm.CompletionClient = (*Client)(nil)
