package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// Claude speaks the Anthropic Messages API over plain net/http, including
// base64 image and PDF document content parts.
type Claude struct {
	client  *http.Client
	cfg     Config
	baseURL string
}

// NewClaude creates a Claude provider.
func NewClaude(cfg Config) *Claude {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
	return &Claude{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type claudeContentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeContentPart struct {
	Type   string               `json:"type"`
	Text   string               `json:"text,omitempty"`
	Source *claudeContentSource `json:"source,omitempty"`
}

type claudeMessage struct {
	Role    string              `json:"role"`
	Content []claudeContentPart `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Send implements Provider.
func (c *Claude) Send(ctx context.Context, messages []Message) (*Reply, error) {
	wire := make([]claudeMessage, len(messages))
	for i, m := range messages {
		wire[i] = claudeMessage{Role: m.Role, Content: encodeParts(m)}
	}

	body, err := json.Marshal(claudeRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  wire,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai: claude request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("ai: claude status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ai: decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("ai: claude error %s: %s", out.Error.Type, out.Error.Message)
	}

	// The first text block is the assistant reply.
	for _, part := range out.Content {
		if part.Type == "text" {
			return &Reply{Text: part.Text, Model: out.Model}, nil
		}
	}
	return nil, fmt.Errorf("ai: claude reply contained no text block")
}

// encodeParts projects a Message into Anthropic content parts: attachments
// first, then the text, matching how the UI submitted uploads.
func encodeParts(m Message) []claudeContentPart {
	parts := make([]claudeContentPart, 0, len(m.Attachments)+1)
	for _, a := range m.Attachments {
		kind := "image"
		if a.MediaType == "application/pdf" {
			kind = "document"
		}
		parts = append(parts, claudeContentPart{
			Type: kind,
			Source: &claudeContentSource{
				Type:      "base64",
				MediaType: a.MediaType,
				Data:      a.Data,
			},
		})
	}
	parts = append(parts, claudeContentPart{Type: "text", Text: m.Text})
	return parts
}

// Model implements Provider.
func (c *Claude) Model() string { return c.cfg.Model }

// Available implements Provider.
func (c *Claude) Available() bool { return c.cfg.APIKey != "" }
