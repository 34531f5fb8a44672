package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI adapts the OpenAI chat-completion API. Image attachments ride
// along as data URLs; PDF documents are not supported by this provider and
// are skipped (the extracted text already travels in the message body).
type OpenAI struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}
}

// Send implements Provider.
func (o *OpenAI) Send(ctx context.Context, messages []Message) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	wire := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		images := imageAttachments(m.Attachments)
		if len(images) == 0 {
			wire = append(wire, openai.ChatCompletionMessage{Role: role, Content: m.Text})
			continue
		}
		parts := make([]openai.ChatMessagePart, 0, len(images)+1)
		for _, a := range images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", a.MediaType, a.Data),
				},
			})
		}
		parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: m.Text})
		wire = append(wire, openai.ChatCompletionMessage{Role: role, MultiContent: parts})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		Messages:  wire,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ai: openai reply contained no choices")
	}
	return &Reply{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

func imageAttachments(atts []Attachment) []Attachment {
	var out []Attachment
	for _, a := range atts {
		if a.MediaType != "application/pdf" {
			out = append(out, a)
		}
	}
	return out
}

// Model implements Provider.
func (o *OpenAI) Model() string { return o.cfg.Model }

// Available implements Provider.
func (o *OpenAI) Available() bool { return o.cfg.APIKey != "" }
