package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/urbanhomes/internal/vision"
)

// maxTokens comfortably covers a title, a short paragraph and a dozen features.
const maxTokens = 1024

type ClaudeDescriber struct {
	model  string
	client *anthropic.Client
}

type Option func(*[]anthropic.ClientOption)

// WithBaseURL points the describer at a different Messages API endpoint.
func WithBaseURL(url string) Option {
	return func(opts *[]anthropic.ClientOption) {
		*opts = append(*opts, anthropic.WithBaseURL(url))
	}
}

func NewClaudeDescriber(apiKey, model string, opts ...Option) *ClaudeDescriber {
	var clientOpts []anthropic.ClientOption
	for _, opt := range opts {
		opt(&clientOpts)
	}
	return &ClaudeDescriber{
		model:  model,
		client: anthropic.NewClient(apiKey, clientOpts...),
	}
}

func (d *ClaudeDescriber) Describe(ctx context.Context, r io.Reader, mimeType string) (*vision.Description, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := d.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					normaliseMIME(mimeType),
					base64.StdEncoding.EncodeToString(imageData),
				)),
				anthropic.NewTextMessageContent(vision.DescribePrompt),
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("claude messages: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText {
			sb.WriteString(c.GetText())
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("claude returned no text content")
	}
	return vision.ParseResponse(sb.String()), nil
}

// normaliseMIME maps browser MIME types to the values the Anthropic API accepts.
// Unknown types are coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
