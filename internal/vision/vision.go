package vision

import (
	"context"
	"io"
)

// DescribePrompt is the shared prompt used by all vision adapters.
const DescribePrompt = `You are helping a real estate agent write a property listing from a photo.
Describe what the photo shows as it would appear in a listing. Respond in plain text,
one field per line, format: field | value
Use "title" once for a short listing headline, "description" once for two or three
sentences, and "feature" once per notable feature (e.g. fitted kitchen, gated estate).`

type Describer interface {
	Describe(ctx context.Context, r io.Reader, mimeType string) (*Description, error)
}

type Description struct {
	Title       string
	Text        string
	Features    []string
	RawResponse string
}
