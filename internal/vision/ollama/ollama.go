// Package ollama suggests listing copy from a photo using a local Ollama
// server's chat endpoint with structured output.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vbonduro/urbanhomes/internal/vision"
)

// listingSchema constrains the reply to the fields a listing form needs.
var listingSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "features": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["title", "description", "features"]
}`)

const systemPrompt = "You write short, factual real estate listing copy. " +
	"Reply with JSON only: a headline title, a two or three sentence description, " +
	"and a list of notable features visible in the photo."

const userPrompt = "Write listing copy for this property photo."

type Describer struct {
	baseURL string
	model   string
	http    *http.Client
	options chatOptions
}

func New(baseURL, model string) *Describer {
	return &Describer{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{},
		// Low temperature keeps copy close to what the photo shows.
		options: chatOptions{Temperature: 0.2, NumPredict: 400},
	}
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []chatMessage   `json:"messages"`
	Format   json.RawMessage `json:"format"`
	Options  chatOptions     `json:"options"`
	Stream   bool            `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

type listingCopy struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

func (d *Describer) Describe(ctx context.Context, r io.Reader, _ string) (*vision.Description, error) {
	img, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt, Images: []string{base64.StdEncoding.EncodeToString(img)}},
		},
		Format:  listingSchema,
		Options: d.options,
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return nil, fmt.Errorf("ollama: %s (status %d)", out.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	return toDescription(out.Message.Content), nil
}

// toDescription reads the structured reply. Replies that are not the
// requested JSON go through the shared "field | value" parser.
func toDescription(content string) *vision.Description {
	var c listingCopy
	if err := json.Unmarshal([]byte(content), &c); err != nil || (c.Title == "" && c.Description == "") {
		return vision.ParseResponse(content)
	}
	return &vision.Description{
		Title:       c.Title,
		Text:        c.Description,
		Features:    c.Features,
		RawResponse: content,
	}
}
