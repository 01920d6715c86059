package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, got *chatRequest, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": reply},
			"done":    true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDescribeStructuredReply(t *testing.T) {
	var got chatRequest
	srv := chatServer(t, &got, `{"title":"Plot in Lugbe","description":"Dry, fenced plot.","features":["Dry land","C of O"]}`)

	d := New(srv.URL+"/", "llava")
	result, err := d.Describe(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Plot in Lugbe", result.Title)
	assert.Equal(t, "Dry, fenced plot.", result.Text)
	assert.Equal(t, []string{"Dry land", "C of O"}, result.Features)

	assert.Equal(t, "llava", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, []string{"/9g="}, got.Messages[1].Images)
	assert.Contains(t, string(got.Format), `"features"`)
	assert.InDelta(t, 0.2, got.Options.Temperature, 1e-9)
}

func TestDescribeFallsBackToLineFormat(t *testing.T) {
	var got chatRequest
	srv := chatServer(t, &got, "title | Duplex in Gwarinpa\nfeature | Boys quarters")

	result, err := New(srv.URL, "moondream").Describe(context.Background(), bytes.NewReader([]byte{1}), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Duplex in Gwarinpa", result.Title)
	assert.Equal(t, []string{"Boys quarters"}, result.Features)
}

func TestDescribeReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": `model "llava" not found`})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "llava").Describe(context.Background(), bytes.NewReader([]byte{1}), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "404")
}

func TestDescribeBadStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "llava").Describe(context.Background(), bytes.NewReader([]byte{1}), "image/jpeg")
	assert.EqualError(t, err, "ollama returned status 500")
}

func TestDescribeNetworkError(t *testing.T) {
	_, err := New("http://localhost:99999", "llava").Describe(context.Background(), bytes.NewReader([]byte{1}), "image/jpeg")
	assert.Error(t, err)
}

func TestDescribeReadError(t *testing.T) {
	_, err := New("http://localhost:11434", "llava").Describe(context.Background(), errReader{}, "image/jpeg")
	assert.Error(t, err)
}

type errReader struct{}

func (errReader) Read(_ []byte) (int, error) { return 0, io.ErrUnexpectedEOF }
