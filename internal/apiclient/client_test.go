package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientInjectsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	c := New(srv.URL, WithTokenSource(TokenFunc(func(context.Context) string { return "tok-1" })))
	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "/auth/profile", nil, &out))

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "/api/auth/profile", gotPath)
	assert.True(t, out["ok"])
}

func TestClientOmitsEmptyToken(t *testing.T) {
	var hasAuth bool
	srv := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, New(srv.URL).Get(context.Background(), "/properties", nil, nil))
	assert.False(t, hasAuth)
}

func TestClientSendsQueryParams(t *testing.T) {
	var gotQuery string
	srv := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	})

	err := New(srv.URL).Get(context.Background(), "/properties", map[string]string{"type": "LAND", "page": "1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "page=1&type=LAND", gotQuery)
}

func TestClientPostsJSON(t *testing.T) {
	srv := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["name"]})
	})

	var out map[string]string
	require.NoError(t, New(srv.URL).Post(context.Background(), "/inquiries", map[string]string{"name": "Ada"}, &out))
	assert.Equal(t, "Ada", out["echo"])
}

func TestClientClassifiesResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantOutcome Outcome
		wantMessage string
	}{
		{name: "ok", status: http.StatusOK, body: `{}`, wantOutcome: OutcomeOK},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"Invalid token"}`, wantOutcome: OutcomeAuthExpired, wantMessage: "Invalid token"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"Admins only"}`, wantOutcome: OutcomeError, wantMessage: "Admins only"},
		{name: "server error with message field", status: http.StatusInternalServerError, body: `{"message":"boom"}`, wantOutcome: OutcomeError, wantMessage: "boom"},
		{name: "plain text error", status: http.StatusBadGateway, body: "upstream down", wantOutcome: OutcomeError, wantMessage: "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := New(srv.URL).Get(context.Background(), "/properties", nil, nil)
			assert.Equal(t, tt.wantOutcome, Classify(err))
			if tt.wantOutcome == OutcomeOK {
				return
			}
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).Get(context.Background(), "/properties", nil, nil)
	require.Error(t, err)
	assert.Equal(t, OutcomeError, Classify(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&Error{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}

func TestUploadImagesSendsOnePartPerFile(t *testing.T) {
	srv := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["images"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.jpg", files[0].Filename)
		assert.Equal(t, "image/png", files[1].Header.Get("Content-Type"))

		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))

		_, _ = w.Write([]byte(`{"count":2}`))
	})

	var out struct{ Count int }
	err := New(srv.URL).UploadImages(context.Background(), "/properties/p1/images", []File{
		{Name: "a.jpg", MimeType: "image/jpeg", Data: strings.NewReader("first")},
		{Name: "b.png", MimeType: "image/png", Data: strings.NewReader("second")},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
}

func TestImageURL(t *testing.T) {
	c := New("http://api.local:5000/")
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"http://cdn.example.com/a.jpg", "http://cdn.example.com/a.jpg"},
		{"/uploads/a.jpg", "http://api.local:5000/uploads/a.jpg"},
		{"uploads/a.jpg", "http://api.local:5000/uploads/a.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ImageURL(tt.in), tt.in)
	}
}
