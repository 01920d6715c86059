package web

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{"JPEG", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "image/jpeg", true},
		{"PNG", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png", true},
		{"GIF", []byte("GIF89a"), "image/gif", true},
		{"WebP", append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...), "image/webp", true},
		{"RIFF but not WebP", append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...), "", false},
		{"PDF disguised as image", []byte("%PDF-1.4 malicious content"), "", false},
		{"empty", []byte{}, "", false},
		{"too short for WebP check", []byte("RIFF"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMIME, gotDetected := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantDetected, gotDetected)
			assert.Equal(t, tt.wantMIME, gotMIME)
		})
	}
}

type part struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/admin/properties", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(maxUploadSize))
	return r
}

func TestReadUploads(t *testing.T) {
	s := &Server{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	t.Run("sniffs type and skips empty inputs", func(t *testing.T) {
		r := multipartRequest(t,
			part{"images", "front.png", jpeg},
			part{"images", "", nil},
			part{"other", "ignored.jpg", jpeg},
		)
		uploads, err := s.readUploads(r, "images")
		require.NoError(t, err)
		require.Len(t, uploads, 1)
		assert.Equal(t, "front.png", uploads[0].Filename)
		assert.Equal(t, "image/jpeg", uploads[0].MimeType, "declared extension is ignored")
		assert.Equal(t, jpeg, uploads[0].Data)
	})

	t.Run("rejects non-images", func(t *testing.T) {
		r := multipartRequest(t, part{"images", "deed.pdf", []byte("%PDF-1.4")})
		_, err := s.readUploads(r, "images")
		assert.EqualError(t, err, "deed.pdf is not a JPEG, PNG, GIF or WebP image")
	})

	t.Run("caps the number of files", func(t *testing.T) {
		parts := make([]part, maxImages+1)
		for i := range parts {
			parts[i] = part{"images", "p.jpg", jpeg}
		}
		_, err := s.readUploads(multipartRequest(t, parts...), "images")
		assert.Error(t, err)
	})

	t.Run("no multipart form", func(t *testing.T) {
		uploads, err := s.readUploads(httptest.NewRequest(http.MethodPost, "/", nil), "images")
		assert.NoError(t, err)
		assert.Empty(t, uploads)
	})
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{15000000, "$15,000,000"},
		{1234.5, "$1,234.5"},
		{1234.567, "$1,234.57"},
		{-2500, "$-2,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in), "formatMoney(%v)", tt.in)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Under Construction", label("UNDER_CONSTRUCTION"))
	assert.Equal(t, "Land", label("LAND"))
	assert.Equal(t, "", label(42))
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "1 image pending", countLabel(1))
	assert.Equal(t, "3 images pending", countLabel(3))
}
