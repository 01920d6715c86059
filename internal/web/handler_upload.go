package web

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/urbanhomes/internal/service"
)

const (
	maxUploadSize = 50 * 1024 * 1024 // 50 MB per request
	maxImages     = 10
)

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniffing algorithm (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// readUploads reads every file posted under field. The MIME type is sniffed
// from the bytes; the browser-supplied type is ignored. Empty file inputs are
// skipped. r.ParseMultipartForm must have been called.
func (s *Server) readUploads(r *http.Request, field string) ([]service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > maxImages {
		return nil, fmt.Errorf("at most %d images can be uploaded at once", maxImages)
	}

	var uploads []service.Upload
	for _, fh := range headers {
		if fh.Size == 0 {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		closeWithLog(f, "upload file", s.log(r))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s", fh.Filename)
		}
		mimeType, ok := allowedImageMIME(data)
		if !ok {
			return nil, fmt.Errorf("%s is not a JPEG, PNG, GIF or WebP image", fh.Filename)
		}
		uploads = append(uploads, service.Upload{Filename: fh.Filename, MimeType: mimeType, Data: data})
	}
	return uploads, nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
