package devapi

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/photostore"
)

func (s *Server) listProperties(c echo.Context) error {
	typ := domain.PropertyType(c.QueryParam(domain.FilterType))
	status := domain.PropertyStatus(c.QueryParam(domain.FilterStatus))
	city := strings.ToLower(strings.TrimSpace(c.QueryParam(domain.FilterCity)))
	minPrice, hasMin := parseFloat(c.QueryParam(domain.FilterMinPrice))
	maxPrice, hasMax := parseFloat(c.QueryParam(domain.FilterMaxPrice))
	page, limit := paging(c, defaultPropertyLimit)

	s.mu.RLock()
	var matched []domain.Property
	for _, p := range s.properties {
		switch {
		case typ != "" && p.Type != typ:
		case status != "" && p.Status != status:
		case city != "" && !strings.Contains(strings.ToLower(p.City), city):
		case hasMin && p.Price < minPrice:
		case hasMax && p.Price > maxPrice:
		default:
			matched = append(matched, clone(p))
		}
	}
	s.mu.RUnlock()

	items, pg := paginate(matched, page, limit)
	return c.JSON(http.StatusOK, domain.PropertyList{Properties: items, Pagination: pg})
}

func (s *Server) getProperty(c echo.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.findProperty(c.Param("id"))
	if p == nil {
		return errorJSON(c, http.StatusNotFound, "Property not found")
	}
	return c.JSON(http.StatusOK, clone(p))
}

func (s *Server) createProperty(c echo.Context) error {
	var in domain.PropertyInput
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if msg := validateProperty(in); msg != "" {
		return errorJSON(c, http.StatusBadRequest, msg)
	}
	now := s.now().UTC()
	p := &domain.Property{ID: uuid.NewString(), Images: []domain.PropertyImage{}, CreatedAt: now}
	apply(p, in, now)

	s.mu.Lock()
	s.properties = append([]*domain.Property{p}, s.properties...)
	out := clone(p)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) updateProperty(c echo.Context) error {
	var in domain.PropertyInput
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if msg := validateProperty(in); msg != "" {
		return errorJSON(c, http.StatusBadRequest, msg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProperty(c.Param("id"))
	if p == nil {
		return errorJSON(c, http.StatusNotFound, "Property not found")
	}
	apply(p, in, s.now().UTC())
	return c.JSON(http.StatusOK, clone(p))
}

func (s *Server) deleteProperty(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.properties, func(p *domain.Property) bool { return p.ID == id })
	if i < 0 {
		return errorJSON(c, http.StatusNotFound, "Property not found")
	}
	for _, img := range s.properties[i].Images {
		delete(s.images, strings.TrimPrefix(img.URL, "/uploads/"))
	}
	s.properties = slices.Delete(s.properties, i, i+1)
	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}

func (s *Server) uploadImages(c echo.Context) error {
	s.mu.RLock()
	fail := s.failUploads
	exists := s.findProperty(c.Param("id")) != nil
	s.mu.RUnlock()
	if !exists {
		return errorJSON(c, http.StatusNotFound, "Property not found")
	}
	if fail {
		return errorJSON(c, http.StatusServiceUnavailable, "Image storage is unavailable")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Expected multipart form")
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		return errorJSON(c, http.StatusBadRequest, "No images provided")
	}

	type upload struct {
		name string
		img  storedImage
	}
	uploads := make([]upload, 0, len(headers))
	for _, fh := range headers {
		mimeType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			return errorJSON(c, http.StatusBadRequest, fmt.Sprintf("Unsupported image type %q", mimeType))
		}
		ext := photostore.ExtForMIME(mimeType)
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		uploads = append(uploads, upload{name: uuid.NewString() + ext, img: storedImage{mimeType: mimeType, data: data}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProperty(c.Param("id"))
	if p == nil {
		return errorJSON(c, http.StatusNotFound, "Property not found")
	}
	created := make([]domain.PropertyImage, 0, len(uploads))
	for _, up := range uploads {
		s.images[up.name] = up.img
		img := domain.PropertyImage{ID: uuid.NewString(), URL: "/uploads/" + up.name, IsPrimary: len(p.Images) == 0}
		p.Images = append(p.Images, img)
		created = append(created, img)
	}
	p.UpdatedAt = s.now().UTC()
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) serveImage(c echo.Context) error {
	s.mu.RLock()
	img, ok := s.images[c.Param("name")]
	s.mu.RUnlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	return c.Blob(http.StatusOK, img.mimeType, img.data)
}

// findProperty must be called with s.mu held.
func (s *Server) findProperty(id string) *domain.Property {
	for _, p := range s.properties {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func validateProperty(in domain.PropertyInput) string {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return "Title is required"
	case !in.Type.Valid():
		return "Invalid property type"
	case in.Status != "" && !in.Status.Valid():
		return "Invalid property status"
	case in.Price < 0 || in.Area < 0:
		return "Price and area must not be negative"
	}
	return ""
}

func apply(p *domain.Property, in domain.PropertyInput, now time.Time) {
	p.Title = in.Title
	p.Description = in.Description
	p.Type = in.Type
	p.Status = in.Status
	if p.Status == "" {
		p.Status = domain.PropertyStatusAvailable
	}
	p.Price = in.Price
	p.Area = in.Area
	p.Location = in.Location
	p.Address = in.Address
	p.City = in.City
	p.State = in.State
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.UpdatedAt = now
}

func clone(p *domain.Property) domain.Property {
	out := *p
	out.Images = slices.Clone(p.Images)
	if out.Images == nil {
		out.Images = []domain.PropertyImage{}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func paging(c echo.Context, defaultLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		limit = l
	}
	return page, limit
}

func paginate[T any](items []T, page, limit int) ([]T, domain.Pagination) {
	total := len(items)
	pg := domain.Pagination{Page: page, Limit: limit, Total: total, Pages: (total + limit - 1) / limit}
	start := (page - 1) * limit
	if start >= total {
		return []T{}, pg
	}
	end := min(start+limit, total)
	return items[start:end], pg
}
