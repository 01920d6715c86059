package devapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

var validate = validator.New()

func (s *Server) createInquiry(c echo.Context) error {
	var in domain.InquiryInput
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Message) == "" {
		return errorJSON(c, http.StatusBadRequest, "Name and message are required")
	}
	if err := validate.Var(in.Email, "required,email"); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid email")
	}

	now := s.now().UTC()
	inq := &domain.ContactInquiry{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Message:    in.Message,
		PropertyID: in.PropertyID,
		Status:     domain.InquiryStatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.mu.Lock()
	s.inquiries = append([]*domain.ContactInquiry{inq}, s.inquiries...)
	out := *inq
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) listInquiries(c echo.Context) error {
	status := domain.InquiryStatus(c.QueryParam("status"))
	page, limit := paging(c, defaultInquiryLimit)

	s.mu.RLock()
	var matched []domain.ContactInquiry
	for _, inq := range s.inquiries {
		if status == "" || inq.Status == status {
			matched = append(matched, *inq)
		}
	}
	s.mu.RUnlock()

	items, pg := paginate(matched, page, limit)
	return c.JSON(http.StatusOK, domain.InquiryList{Inquiries: items, Pagination: pg})
}

func (s *Server) updateInquiryStatus(c echo.Context) error {
	var req struct {
		Status domain.InquiryStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if !req.Status.Valid() {
		return errorJSON(c, http.StatusBadRequest, "Invalid inquiry status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inq := range s.inquiries {
		if inq.ID == c.Param("id") {
			inq.Status = req.Status
			inq.UpdatedAt = s.now().UTC()
			return c.JSON(http.StatusOK, *inq)
		}
	}
	return errorJSON(c, http.StatusNotFound, "Inquiry not found")
}

func (s *Server) deleteInquiry(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.inquiries, func(inq *domain.ContactInquiry) bool { return inq.ID == id })
	if i < 0 {
		return errorJSON(c, http.StatusNotFound, "Inquiry not found")
	}
	s.inquiries = slices.Delete(s.inquiries, i, i+1)
	return c.JSON(http.StatusOK, map[string]string{"message": "Inquiry deleted successfully"})
}
