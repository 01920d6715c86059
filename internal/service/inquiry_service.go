package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

type InquiryService struct {
	api api
}

func NewInquiryService(c api) *InquiryService {
	return &InquiryService{api: c}
}

func (s *InquiryService) Create(ctx context.Context, in domain.InquiryInput) (*domain.ContactInquiry, error) {
	var out domain.ContactInquiry
	if err := s.api.Post(ctx, "/inquiries", in, &out); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	return &out, nil
}

func (s *InquiryService) List(ctx context.Context, f domain.InquiryFilter) (*domain.InquiryList, error) {
	var out domain.InquiryList
	if err := s.api.Get(ctx, "/inquiries", f.Params(), &out); err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return &out, nil
}

func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.ContactInquiry, error) {
	var out domain.ContactInquiry
	body := map[string]string{"status": string(status)}
	if err := s.api.Patch(ctx, "/inquiries/"+escape(id)+"/status", body, &out); err != nil {
		return nil, fmt.Errorf("update inquiry %s status: %w", id, err)
	}
	return &out, nil
}

func (s *InquiryService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/inquiries/"+escape(id), nil); err != nil {
		return fmt.Errorf("delete inquiry %s: %w", id, err)
	}
	return nil
}
