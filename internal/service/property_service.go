package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
)

type PropertyService struct {
	api api
}

func NewPropertyService(c api) *PropertyService {
	return &PropertyService{api: c}
}

// List returns one page of properties. Non-empty filter fields are sent
// verbatim as query parameters.
func (s *PropertyService) List(ctx context.Context, f domain.PropertyFilter) (*domain.PropertyList, error) {
	var out domain.PropertyList
	if err := s.api.Get(ctx, "/properties", f.Params(), &out); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return &out, nil
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	var out domain.Property
	if err := s.api.Get(ctx, "/properties/"+escape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get property %s: %w", id, err)
	}
	return &out, nil
}

func (s *PropertyService) Create(ctx context.Context, in domain.PropertyInput) (*domain.Property, error) {
	var out domain.Property
	if err := s.api.Post(ctx, "/properties", in, &out); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return &out, nil
}

func (s *PropertyService) Update(ctx context.Context, id string, in domain.PropertyInput) (*domain.Property, error) {
	var out domain.Property
	if err := s.api.Put(ctx, "/properties/"+escape(id), in, &out); err != nil {
		return nil, fmt.Errorf("update property %s: %w", id, err)
	}
	return &out, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/properties/"+escape(id), nil); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}

// UploadImages attaches files to an existing property and returns the images
// the backend created.
func (s *PropertyService) UploadImages(ctx context.Context, id string, files []apiclient.File) ([]domain.PropertyImage, error) {
	var out []domain.PropertyImage
	if err := s.api.UploadImages(ctx, "/properties/"+escape(id)+"/images", files, &out); err != nil {
		return nil, fmt.Errorf("upload images for property %s: %w", id, err)
	}
	return out, nil
}
