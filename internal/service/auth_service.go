package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

type AuthService struct {
	api api
}

func NewAuthService(c api) *AuthService {
	return &AuthService{api: c}
}

// Login exchanges credentials for a user and bearer token. It does not touch
// any session; the caller decides where the token lives.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := s.api.Post(ctx, "/auth/login", body, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := s.api.Post(ctx, "/auth/register", body, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

func (s *AuthService) Profile(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := s.api.Get(ctx, "/auth/profile", nil, &out); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &out.User, nil
}
