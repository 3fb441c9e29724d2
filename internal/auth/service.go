package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin is the account allowed to log in.
type Admin struct {
	Email        string
	PasswordHash string
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Service struct {
	admin  Admin
	tokens *Tokens
}

func NewService(admin Admin, tokens *Tokens) *Service {
	return &Service{admin: admin, tokens: tokens}
}

func (s *Service) Login(_ context.Context, req LoginRequest) (*LoginResponse, error) {
	if s.admin.Email == "" || !strings.EqualFold(req.Email, s.admin.Email) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(s.admin.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: token, ExpiresAt: exp}, nil
}
