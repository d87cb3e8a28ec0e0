package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
)

const loginPath = "/api/auth/login"

// Service delegates authentication to the remote API.
type Service struct {
	api      *upstream.Client
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(api *upstream.Client) *Service {
	return &Service{api: api, validate: shared.NewValidator()}
}

// Authenticate exchanges credentials for a bearer token.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	creds.Login = strings.TrimSpace(creds.Login)
	if err := shared.ValidateStruct(s.validate, creds); err != nil {
		return Identity{}, err
	}
	req := loginRequest{Password: creds.Password}
	switch {
	case shared.IsMobile(creds.Login):
		req.MobileNumber = creds.Login
	case strings.Contains(creds.Login, "@"):
		req.Email = creds.Login
	default:
		return Identity{}, shared.NewValidationError(map[string]string{"login": "must be a 10-digit mobile number or an email address"})
	}

	var resp loginResponse
	if err := s.api.Post(ctx, loginPath, req, &resp); err != nil {
		if errors.Is(err, httpx.ErrUnauthorized) || errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrNotFound) || errors.Is(err, httpx.ErrForbidden) {
			return Identity{}, shared.ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return Identity{}, fmt.Errorf("login: empty token: %w", httpx.ErrUpstream)
	}
	return Identity{Token: resp.Token, Name: resp.displayName(creds.Login)}, nil
}
