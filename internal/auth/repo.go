package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/fieldsales/backoffice/internal/platform/apiclient"
)

// Repository exchanges credentials for an upstream token.
type Repository interface {
	Login(ctx context.Context, email, password string) (string, User, error)
}

// APIRepository implements Repository against the upstream REST API.
type APIRepository struct {
	api *apiclient.Factory
}

// NewRepository constructs an API-backed repository.
func NewRepository(api *apiclient.Factory) *APIRepository {
	return &APIRepository{api: api}
}

// Login posts the credentials to /auth/login.
func (r *APIRepository) Login(ctx context.Context, email, password string) (string, User, error) {
	var resp loginResponse
	err := r.api.For(nil).PostJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusUnprocessableEntity) {
			return "", User{}, ErrInvalidCredentials
		}
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	token, user := resp.credentials()
	if token == "" {
		return "", User{}, ErrNoToken
	}
	return token, user, nil
}

var _ Repository = (*APIRepository)(nil)
