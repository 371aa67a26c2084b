package auth

import (
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidCredentials is returned when the upstream rejects the login.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrRoleNotAllowed is returned for accounts the back office does not serve.
	ErrRoleNotAllowed = errors.New("auth: role not allowed")
	// ErrNoToken is returned when the login response carries no token.
	ErrNoToken = errors.New("auth: login response without token")
)

// User is the account returned by the upstream login endpoint.
type User struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// the token key differs between API versions.
type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
	Data        *struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	} `json:"data"`
}

func (r loginResponse) credentials() (string, User) {
	if r.Data != nil && r.Data.Token != "" {
		return r.Data.Token, r.Data.User
	}
	if r.Token != "" {
		return r.Token, r.User
	}
	return r.AccessToken, r.User
}
