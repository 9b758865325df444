package schema

import (
	"strings"

	// Packages
	chat "github.com/mutablelogic/go-chat"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// User is the session identity cached alongside the credential.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// PasswordLoginRequest is sent as multipart form fields to the token endpoint.
type PasswordLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GoogleLoginRequest carries a Google ID token to the Google login endpoint.
type GoogleLoginRequest struct {
	Token string `json:"token"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by both the password and Google login endpoints.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        User   `json:"user"`
}

// VerifyTokenResponse is returned when a token is accepted by the server.
type VerifyTokenResponse struct {
	Message string `json:"message"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// TokenType is the scheme used in the Authorization header.
	TokenType = "Bearer"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate returns ErrMalformedResponse when the body lacks the access
// token or the user record.
func (r LoginResponse) Validate() error {
	if strings.TrimSpace(r.AccessToken) == "" {
		return chat.ErrMalformedResponse.With("missing access_token")
	}
	if t := strings.TrimSpace(r.TokenType); t != "" && !strings.EqualFold(t, TokenType) {
		return chat.ErrMalformedResponse.Withf("unsupported token_type %q", r.TokenType)
	}
	return r.User.Validate()
}

// Validate returns ErrMalformedResponse when the user has no email.
func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return chat.ErrMalformedResponse.With("missing user email")
	}
	return nil
}

// Validate checks the request fields before they are sent.
func (r PasswordLoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return chat.ErrBadParameter.With("username is required")
	} else if r.Password == "" {
		return chat.ErrBadParameter.With("password is required")
	}
	return nil
}

// Validate checks the request fields before they are sent.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return chat.ErrBadParameter.With("email is required")
	} else if r.Password == "" {
		return chat.ErrBadParameter.With("password is required")
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (u User) String() string {
	return types.Stringify(u)
}

// String omits the access token.
func (r LoginResponse) String() string {
	return types.Stringify(struct {
		TokenType string `json:"token_type,omitempty"`
		User      User   `json:"user"`
	}{r.TokenType, r.User})
}
