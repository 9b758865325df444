package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Login exchanges an email and password for a credential. The fields are
// sent as multipart form data without any stored credential attached. On
// success the credential and session identity are written to the store
// and the response returned; on failure nothing is written.
func (c *Client) Login(ctx context.Context, email, password string) (*schema.LoginResponse, error) {
	params := schema.PasswordLoginRequest{Username: email, Password: password}
	req := request{op: "login", path: []string{"token"}, anonymous: true, multipart: true}
	if err := c.check(ctx, req, params.Validate); err != nil {
		return nil, err
	}

	// Create request
	payload, err := client.NewStreamingMultipartRequest(params, client.ContentTypeJson)
	if err != nil {
		return nil, err
	}

	// Perform request
	req.payload = payload
	return c.login(ctx, req)
}

// LoginWithGoogle exchanges a Google ID token for a credential, with the
// same storage contract as Login.
func (c *Client) LoginWithGoogle(ctx context.Context, token string) (*schema.LoginResponse, error) {
	req := request{op: "google login", path: []string{"login", "google"}, anonymous: true}
	if err := c.check(ctx, req, func() error {
		if strings.TrimSpace(token) == "" {
			return chat.ErrBadParameter.With("google token is required")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Create request
	payload, err := client.NewJSONRequest(schema.GoogleLoginRequest{Token: token})
	if err != nil {
		return nil, err
	}

	// Perform request
	req.payload = payload
	return c.login(ctx, req)
}

// Register creates an account and returns the server's confirmation.
// It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	params := schema.RegisterRequest{Email: email, Password: password}
	req := request{op: "register", path: []string{"register"}, anonymous: true}
	if err := c.check(ctx, req, params.Validate); err != nil {
		return "", err
	}

	// Create request
	payload, err := client.NewJSONRequest(params)
	if err != nil {
		return "", err
	}

	// Perform request
	var response string
	req.payload = payload
	if _, err := c.do(ctx, req, &response); err != nil {
		return "", err
	}

	// Return the response
	return response, nil
}

// VerifyToken asks the server whether the stored credential is still
// valid. A rejected credential expires the session.
func (c *Client) VerifyToken(ctx context.Context) (*schema.VerifyTokenResponse, error) {
	req := request{op: "verify token", payload: client.MethodGet, path: []string{"verify-token"}}
	token, err := c.token(ctx)
	if err != nil {
		c.logError(ctx, req, err)
		return nil, err
	}

	// Perform request. The credential travels in the path only.
	var response schema.VerifyTokenResponse
	req.path = append(req.path, token)
	req.anonymous = true
	if _, err := c.do(ctx, req, &response); err != nil {
		return nil, err
	}

	// Return the response
	return &response, nil
}

// Logout removes the credential and session identity from the store.
// The server is not contacted.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.clear(ctx); err != nil {
		c.logger.WithContext(ctx).Error("logout failed", "error", err)
		return err
	}
	return nil
}

// Session returns the cached session identity, or ErrMissingCredential
// when no credential is stored.
func (c *Client) Session(ctx context.Context) (*schema.User, error) {
	if _, err := c.token(ctx); err != nil {
		return nil, err
	}

	data, err := c.store.Get(ctx, schema.UserKey)
	if errors.Is(err, chat.ErrNotFound) {
		return nil, chat.ErrMissingCredential.With("no session identity")
	} else if err != nil {
		return nil, err
	}

	var user schema.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, chat.ErrInternal.Withf("session identity: %v", err)
	}
	return &user, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// login performs a login request and stores the credential and session
// identity from a valid response.
func (c *Client) login(ctx context.Context, req request) (*schema.LoginResponse, error) {
	var response schema.LoginResponse
	if _, err := c.do(ctx, req, &response); err != nil {
		return nil, err
	}

	// Store the session
	if err := c.save(ctx, response); err != nil {
		c.logError(ctx, req, err)
		return nil, err
	}

	// Return the response
	return &response, nil
}

// save writes the credential and session identity. The credential is
// removed again if the identity cannot be written.
func (c *Client) save(ctx context.Context, response schema.LoginResponse) error {
	user, err := json.Marshal(response.User)
	if err != nil {
		return chat.ErrInternal.Withf("session identity: %v", err)
	}
	if err := c.store.Set(ctx, schema.TokenKey, response.AccessToken); err != nil {
		return err
	}
	if err := c.store.Set(ctx, schema.UserKey, string(user)); err != nil {
		return errors.Join(err, c.store.Delete(ctx, schema.TokenKey))
	}
	return nil
}

// isAuthStatus reports whether status rejects the credential.
func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
