package httpclient

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"sync"

	// Packages
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	oauth2 "golang.org/x/oauth2"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// AuthURLCallback is called with the authorization URL for interactive login.
// The callback should present this URL to the user (e.g., open browser, display).
type AuthURLCallback func(authURL string)

// authResult holds the result from the OAuth callback handler.
type authResult struct {
	code string
	err  error
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// GoogleEndpoint is Google's OAuth 2.0 endpoint.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// GoogleScopes are requested when the config names none; openid is
// needed for Google to return an ID token.
var GoogleScopes = []string{"openid", "email"}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewCallbackListener creates a TCP listener for OAuth callbacks and returns
// both the listener and the redirect URI to use. If addr is empty, a random
// available port on localhost is used. Only loopback addresses are allowed.
func NewCallbackListener(addr string) (net.Listener, string, error) {
	if addr == "" {
		addr = "localhost:0"
	}

	// Parse and validate the address
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, "", chat.ErrBadParameter.Withf("invalid callback address %q: %v", addr, err)
	} else if !isLoopback(host) {
		return nil, "", chat.ErrBadParameter.Withf("callback address must be loopback (localhost/127.0.0.1/::1), got %q", host)
	} else if port == "" {
		return nil, "", chat.ErrBadParameter.Withf("callback address %q missing port", addr)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}
	return listener, redirectURI(listener), nil
}

// GoogleIDToken runs the OAuth 2.0 Authorization Code flow with PKCE
// against Google and returns the ID token from the token response. The
// listener receives the browser redirect; callback is given the URL the
// user should open. The endpoint and scopes default to GoogleEndpoint and
// GoogleScopes, and the redirect URL is taken from the listener. The
// caller is responsible for closing the listener after this returns.
func (c *Client) GoogleIDToken(ctx context.Context, cfg oauth2.Config, listener net.Listener, callback AuthURLCallback) (string, error) {
	if cfg.ClientID == "" {
		return "", chat.ErrBadParameter.With("google client ID is required")
	}
	if cfg.Endpoint.AuthURL == "" && cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = GoogleEndpoint
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = GoogleScopes
	}
	cfg.RedirectURL = redirectURI(listener)

	// Generate PKCE verifier and state
	verifier := oauth2.GenerateVerifier()
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	// Notify caller of the URL
	callback(cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)))

	// Wait for authorization code via callback server
	code, err := c.waitForAuthCallback(ctx, listener, state)
	if err != nil {
		return "", err
	}

	// Exchange code for token (use our HTTP client)
	token, err := cfg.Exchange(c.oauthContext(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", chat.ErrTransport.Withf("token exchange failed: %v", err)
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return "", chat.ErrMalformedResponse.With("token response has no id_token")
	}
	return idToken, nil
}

// GoogleLogin obtains a Google ID token interactively and exchanges it
// for a credential with LoginWithGoogle.
func (c *Client) GoogleLogin(ctx context.Context, cfg oauth2.Config, listener net.Listener, callback AuthURLCallback) (*schema.LoginResponse, error) {
	idToken, err := c.GoogleIDToken(ctx, cfg, listener, callback)
	if err != nil {
		c.logger.WithContext(ctx).Error("google authorization failed", "error", err)
		return nil, err
	}
	return c.LoginWithGoogle(ctx, idToken)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// oauthContext returns a context with our HTTP client injected for oauth2 library use.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.Client.Client)
}

// waitForAuthCallback starts an HTTP server on the given listener, waits for
// an OAuth callback with the expected state, and returns the authorization code.
func (c *Client) waitForAuthCallback(ctx context.Context, listener net.Listener, expectedState string) (string, error) {
	resultCh := make(chan authResult, 1)
	var once sync.Once

	// Only the first callback counts
	sendResult := func(r authResult) {
		once.Do(func() {
			resultCh <- r
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != expectedState {
			sendResult(authResult{err: chat.ErrBadParameter.With("state mismatch")})
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("state mismatch"))
			return
		}
		if errParam := query.Get("error"); errParam != "" {
			errDesc := query.Get("error_description")
			sendResult(authResult{err: fmt.Errorf("authorization error: %s: %s", errParam, errDesc)})
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With(errDesc))
			return
		}
		code := query.Get("code")
		if code == "" {
			sendResult(authResult{err: chat.ErrBadParameter.With("no authorization code received")})
			_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("no authorization code received"))
			return
		}

		sendResult(authResult{code: code})
		_ = httpresponse.JSON(w, http.StatusOK, 0, map[string]string{
			"status":  "success",
			"message": "Signed in with Google. You can close this window.",
		})
	})

	server := &http.Server{Handler: mux}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendResult(authResult{err: fmt.Errorf("callback server failed: %w", err)})
		}
	}()

	// Wait for callback or context cancellation
	var result authResult
	select {
	case <-ctx.Done():
		result = authResult{err: ctx.Err()}
	case result = <-resultCh:
	}

	// Shutdown server and wait for goroutine to complete
	_ = server.Shutdown(context.Background())
	wg.Wait()

	if result.err != nil {
		return "", result.err
	}
	return result.code, nil
}

// redirectURI returns the callback URL served on listener.
func redirectURI(listener net.Listener) string {
	return fmt.Sprintf("http://%s/callback", listener.Addr().String())
}

// generateState creates a random state string for CSRF protection.
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// isLoopback returns true if the host is a loopback address.
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
