package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// request describes a single call to the API.
type request struct {
	op        string         // operation name, for logging
	payload   client.Payload // method and body
	path      []string       // path segments below the endpoint
	anonymous bool           // do not attach (or require) the credential
	multipart bool           // body sets its own content type
}

// body captures the raw response body, whatever its content type.
type body struct {
	data []byte
}

// Ensure body implements client.Unmarshaler
var _ client.Unmarshaler = (*body)(nil)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// do sends the request and decodes a 2xx response body into out, which
// may be nil. Authenticated requests fail with ErrMissingCredential
// before anything is sent when the store holds no credential. A 401 or
// 403 response clears the store and calls the expired function. Every
// failure is logged before it is returned.
func (c *Client) do(ctx context.Context, req request, out any) (*body, error) {
	resp, err := c.send(ctx, req)
	if err == nil && out != nil {
		err = resp.decode(out)
	}
	if err != nil {
		c.logError(ctx, req, err)
		return nil, err
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req request) (*body, error) {
	opts := []client.RequestOpt{client.OptPath(req.segments()...)}

	// Attach the credential
	if !req.anonymous {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.OptReqHeader("Authorization", schema.TokenType+" "+token))
	}

	// Default content type, except where the body carries its own
	if !req.multipart {
		opts = append(opts, client.OptReqHeader("Content-Type", client.ContentTypeJson))
	}

	// Perform the request
	var resp body
	if err := c.DoWithContext(ctx, req.payload, &resp, opts...); err != nil {
		return nil, c.classify(ctx, err)
	}
	return &resp, nil
}

// token returns the stored credential, or ErrMissingCredential.
func (c *Client) token(ctx context.Context) (string, error) {
	token, err := c.store.Get(ctx, schema.TokenKey)
	if errors.Is(err, chat.ErrNotFound) {
		return "", chat.ErrMissingCredential
	} else if err != nil {
		return "", chat.ErrMissingCredential.Wrap(err)
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", chat.ErrMissingCredential
	}
	return token, nil
}

// check fails an authenticated request when no credential is stored,
// then calls validate when it is not nil. Failures are logged.
func (c *Client) check(ctx context.Context, req request, validate func() error) error {
	var err error
	if !req.anonymous {
		_, err = c.token(ctx)
	}
	if err == nil && validate != nil {
		err = validate()
	}
	if err != nil {
		c.logError(ctx, req, err)
	}
	return err
}

// classify maps an error from the HTTP client onto an error kind. A 401
// or 403 status also expires the session.
func (c *Client) classify(ctx context.Context, err error) error {
	if status := responseStatus(err); status != 0 {
		if isAuthStatus(status) {
			c.expire(ctx)
			return chat.ErrAuthenticationExpired.WithStatus(status, err)
		}
		return chat.ErrServer.WithStatus(status, err)
	} else if isDecodeError(err) {
		return chat.ErrMalformedResponse.Wrap(err)
	} else {
		return chat.ErrTransport.Wrap(err)
	}
}

// responseStatus returns the status of a non-2xx response. The HTTP
// client returns the decoded body when it is a JSON error carrying the
// same code, and the bare status otherwise.
func responseStatus(err error) int {
	var respErr httpresponse.ErrResponse
	if errors.As(err, &respErr) {
		return respErr.Code
	}
	var httpErr httpresponse.Err
	if errors.As(err, &httpErr) {
		return int(httpErr)
	}
	return 0
}

// expire removes the credential and session identity, then notifies
// the expired function.
func (c *Client) expire(ctx context.Context) {
	if err := c.clear(ctx); err != nil {
		c.logger.WithContext(ctx).Error("unable to clear session", "error", err)
	}
	if c.expired != nil {
		c.expired(ctx, schema.LoginPath)
	}
}

// clear removes the credential and session identity from the store.
func (c *Client) clear(ctx context.Context) error {
	return errors.Join(
		c.store.Delete(ctx, schema.TokenKey),
		c.store.Delete(ctx, schema.UserKey),
	)
}

func (c *Client) logError(ctx context.Context, req request, err error) {
	args := []any{"op", req.op, "path", "/" + strings.Join(req.path, "/"), "error", err}
	if status := chat.StatusCode(err); status != 0 {
		args = append(args, "status", status)
	}
	c.logger.WithContext(ctx).Error(req.op+" failed", args...)
}

// segments returns the path as arguments for client.OptPath, which
// escapes each one.
func (req request) segments() []any {
	segments := make([]any, len(req.path))
	for i, segment := range req.path {
		segments[i] = segment
	}
	return segments
}

///////////////////////////////////////////////////////////////////////////////
// UNMARSHALER

func (b *body) Unmarshal(_ http.Header, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

// decode parses the body as JSON into v, and validates it when v has a
// Validate method.
func (b *body) decode(v any) error {
	if len(b.data) == 0 {
		return chat.ErrMalformedResponse.With("empty response body")
	}
	if err := json.Unmarshal(b.data, v); err != nil {
		return chat.ErrMalformedResponse.Wrap(err)
	}
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return nil
}

// raw returns the body as received.
func (b *body) raw() json.RawMessage {
	return json.RawMessage(b.data)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
