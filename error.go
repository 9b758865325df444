package chat

import (
	"errors"
	"fmt"
	"net/http"

	// Packages
	goerrors "github.com/goliatone/go-errors"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrInternal
	ErrMissingCredential
	ErrAuthenticationExpired
	ErrTransport
	ErrServer
	ErrMalformedResponse
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

// statusErr records the HTTP status of a failed response alongside the
// error kind and the underlying cause.
type statusErr struct {
	kind   Err
	status int
	cause  error
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrInternal:
		return "internal error"
	case ErrMissingCredential:
		return "no authentication token found"
	case ErrAuthenticationExpired:
		return "authentication expired"
	case ErrTransport:
		return "transport error"
	case ErrServer:
		return "server error"
	case ErrMalformedResponse:
		return "malformed response"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// Wrap returns an error of this kind which also unwraps to cause.
func (e Err) Wrap(cause error) error {
	if cause == nil {
		return e
	}
	return fmt.Errorf("%w: %w", e, cause)
}

// WithStatus returns an error of this kind carrying an HTTP status code.
// The cause may be nil.
func (e Err) WithStatus(status int, cause error) error {
	return &statusErr{kind: e, status: status, cause: cause}
}

func (e *statusErr) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%v: %d %s", e.kind, e.status, http.StatusText(e.status))
	}
	return fmt.Sprintf("%v: %d: %v", e.kind, e.status, e.cause)
}

func (e *statusErr) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// StatusCode returns the HTTP status carried by err, or zero if err
// was not produced from an HTTP response.
func StatusCode(err error) int {
	var s *statusErr
	if errors.As(err, &s) {
		return s.status
	}
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

// Envelope maps err onto a categorised error suitable for display
// or serialisation. It returns nil when err is nil.
func Envelope(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}

	var kind Err
	if !errors.As(err, &kind) {
		kind = ErrInternal
	}

	category, code := goerrors.CategoryInternal, http.StatusInternalServerError
	switch kind {
	case ErrNotFound:
		category, code = goerrors.CategoryNotFound, http.StatusNotFound
	case ErrBadParameter:
		category, code = goerrors.CategoryBadInput, http.StatusBadRequest
	case ErrMissingCredential, ErrAuthenticationExpired:
		category, code = goerrors.CategoryAuth, http.StatusUnauthorized
	case ErrTransport, ErrServer, ErrMalformedResponse:
		category, code = goerrors.CategoryOperation, http.StatusBadGateway
	}
	if status := StatusCode(err); status != 0 {
		code = status
	}

	result := goerrors.New(err.Error(), category).WithTextCode(kind.textCode())
	result.Code = code
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (e Err) textCode() string {
	switch e {
	case ErrNotFound:
		return "CHAT_NOT_FOUND"
	case ErrBadParameter:
		return "CHAT_BAD_PARAMETER"
	case ErrMissingCredential:
		return "CHAT_MISSING_CREDENTIAL"
	case ErrAuthenticationExpired:
		return "CHAT_AUTHENTICATION_EXPIRED"
	case ErrTransport:
		return "CHAT_TRANSPORT_ERROR"
	case ErrServer:
		return "CHAT_SERVER_ERROR"
	case ErrMalformedResponse:
		return "CHAT_MALFORMED_RESPONSE"
	}
	return "CHAT_INTERNAL_ERROR"
}
