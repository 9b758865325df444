package httpclient

import (
	// Packages
	glog "github.com/goliatone/go-logger/glog"
	client "github.com/mutablelogic/go-client"
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt sets an option on the client when it is created
type Opt func(*opts) error

// set of options
type opts struct {
	store      schema.Store
	logger     glog.Logger
	expired    ExpiredFunc
	clientOpts []client.ClientOpt
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(options ...Opt) (*opts, error) {
	o := new(opts)
	for _, opt := range options {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithStore sets where the credential and session identity are kept.
func WithStore(store schema.Store) Opt {
	return func(o *opts) error {
		if store == nil {
			return chat.ErrBadParameter.With("store is nil")
		}
		o.store = store
		return nil
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger glog.Logger) Opt {
	return func(o *opts) error {
		o.logger = logger
		return nil
	}
}

// WithSessionExpired sets the function called when the server rejects
// the credential.
func WithSessionExpired(fn ExpiredFunc) Opt {
	return func(o *opts) error {
		o.expired = fn
		return nil
	}
}

// WithClientOpts passes options through to the underlying HTTP client,
// for example client.OptTrace or client.OptTimeout.
func WithClientOpts(clientOpts ...client.ClientOpt) Opt {
	return func(o *opts) error {
		o.clientOpts = append(o.clientOpts, clientOpts...)
		return nil
	}
}
