package httpclient

import (
	"context"

	// Packages
	glog "github.com/goliatone/go-logger/glog"
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	store "github.com/mutablelogic/go-chat/pkg/store"
	version "github.com/mutablelogic/go-chat/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is a chat API client that wraps the base HTTP client. Every
// authenticated call carries the credential held in the store, and any
// 401 or 403 response clears the store and reports the session as expired.
type Client struct {
	*client.Client
	store   schema.Store
	logger  glog.Logger
	expired ExpiredFunc
}

// ExpiredFunc is called once for each call rejected with 401 or 403,
// after the credential and session identity have been removed. The
// redirect argument is the login entry point.
type ExpiredFunc func(ctx context.Context, redirect string)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultEndpoint is the API base address used by the web front end.
	DefaultEndpoint = "http://localhost:8000/api"

	loggerName = "chat"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new chat API client with the given base URL and options.
// The url parameter should point to the API root, e.g.
// "http://localhost:8000/api". Without WithStore, credentials are held in
// memory for the life of the client.
func New(url string, opts ...Opt) (*Client, error) {
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}

	// Default to an in-memory store
	if o.store == nil {
		if s, err := store.NewMemoryStore(""); err != nil {
			return nil, err
		} else {
			o.store = s
		}
	}

	// Resolve the logger, falling back to a no-op logger
	_, logger := glog.Resolve(loggerName, nil, o.logger)

	// Create the HTTP client
	clientOpts := append([]client.ClientOpt{client.OptUserAgent(version.UserAgent())}, o.clientOpts...)
	c, err := client.New(append(clientOpts, client.OptEndpoint(url))...)
	if err != nil {
		return nil, err
	}

	return &Client{
		Client:  c,
		store:   o.store,
		logger:  glog.Ensure(logger),
		expired: o.expired,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Store returns the store holding the credential and session identity.
func (c *Client) Store() schema.Store {
	return c.store
}
