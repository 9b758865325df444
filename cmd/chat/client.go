package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	httpclient "github.com/mutablelogic/go-chat/pkg/httpclient"
	store "github.com/mutablelogic/go-chat/pkg/store"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client returns an httpclient.Client configured from the global flags,
// with the session kept in the store directory.
func (g *Globals) Client() (*httpclient.Client, error) {
	s, err := store.NewFileStore(g.Store, g.Passphrase)
	if err != nil {
		return nil, err
	}
	return httpclient.New(g.Endpoint,
		httpclient.WithStore(s),
		httpclient.WithLogger(g.logger),
		httpclient.WithSessionExpired(g.sessionExpired),
		httpclient.WithClientOpts(g.clientOpts()...),
	)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// clientOpts returns the HTTP client options for the global flags.
func (g *Globals) clientOpts() []client.ClientOpt {
	opts := []client.ClientOpt{}
	if g.Debug || g.Verbose {
		opts = append(opts, client.OptTrace(os.Stderr, g.Verbose))
	}
	if g.tracer != nil {
		opts = append(opts, client.OptTracer(g.tracer))
	}
	if g.Timeout > 0 {
		opts = append(opts, client.OptTimeout(g.Timeout))
	}
	return opts
}

// sessionExpired tells the user to log in again.
func (g *Globals) sessionExpired(_ context.Context, redirect string) {
	g.logger.Debug("session expired", "redirect", redirect)
	fmt.Fprintln(os.Stderr, "session expired, please run login")
}

// output writes v to stdout as indented JSON.
func output(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
