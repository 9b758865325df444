package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	chat "github.com/mutablelogic/go-chat"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ChatHistory returns the chat history of the logged-in user.
func (c *Client) ChatHistory(ctx context.Context) (schema.ChatHistory, error) {
	var response schema.ChatHistory
	if _, err := c.do(ctx, request{
		op:      "chat history",
		payload: client.MethodGet,
		path:    []string{"chat", "history"},
	}, &response); err != nil {
		return nil, err
	}

	// Return the response
	return response, nil
}

// CreateChat sends a prompt and returns the structured reply.
func (c *Client) CreateChat(ctx context.Context, prompt string) (*schema.ChatResponse, error) {
	params := schema.ChatRequest{Prompt: prompt}
	req := request{op: "create chat", path: []string{"chat"}}
	if err := c.check(ctx, req, params.Validate); err != nil {
		return nil, err
	}

	// Create request
	payload, err := client.NewJSONRequest(params)
	if err != nil {
		return nil, err
	}

	// Perform request
	var response schema.ChatResponse
	req.payload = payload
	if _, err := c.do(ctx, req, &response); err != nil {
		return nil, err
	}

	// Return the response
	return &response, nil
}

// DeleteChat deletes a chat by ID and returns the response body as
// received.
func (c *Client) DeleteChat(ctx context.Context, id string) (json.RawMessage, error) {
	req := request{op: "delete chat", payload: client.MethodDelete, path: []string{"chat", id}}
	if err := c.check(ctx, req, func() error {
		if strings.TrimSpace(id) == "" {
			return chat.ErrBadParameter.With("chat ID cannot be empty")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Perform request
	resp, err := c.do(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	// Return the response
	return resp.raw(), nil
}

// ChatToken returns a chat-scoped token issued for the logged-in user.
func (c *Client) ChatToken(ctx context.Context) (string, error) {
	var response schema.ChatTokenResponse
	if _, err := c.do(ctx, request{
		op:      "chat token",
		payload: client.NewRequestEx(http.MethodPost, ""),
		path:    []string{"chat", "token"},
	}, &response); err != nil {
		return "", err
	}

	// Return the token
	return response.Token, nil
}
