package schema

import (
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	chat "github.com/mutablelogic/go-chat"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ChatRequest is the body of a create-chat call.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse is the structured reply to a prompt: an optional message
// and an optional diagram of topics.
type ChatResponse struct {
	Message *string      `json:"message,omitempty"`
	Data    *DiagramNode `json:"data,omitempty"`
}

// DiagramNode is one node of a topic diagram.
type DiagramNode struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Resources   []Resource    `json:"resources"`
	Children    []DiagramNode `json:"children,omitempty"`
}

// Resource is a link attached to a diagram node.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// ChatRecord is one entry of the chat history.
type ChatRecord struct {
	ID        uuid.UUID    `json:"id"`
	UserID    int          `json:"user_id,omitempty"`
	Prompt    string       `json:"prompt"`
	Response  ChatResponse `json:"response"`
	CreatedAt time.Time    `json:"created_at,omitzero"`
}

// ChatHistory is the list of records returned by the history endpoint.
type ChatHistory []ChatRecord

// ChatTokenResponse carries a chat-scoped token.
type ChatTokenResponse struct {
	Token string `json:"token"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the prompt before it is sent.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return chat.ErrBadParameter.With("prompt is required")
	}
	return nil
}

// Validate returns ErrMalformedResponse when neither a message nor a
// diagram is present, or the diagram is incomplete.
func (r ChatResponse) Validate() error {
	if r.Message == nil && r.Data == nil {
		return chat.ErrMalformedResponse.With("response has neither message nor data")
	}
	if r.Data != nil {
		return r.Data.Validate()
	}
	return nil
}

// Validate checks the node and all its descendants have an id and title.
func (n DiagramNode) Validate() error {
	if n.ID == "" {
		return chat.ErrMalformedResponse.With("diagram node missing id")
	} else if n.Title == "" {
		return chat.ErrMalformedResponse.Withf("diagram node %q missing title", n.ID)
	}
	for _, child := range n.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every record has an identifier.
func (h ChatHistory) Validate() error {
	for i, record := range h {
		if record.ID == uuid.Nil {
			return chat.ErrMalformedResponse.Withf("history record %d missing id", i)
		}
	}
	return nil
}

// Validate returns ErrMalformedResponse when the token is empty.
func (r ChatTokenResponse) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return chat.ErrMalformedResponse.With("missing token")
	}
	return nil
}

// Walk calls fn for the node and each descendant, depth first.
func (n *DiagramNode) Walk(fn func(depth int, node *DiagramNode)) {
	n.walk(0, fn)
}

func (n *DiagramNode) walk(depth int, fn func(int, *DiagramNode)) {
	fn(depth, n)
	for i := range n.Children {
		n.Children[i].walk(depth+1, fn)
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ChatResponse) String() string {
	return types.Stringify(r)
}

func (r ChatRecord) String() string {
	return types.Stringify(r)
}

func (h ChatHistory) String() string {
	return types.Stringify(h)
}
