package main

import (
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	table "github.com/mutablelogic/go-chat/pkg/ui/table"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCommands struct {
	History   HistoryCommand   `cmd:"" name:"history" help:"List previous chats." group:"CHAT"`
	Chat      ChatCommand      `cmd:"" name:"chat" help:"Send a prompt and show the roadmap." group:"CHAT"`
	Delete    DeleteCommand    `cmd:"" name:"delete" help:"Delete a chat." group:"CHAT"`
	ChatToken ChatTokenCommand `cmd:"" name:"chat-token" help:"Issue a chat token." group:"CHAT"`
}

type HistoryCommand struct {
	JSON bool `name:"json" help:"Output as JSON"`
}

type ChatCommand struct {
	Prompt string `arg:"" name:"prompt" help:"Prompt to send"`
	JSON   bool   `name:"json" help:"Output as JSON"`
}

type DeleteCommand struct {
	ID string `arg:"" name:"id" help:"Chat identifier"`
}

type ChatTokenCommand struct{}

// historyTable renders chat history records as table rows.
type historyTable schema.ChatHistory

var _ table.TableData = historyTable(nil)

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *HistoryCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "HistoryCommand")
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	history, err := client.ChatHistory(parent)
	if err != nil {
		return err
	} else if cmd.JSON {
		return output(history)
	}
	fmt.Println(table.Render(historyTable(history)))
	return nil
}

func (cmd *ChatCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ChatCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	response, err := client.CreateChat(parent, cmd.Prompt)
	if err != nil {
		return err
	} else if cmd.JSON {
		return output(response)
	}
	if response.Message != nil {
		fmt.Println(*response.Message)
	}
	if response.Data != nil {
		fmt.Println(table.RenderTree(response.Data))
	}
	return nil
}

func (cmd *DeleteCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteCommand",
		attribute.String("id", cmd.ID),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	response, err := client.DeleteChat(parent, cmd.ID)
	if err != nil {
		return err
	}
	fmt.Println(string(response))
	return nil
}

func (cmd *ChatTokenCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ChatTokenCommand")
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	token, err := client.ChatToken(parent)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// TABLE

func (h historyTable) Header() []string {
	return []string{"ID", "PROMPT", "REPLY", "CREATED"}
}

func (h historyTable) Len() int {
	return len(h)
}

func (h historyTable) Row(i int) []any {
	record := h[i]
	reply := ""
	switch {
	case record.Response.Data != nil:
		reply = record.Response.Data.Title
	case record.Response.Message != nil:
		reply = *record.Response.Message
	}
	return []any{
		table.Bold{Value: record.ID.String()},
		table.Truncate(record.Prompt, 40),
		table.Truncate(reply, 40),
		record.CreatedAt,
	}
}
