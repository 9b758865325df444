package main

import (
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpclient "github.com/mutablelogic/go-chat/pkg/httpclient"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
	oauth2 "golang.org/x/oauth2"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AuthCommands struct {
	Login       LoginCommand       `cmd:"" name:"login" help:"Log in with email and password." group:"AUTH"`
	GoogleLogin GoogleLoginCommand `cmd:"" name:"google-login" help:"Log in with a Google account." group:"AUTH"`
	Register    RegisterCommand    `cmd:"" name:"register" help:"Create an account." group:"AUTH"`
	Verify      VerifyCommand      `cmd:"" name:"verify" help:"Check the stored session with the server." group:"AUTH"`
	Logout      LogoutCommand      `cmd:"" name:"logout" help:"Remove the stored session." group:"AUTH"`
	Whoami      WhoamiCommand      `cmd:"" name:"whoami" help:"Show the stored session identity." group:"AUTH"`
}

type LoginCommand struct {
	Email    string `arg:"" name:"email" help:"Account email"`
	Password string `name:"password" env:"CHAT_PASSWORD" help:"Account password (prompted for when empty)"`
}

type GoogleLoginCommand struct {
	ClientID     string `name:"client-id" env:"GOOGLE_CLIENT_ID" help:"Google OAuth client ID"`
	ClientSecret string `name:"client-secret" env:"GOOGLE_CLIENT_SECRET" help:"Google OAuth client secret"`
	Callback     string `name:"callback" help:"Loopback address for the OAuth redirect" default:""`
	Token        string `name:"token" help:"Google ID token, skipping the browser flow"`
}

type RegisterCommand struct {
	Email    string `arg:"" name:"email" help:"Account email"`
	Password string `name:"password" env:"CHAT_PASSWORD" help:"Account password (prompted for when empty)"`
}

type VerifyCommand struct{}
type LogoutCommand struct{}
type WhoamiCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *LoginCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "LoginCommand",
		attribute.String("email", cmd.Email),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Prompt for the password
	password := cmd.Password
	if password == "" {
		if password, err = readPassword("Password: "); err != nil {
			return err
		}
	}

	// Log in and output the session identity
	response, err := client.Login(parent, cmd.Email, password)
	if err != nil {
		return err
	}
	return output(response.User)
}

func (cmd *GoogleLoginCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GoogleLoginCommand",
		attribute.String("client_id", cmd.ClientID),
		attribute.Bool("token", cmd.Token != ""),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Exchange a token obtained elsewhere
	if cmd.Token != "" {
		response, err := client.LoginWithGoogle(parent, cmd.Token)
		if err != nil {
			return err
		}
		return output(response.User)
	}

	// Create a listener for the callback and start the interactive flow
	listener, _, err := httpclient.NewCallbackListener(cmd.Callback)
	if err != nil {
		return err
	}
	defer listener.Close()

	response, err := client.GoogleLogin(parent, oauth2.Config{
		ClientID:     cmd.ClientID,
		ClientSecret: cmd.ClientSecret,
	}, listener, func(authURL string) {
		ctx.logger.Info("open this URL in your browser to log in", "url", authURL)
	})
	if err != nil {
		return fmt.Errorf("google login failed: %w", err)
	}
	return output(response.User)
}

func (cmd *RegisterCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "RegisterCommand",
		attribute.String("email", cmd.Email),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// Prompt for the password
	password := cmd.Password
	if password == "" {
		if password, err = readPassword("Password: "); err != nil {
			return err
		}
	}

	message, err := client.Register(parent, cmd.Email, password)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func (cmd *VerifyCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "VerifyCommand")
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	response, err := client.VerifyToken(parent)
	if err != nil {
		return err
	}
	return output(response)
}

func (cmd *LogoutCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "LogoutCommand")
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	return client.Logout(parent)
}

func (cmd *WhoamiCommand) Run(ctx *Globals) (err error) {
	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "WhoamiCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Get the client
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	user, err := client.Session(parent)
	if err != nil {
		return err
	}
	return output(user)
}
