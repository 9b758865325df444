package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	glog "github.com/goliatone/go-logger/glog"
	chat "github.com/mutablelogic/go-chat"
	version "github.com/mutablelogic/go-chat/pkg/version"
	otel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// API
	Endpoint string        `name:"endpoint" env:"CHAT_ENDPOINT" help:"API endpoint" default:"http://localhost:8000/api"`
	Timeout  time.Duration `name:"timeout" env:"CHAT_TIMEOUT" help:"Request timeout" default:"30s"`

	// Credential storage
	Store      string `name:"store" env:"CHAT_STORE" help:"Directory for the stored session" default:"${STORE_DIR}"`
	Passphrase string `name:"passphrase" env:"CHAT_PASSPHRASE" help:"Passphrase used to seal the stored session"`

	// Context
	ctx      context.Context
	execName string
	tracer   trace.Tracer
	logger   glog.Logger
}

type CLI struct {
	Globals
	AuthCommands    `embed:""`
	ChatCommands    `embed:""`
	VersionCommands `embed:""`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	name := execName()

	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(name),
		kong.Description("Chat API command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"STORE_DIR":       storeDir(),
			"EXECUTABLE_NAME": name,
		},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = name

	// Logging and tracing
	cli.Globals.logger = newLogger(os.Stderr, cli.Debug)
	cli.Globals.tracer = otel.Tracer(version.Product)

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		printError(err)
		os.Exit(-1)
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

// newLogger writes console log lines to w. Debug lines are only written
// in debug mode.
func newLogger(w io.Writer, debug bool) glog.Logger {
	level := glog.Info
	if debug {
		level = glog.Debug
	}
	return glog.NewLogger(glog.WithWriter(w), glog.WithLevel(level), glog.WithLoggerTypeConsole())
}

// storeDir returns the default directory for the stored session.
func storeDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, version.Product)
}

// printError writes err to stderr with its category and code.
func printError(err error) {
	envelope := chat.Envelope(err)
	fmt.Fprintf(os.Stderr, "%s [%s %d]: %v\n", envelope.TextCode, envelope.Category, envelope.Code, err)
}
