package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/errors"
	"github.com/hpungsan/nudge/internal/habit"
	"github.com/hpungsan/nudge/internal/intent"
	"github.com/hpungsan/nudge/internal/ops"
	"github.com/hpungsan/nudge/internal/web"
)

// deps carries what the commands need. It is nil for --help and --version.
type deps struct {
	store  ops.Store
	interp *intent.Interpreter
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// InterpretOutput is printed by the interpret command.
type InterpretOutput struct {
	Intent intent.Intent `json:"intent"`
	Source intent.Source `json:"source"`
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "nudge",
		Usage:   "Habit tracking from plain-language requests",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "Mirror logs to stderr"},
		},
		Commands: []*cli.Command{
			serveCmd(d),
			promptCmd(d),
			listCmd(d),
			interpretCmd(d),
			reportCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *d.cfg
			if bind := c.String("bind"); bind != "" {
				cfg.Bind = bind
			}
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}

			srv := web.NewServer(d.store, d.interp, &cfg, d.logger, Version)
			if err := web.Run(c.Context, srv, d.logger); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// promptCmd creates the prompt command.
func promptCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "prompt",
		Usage:     "Interpret a request and act on it",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "phone", Usage: "Phone number identifying the user", Required: true},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Prompt(c.Context, d.store, d.interp, ops.PromptInput{
				Text:        joinArgs(c),
				PhoneNumber: c.String("phone"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(d.out, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List active habits",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "phone", Usage: "Phone number identifying the user", Required: true},
		},
		Action: func(c *cli.Context) error {
			habits, err := ops.ListHabits(c.Context, d.store, ops.ListInput{PhoneNumber: c.String("phone")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(d.out, habits)
		},
	}
}

// interpretCmd creates the interpret command.
func interpretCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "interpret",
		Usage:     "Show how a request would be interpreted, without changing anything",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			text := joinArgs(c)
			if text == "" {
				return outputError(errors.NewInvalidRequest("text is required"))
			}

			in, source := d.interp.Resolve(c.Context, text)
			return outputJSON(d.out, InterpretOutput{Intent: in, Source: source})
		},
	}
}

// reportCmd creates the report command.
func reportCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print active habits as Markdown",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "phone", Usage: "Phone number identifying the user", Required: true},
		},
		Action: func(c *cli.Context) error {
			phone := c.String("phone")
			habits, err := ops.ListHabits(c.Context, d.store, ops.ListInput{PhoneNumber: phone})
			if err != nil {
				return outputError(err)
			}

			_, err = io.WriteString(d.out, habit.Markdown(habit.NormalizePhone(phone), habits))
			return err
		},
	}
}

// Helper functions

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var nErr *errors.NudgeError
	if stderrors.As(err, &nErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", nErr.Code, nErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// joinArgs joins positional arguments into one request text.
func joinArgs(c *cli.Context) string {
	return strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
}
