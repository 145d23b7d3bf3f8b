package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/db"
	"github.com/hpungsan/nudge/internal/intent"
	"github.com/hpungsan/nudge/internal/logging"
	"github.com/hpungsan/nudge/internal/mcp"
	"github.com/hpungsan/nudge/internal/model"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "prompt": true, "list": true,
	"interpret": true, "report": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return isHelpOrVersion(args) || arg == "--verbose" || arg == "-V"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// wantsStderrLogs mirrors logs to stderr for the HTTP server and for --verbose.
func wantsStderrLogs(args []string) bool {
	if len(args) < 2 {
		return false
	}
	return slices.Contains(args[1:], "serve") || slices.Contains(args[1:], "--verbose") || slices.Contains(args[1:], "-V")
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// baseDir returns $NUDGE_HOME, or ~/.nudge when unset.
func baseDir() (string, error) {
	if dir := os.Getenv("NUDGE_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".nudge"), nil
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
                 _
   _ __  _   _  __| | __ _  ___
  | '_ \| | | |/ _' |/ _' |/ _ \
  | | | | |_| | (_| | (_| |  __/
  |_| |_|\__,_|\__,_|\__, |\___|
                     |___/

  Habit tracking from plain-language requests

  Usage: nudge <command> [options]
         nudge --help

  MCP server mode requires piped input.`)
}

// newInterpreter wires the configured remote model into an Interpreter.
// A model that cannot be built leaves the keyword fallback in charge.
func newInterpreter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*intent.Interpreter, model.Client) {
	client, err := model.New(ctx, cfg)
	if err != nil {
		logger.Warn("remote model unavailable, using keyword interpreter only",
			zap.String("provider", cfg.ModelProvider),
			zap.Error(err),
		)
		return intent.NewInterpreter(nil, logger), nil
	}
	if client == nil {
		return intent.NewInterpreter(nil, logger), nil
	}
	return intent.NewInterpreter(client, logger), client
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	dir, err := baseDir()
	if err != nil {
		fail("%v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fail("failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Dir:    filepath.Join(dir, "logs"),
		Level:  cfg.LogLevel,
		Stderr: wantsStderrLogs(os.Args),
	})
	if err != nil {
		fail("failed to initialize logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Init(dir)
	if err != nil {
		fail("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	interp, client := newInterpreter(context.Background(), cfg, logger)
	if client != nil {
		defer client.Close()
	}

	d := &deps{
		store:  db.NewStore(database),
		interp: interp,
		cfg:    cfg,
		logger: logger,
		out:    os.Stdout,
	}

	// CLI mode: known subcommand
	if isCLIMode(os.Args) {
		app := newCLIApp(d)
		if err := app.Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'nudge --help' for usage.\n")
		os.Exit(1)
	}

	for _, name := range mcp.ValidateDisabledTools(cfg.DisabledTools) {
		logger.Warn("unknown tool in disabled_tools", zap.String("tool", name))
	}

	// MCP server mode (default)
	logger.Info("starting MCP server", zap.String("version", Version))
	if err := mcp.Run(d.store, d.interp, cfg, Version); err != nil {
		fail("%v", err)
	}
}
