package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/db"
	"github.com/ishfaqbuilds/commandghost/internal/logger"
	"github.com/ishfaqbuilds/commandghost/internal/mcp"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "add": true, "edit": true, "delete": true,
	"categories": true, "category": true,
	"suggest": true, "prefs": true,
	"export": true, "import": true, "reset": true,
	"serve": true, "web": true, "info": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	// Global flags come before the subcommand
	if arg == "--log-level" || strings.HasPrefix(arg, "--log-level=") {
		return true
	}
	return isHelpOrVersion()
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
     .-.
    (o o)   Command Ghost
    | O \   whispers the command you were about to type
     \   \
      '~~~'

  Usage: ghost <command> [options]
         ghost --help

  MCP server mode requires piped input (or: ghost serve).`)
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
	if isHelpOrVersion() {
		if err := newCLIApp(nil, nil).Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	baseDir, err := config.BaseDir()
	if err != nil {
		fail("could not determine base directory: %v", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fail("failed to initialize database: %v", err)
	}
	defer database.Close()

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fail("failed to load config: %v", err)
	}
	db.ConfigurePool(database, cfg)
	if err := configureLogger("", cfg); err != nil {
		fail("failed to configure logging: %v", err)
	}

	s := settings.NewSQLite(database)
	if _, err := ops.EnsureSeeded(context.Background(), s); err != nil {
		fail("failed to seed builtin commands: %v", err)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		if err := newCLIApp(database, cfg).Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'ghost --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(s, cfg, Version); err != nil {
		logger.Error("mcp server stopped", "err", err)
		os.Exit(1)
	}
}
