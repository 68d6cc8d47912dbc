package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ishfaqbuilds/commandghost/internal/command"
	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/db"
	"github.com/ishfaqbuilds/commandghost/internal/errors"
	"github.com/ishfaqbuilds/commandghost/internal/logger"
	"github.com/ishfaqbuilds/commandghost/internal/mcp"
	"github.com/ishfaqbuilds/commandghost/internal/ops"
	"github.com/ishfaqbuilds/commandghost/internal/render"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
	"github.com/ishfaqbuilds/commandghost/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config) *cli.App {
	var s settings.Settings
	if database != nil {
		s = settings.NewSQLite(database)
	}

	app := &cli.App{
		Name:    "ghost",
		Usage:   "Command suggestions from your builtin and personal libraries",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "debug|info|warn|error (overrides GHOST_LOG_LEVEL and config)"},
		},
		Before: func(c *cli.Context) error {
			if !c.IsSet("log-level") {
				return nil
			}
			return configureLogger(c.String("log-level"), cfg)
		},
		Commands: []*cli.Command{
			listCmd(s),
			addCmd(s),
			editCmd(s),
			deleteCmd(s),
			categoriesCmd(s),
			categoryCmd(s),
			suggestCmd(s),
			prefsCmd(s),
			exportCmd(s, cfg),
			importCmd(s, cfg),
			resetCmd(s),
			serveCmd(s, cfg),
			webCmd(s, cfg),
			infoCmd(database),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// configureLogger applies the log level precedence: flag, GHOST_LOG_LEVEL,
// config, info.
func configureLogger(flagLevel string, cfg *config.Config) error {
	level := flagLevel
	var file string
	if cfg != nil {
		if level == "" && os.Getenv("GHOST_LOG_LEVEL") == "" {
			level = cfg.LogLevel
		}
		file = cfg.LogFile
	}
	return logger.Configure(level, file)
}

func libraryFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "library",
		Aliases:  []string{"l"},
		Required: required,
		Usage:    "Command library: builtin|personal",
	}
}

func addressFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "id", Usage: "Record id"},
		&cli.IntFlag{Name: "index", Aliases: []string{"i"}, Usage: "Raw position from 'ghost list'"},
	}
}

func recordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "command", Aliases: []string{"c"}, Required: true, Usage: "Command text"},
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Required: true, Usage: "What the command does"},
		&cli.StringFlag{Name: "category", Usage: "Category (default: Linux for builtin, Personal for personal)"},
	}
}

// listCmd creates the list command.
func listCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the commands of a library in stored order",
		Flags: []cli.Flag{
			libraryFlag(true),
			&cli.StringFlag{Name: "category", Usage: "Only commands in this category"},
		},
		Action: func(c *cli.Context) error {
			kind, err := parseLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			input := ops.ListInput{Kind: kind}
			if category := c.String("category"); category != "" {
				input.Category = &category
			}

			output, err := ops.List(c.Context, s, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// addCmd creates the add command.
func addCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Append a command to a library",
		Flags: append([]cli.Flag{libraryFlag(true)}, recordFlags()...),
		Action: func(c *cli.Context) error {
			kind, err := parseLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Add(c.Context, s, ops.AddInput{
				Kind:        kind,
				Command:     c.String("command"),
				Description: c.String("description"),
				Category:    c.String("category"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(s settings.Settings) *cli.Command {
	flags := append([]cli.Flag{libraryFlag(true)}, addressFlags()...)
	return &cli.Command{
		Name:  "edit",
		Usage: "Replace a command in place (address it with --id or --index)",
		Flags: append(flags, recordFlags()...),
		Action: func(c *cli.Context) error {
			kind, err := parseLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Edit(c.Context, s, ops.EditInput{
				Kind:        kind,
				Index:       indexFlag(c),
				ID:          c.String("id"),
				Command:     c.String("command"),
				Description: c.String("description"),
				Category:    c.String("category"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a command (address it with --id or --index)",
		Flags: append([]cli.Flag{libraryFlag(true)}, addressFlags()...),
		Action: func(c *cli.Context) error {
			kind, err := parseLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Delete(c.Context, s, ops.DeleteInput{
				Kind:  kind,
				Index: indexFlag(c),
				ID:    c.String("id"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// categoriesCmd creates the categories command.
func categoriesCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List the categories of a library with their command counts",
		Flags: []cli.Flag{libraryFlag(true)},
		Action: func(c *cli.Context) error {
			kind, err := parseLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Categories(c.Context, s, ops.CategoriesInput{Kind: kind})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// categoryCmd creates the category command group.
func categoryCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Create, rename or delete a category",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Add an empty category",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{libraryFlag(true)},
				Action: func(c *cli.Context) error {
					kind, err := parseLibrary(c.String("library"))
					if err != nil {
						return outputError(err)
					}
					output, err := ops.CreateCategory(c.Context, s, ops.CreateCategoryInput{Kind: kind, Name: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a category on every command that carries it",
				ArgsUsage: "<old> <new>",
				Flags:     []cli.Flag{libraryFlag(true)},
				Action: func(c *cli.Context) error {
					kind, err := parseLibrary(c.String("library"))
					if err != nil {
						return outputError(err)
					}
					if c.NArg() != 2 {
						return outputError(errors.NewInvalidRequest("rename takes exactly two arguments: <old> <new>"))
					}
					output, err := ops.RenameCategory(c.Context, s, ops.RenameCategoryInput{
						Kind: kind,
						Old:  c.Args().Get(0),
						New:  c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a category and every command in it",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{libraryFlag(true)},
				Action: func(c *cli.Context) error {
					kind, err := parseLibrary(c.String("library"))
					if err != nil {
						return outputError(err)
					}
					output, err := ops.DeleteCategory(c.Context, s, ops.DeleteCategoryInput{Kind: kind, Name: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
		},
	}
}

// suggestCmd creates the suggest command.
func suggestCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Show up to 5 suggestions for typed input",
		ArgsUsage: "<input...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON instead of the box"},
			&cli.BoolFlag{Name: "no-color", Usage: "Draw the box without colors (also when NO_COLOR is set)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Suggest(c.Context, s, ops.SuggestInput{Query: strings.Join(c.Args().Slice(), " ")})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			if !output.Visible {
				return nil
			}

			prefs, err := ops.GetPrefs(c.Context, s)
			if err != nil {
				return outputError(err)
			}
			box := render.NewBox(c.App.Writer, *prefs)
			if c.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
				box.Plain()
			}
			_, err = fmt.Fprintln(c.App.Writer, box.Render(output.Items))
			return err
		},
	}
}

// prefsCmd creates the prefs command.
func prefsCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show or change suggestion preferences",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "theme", Usage: "hacker|purple|dark|light"},
			&cli.IntFlag{Name: "box-width", Usage: "Box width in pixels (300-800, steps of 50)"},
			&cli.BoolFlag{Name: "show-emoji", Usage: "Show the ghost in the header"},
			&cli.BoolFlag{Name: "enabled", Usage: "Enable suggestions"},
		},
		Action: func(c *cli.Context) error {
			var input ops.SetPrefsInput
			changed := false
			if c.IsSet("theme") {
				theme := c.String("theme")
				input.Theme = &theme
				changed = true
			}
			if c.IsSet("box-width") {
				width := c.Int("box-width")
				input.BoxWidth = &width
				changed = true
			}
			if c.IsSet("show-emoji") {
				v := c.Bool("show-emoji")
				input.ShowEmoji = &v
				changed = true
			}
			if c.IsSet("enabled") {
				v := c.Bool("enabled")
				input.Enabled = &v
				changed = true
			}

			var (
				output *ops.Prefs
				err    error
			)
			if changed {
				output, err = ops.SetPrefs(c.Context, s, input)
			} else {
				output, err = ops.GetPrefs(c.Context, s)
			}
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(s settings.Settings, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Back up libraries to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file (default: ~/.commandghost/exports/<library>-<timestamp>.jsonl)"},
			libraryFlag(false),
		},
		Action: func(c *cli.Context) error {
			kind, err := parseOptionalLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Export(c.Context, s, cfg, ops.ExportInput{Path: c.String("path"), Kind: kind})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(s settings.Settings, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Restore libraries from a JSONL backup",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Input file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "append", Usage: "Import mode: append|replace"},
			&cli.StringFlag{Name: "library", Aliases: []string{"l"}, Usage: "Import every line into this library"},
		},
		Action: func(c *cli.Context) error {
			kind, err := parseOptionalLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Import(c.Context, s, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
				Kind: kind,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// resetCmd creates the reset command.
func resetCmd(s settings.Settings) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Restore a library to its initial contents (builtin: the catalog, personal: empty)",
		Flags: []cli.Flag{
			libraryFlag(true),
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the reset"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return outputError(errors.NewInvalidRequest("reset discards the library; pass --yes to confirm"))
			}
			kind, err := parseLibrary(c.String("library"))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Reset(c.Context, s, ops.ResetInput{Kind: kind})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(s settings.Settings, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(s, cfg, Version)
		},
	}
}

// webCmd creates the web command.
func webCmd(s settings.Settings, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the preferences and library UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (default from config: 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on (default from config: 7433)"},
		},
		Action: func(c *cli.Context) error {
			bind, port := cfg.WebBind, cfg.WebPort
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}
			if port <= 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}

			srv, err := web.NewServer(s, cfg, Version, bind, port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv)
		},
	}
}

// infoCmd creates the info command.
func infoCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show where ghost keeps its data",
		Action: func(c *cli.Context) error {
			baseDir, err := config.BaseDir()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			version, err := db.GetUserVersion(database)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			keys, err := db.ListKeys(c.Context, database)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			exportsDir, err := ops.DefaultExportsDir()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			return outputJSON(c.App.Writer, map[string]any{
				"base_dir":       baseDir,
				"database":       filepath.Join(baseDir, db.FileName),
				"exports_dir":    exportsDir,
				"schema_version": version,
				"stored_lists":   keys,
			})
		},
	}
}

// Helper functions

// outputJSON marshals result as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	gErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", gErr.Code, gErr.Message), 1)
}

func parseLibrary(name string) (command.Kind, error) {
	kind, err := command.ParseKind(name)
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	return kind, nil
}

func parseOptionalLibrary(name string) (*command.Kind, error) {
	if name == "" {
		return nil, nil
	}
	kind, err := parseLibrary(name)
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

// indexFlag returns --index only when it was given, so 0 is a real address.
func indexFlag(c *cli.Context) *int {
	if !c.IsSet("index") {
		return nil
	}
	i := c.Int("index")
	return &i
}
