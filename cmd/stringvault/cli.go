package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/db"
	"github.com/hpungsan/stringvault/internal/errors"
	"github.com/hpungsan/stringvault/internal/mcp"
	"github.com/hpungsan/stringvault/internal/nlquery"
	"github.com/hpungsan/stringvault/internal/ops"
	"github.com/hpungsan/stringvault/internal/web"
)

// store bundles what a command needs once the data directory is open.
type store struct {
	db      *sql.DB
	cfg     *config.Config
	baseDir string
	logger  *slog.Logger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "stringvault",
		Usage:   "Analyze, store and query strings",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", Aliases: []string{"d"}, EnvVars: []string{"STRINGVAULT_HOME"}, Usage: "Data directory (default: ~/.stringvault)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|yaml"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level: debug|info|warn|error"},
		},
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
			createCmd(),
			getCmd(),
			deleteCmd(),
			listCmd(),
			searchCmd(),
			analyzeCmd(),
			parseCmd(),
			exportCmd(),
			importCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Listen address (default from config: 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config: 8000)"},
		},
		Action: withStore(func(c *cli.Context, st *store) error {
			if c.IsSet("bind") {
				st.cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				st.cfg.Port = c.Int("port")
			}

			srv := web.NewServer(st.db, st.cfg, st.logger, Version)
			if err := web.Run(srv, st.logger); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		}),
	}
}

// mcpCmd creates the mcp command.
func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: withStore(func(c *cli.Context, st *store) error {
			if unknown := mcp.ValidateDisabledTools(st.cfg.DisabledTools); len(unknown) > 0 {
				st.logger.Warn("unknown tools in disabled_tools", "tools", unknown)
			}
			st.logger.Debug("starting MCP server", "data_dir", st.baseDir)
			return mcp.Run(st.db, st.cfg, Version)
		}),
	}
}

// createCmd creates the create command.
func createCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Analyze and store a string (use - to read it from stdin)",
		ArgsUsage: "<value>",
		Action: withStore(func(c *cli.Context, st *store) error {
			value, err := valueArg(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Create(c.Context, st.db, st.cfg, ops.CreateInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// getCmd creates the get command.
func getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch a stored string by its value",
		ArgsUsage: "<value>",
		Action: withStore(func(c *cli.Context, st *store) error {
			value, err := valueArg(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Get(c.Context, st.db, ops.GetInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// deleteCmd creates the delete command.
func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a stored string by its value",
		ArgsUsage: "<value>",
		Action: withStore(func(c *cli.Context, st *store) error {
			value, err := valueArg(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Delete(c.Context, st.db, ops.DeleteInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// listCmd creates the list command.
func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored strings, optionally filtered",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "palindrome", Usage: "Only palindromes (--palindrome=false for non-palindromes)"},
			&cli.IntFlag{Name: "min-length", Usage: "Minimum length, inclusive"},
			&cli.IntFlag{Name: "max-length", Usage: "Maximum length, inclusive"},
			&cli.IntFlag{Name: "word-count", Usage: "Exact word count"},
			&cli.StringFlag{Name: "contains", Usage: "Character that must appear"},
		},
		Action: withStore(func(c *cli.Context, st *store) error {
			var f analysis.Filters
			if c.IsSet("palindrome") {
				b := c.Bool("palindrome")
				f.IsPalindrome = &b
			}
			f.MinLength = intFlag(c, "min-length")
			f.MaxLength = intFlag(c, "max-length")
			f.WordCount = intFlag(c, "word-count")
			if s := c.String("contains"); s != "" {
				f.ContainsCharacter = &s
			}

			output, err := ops.List(c.Context, st.db, ops.ListInput{Filters: f})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// searchCmd creates the search command.
func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "List stored strings matching a natural-language query",
		ArgsUsage: "<query...>",
		Action: withStore(func(c *cli.Context, st *store) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("query is required"))
			}

			output, err := ops.Search(c.Context, st.db, ops.SearchInput{Query: strings.Join(c.Args().Slice(), " ")})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// analyzeCmd creates the analyze command.
func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Print the properties of a string without storing it",
		ArgsUsage: "<value>",
		Action: func(c *cli.Context) error {
			value, err := valueArg(c)
			if err != nil {
				return outputError(err)
			}
			return writeOutput(c, analysis.Compute(value))
		},
	}
}

// parseCmd creates the parse command.
func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Show the filters a natural-language query maps to",
		ArgsUsage: "<query...>",
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			interp, ok := nlquery.Parse(query)
			if !ok {
				return outputError(errors.NewUnparseableQuery(query))
			}
			return writeOutput(c, interp)
		},
	}
}

// exportCmd creates the export command.
func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all strings to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: <data-dir>/exports/all-<timestamp>.jsonl)"},
		},
		Action: withStore(func(c *cli.Context, st *store) error {
			path := c.String("path")
			if path == "" {
				path = ops.DefaultExportPath(st.baseDir, time.Now())
			}

			output, err := ops.Export(c.Context, st.db, st.cfg, ops.ExportInput{Path: path})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// importCmd creates the import command.
func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import strings from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path (must be in <data-dir>/exports or allowed_paths)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|skip"},
		},
		Action: withStore(func(c *cli.Context, st *store) error {
			output, err := ops.Import(c.Context, st.db, st.cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return writeOutput(c, output)
		}),
	}
}

// Helper functions

// withStore opens the data directory for the duration of a command.
func withStore(fn func(c *cli.Context, st *store) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger, err := newLogger(c)
		if err != nil {
			return outputError(errors.NewInvalidRequest(err.Error()))
		}

		baseDir, err := resolveDataDir(c)
		if err != nil {
			return outputError(errors.NewInternal(err))
		}

		cfg, err := config.Load(baseDir)
		if err != nil {
			return outputError(errors.NewInternal(fmt.Errorf("failed to load config: %w", err)))
		}

		database, err := db.Init(baseDir)
		if err != nil {
			return outputError(errors.NewInternal(fmt.Errorf("failed to initialize database: %w", err)))
		}
		defer database.Close()
		db.ConfigurePool(database, cfg)

		return fn(c, &store{db: database, cfg: cfg, baseDir: baseDir, logger: logger})
	}
}

// resolveDataDir returns --data-dir / $STRINGVAULT_HOME, or ~/.stringvault.
func resolveDataDir(c *cli.Context) (string, error) {
	if dir := c.String("data-dir"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".stringvault"), nil
}

// newLogger creates a text slog logger on the app's error writer.
func newLogger(c *cli.Context) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.String("log-level"))
	}
	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// valueArg returns the first positional argument. "-" reads the value from
// stdin with one trailing newline removed.
func valueArg(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		return "", errors.NewInvalidRequest("value argument is required")
	}
	arg := c.Args().First()
	if arg != "-" {
		return arg, nil
	}

	r := c.App.Reader
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// intFlag returns a pointer to the flag value if it was set.
func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	n := c.Int(name)
	return &n
}

// writeOutput writes v to the app's writer in the selected format.
func writeOutput(c *cli.Context, v any) error {
	w := c.App.Writer
	if w == nil {
		w = os.Stdout
	}

	switch c.String("format") {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	default:
		return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q (want json or yaml)", c.String("format"))))
	}
}

// outputError formats error for CLI.
func outputError(err error) error {
	if vErr, ok := err.(*errors.VaultError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", vErr.Code, vErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
