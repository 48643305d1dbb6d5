package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/DucktectiveCZ/duklang/internal/config"
	"github.com/DucktectiveCZ/duklang/internal/diag"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
	"github.com/DucktectiveCZ/duklang/internal/parser"
)

// errReported is returned once a failure has already been printed as a
// diagnostic, so Execute only has to set the exit status.
var errReported = errors.New("errors reported")

// globalOptions holds the persistent flags and the state derived from them.
type globalOptions struct {
	configFile string
	logLevel   string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the complete command tree.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "duk",
		Short: "Front end for the duk scripting language",
		Long: `duk parses source files of the duk scripting language.

Commands:
  parse    - parse modules and print the syntax tree
  lex      - dump the token stream of a file
  repl     - parse snippets interactively
  lsp      - serve diagnostics to editors
  version  - print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default: $DUK_CONFIG or ./duk.toml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable coloured diagnostics")

	root.AddCommand(
		newParseCmd(g),
		newLexCmd(g),
		newReplCmd(g),
		newLSPCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and prints any error not yet reported.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(root.ErrOrStderr(), "error: %v\n", err)
		}
		return err
	}
	return nil
}

func (g *globalOptions) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Resolve(g.configFile)
	if err != nil {
		return err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), handlerOpts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), handlerOpts)
	}

	g.cfg = cfg
	g.logger = slog.New(handler)
	if path != "" {
		g.logger.Debug("loaded config", "path", path)
	}
	return nil
}

func (g *globalOptions) colorEnabled(w io.Writer) bool {
	if g.noColor {
		return false
	}
	switch g.cfg.Output.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (g *globalOptions) formatter(w io.Writer) *diag.Formatter {
	return diag.NewFormatter(w, diag.WithColor(g.colorEnabled(w)))
}

// report prints err through f. Front-end errors get a source snippet; any
// other error is printed on one line.
func report(f *diag.Formatter, w io.Writer, err error) {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		f.Format(pe.ToDiagnostic())
		return
	}
	var le *lexer.Error
	if errors.As(err, &le) {
		f.Format(le.ToDiagnostic())
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
