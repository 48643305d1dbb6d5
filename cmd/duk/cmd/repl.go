package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/astdump"
	"github.com/DucktectiveCZ/duklang/internal/parser"
)

const replSource = "<repl>"

const replHelp = `Enter an expression, a declaration or a val binding to see its syntax tree.
Input continues on the next line while it is incomplete; an empty line
forces the current input to be parsed.

Commands:
  :help          show this message
  :format NAME   switch output between source and yaml
  :quit, :exit   leave the session
`

// prompter is the part of *liner.State the read loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func newReplCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse snippets interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runREPL(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func (g *globalOptions) runREPL(out, errOut io.Writer) error {
	fmt.Fprintln(out, "duk repl - type :help for help, Ctrl+D to quit")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := g.cfg.REPL.HistoryFile
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	s := &replSession{
		out:    out,
		errOut: errOut,
		format: g.cfg.Output.Format,
		g:      g,
	}

	for {
		src, ok := readSnippet(ln, g.cfg.REPL.Prompt, g.cfg.REPL.Continuation)
		if !ok {
			fmt.Fprintln(out)
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if s.eval(src) {
			break
		}
	}

	if histPath != "" {
		f, err := os.Create(histPath)
		if err != nil {
			g.logger.Warn("failed to save history", "path", histPath, "error", err)
			return nil
		}
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

// readSnippet reads lines until they form a complete snippet or a parse
// error that more input cannot fix. Commands and blank lines end the
// input immediately. The second result is false at end of input.
func readSnippet(p prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}

		line, err := p.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := parser.ParseSnippet(src); err != nil && parser.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

type replSession struct {
	out    io.Writer
	errOut io.Writer
	format string
	g      *globalOptions
}

// eval handles one complete input and reports whether the session should end.
func (s *replSession) eval(src string) bool {
	if line := strings.TrimSpace(src); strings.HasPrefix(line, ":") {
		return s.command(line)
	}

	node, err := parser.ParseSnippet(src, parser.WithFilename(replSource))
	if err != nil {
		f := s.g.formatter(s.errOut)
		f.AddSource(replSource, src)
		report(f, s.errOut, err)
		return false
	}

	if s.format == "yaml" {
		if err := astdump.Encode(s.out, node); err != nil {
			fmt.Fprintf(s.errOut, "error: %v\n", err)
		}
		return false
	}
	fmt.Fprintln(s.out, strings.TrimRight(ast.Format(node), "\n"))
	return false
}

func (s *replSession) command(line string) bool {
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Fprint(s.out, replHelp)
	case ":format":
		if len(fields) != 2 || (fields[1] != "source" && fields[1] != "yaml") {
			fmt.Fprintln(s.out, "usage: :format source|yaml")
			return false
		}
		s.format = fields[1]
		fmt.Fprintf(s.out, "output format: %s\n", s.format)
	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for help.")
	}
	return false
}
