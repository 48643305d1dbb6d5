package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DucktectiveCZ/duklang/internal/lexer"
)

func newLexCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Print the token stream of a file",
		Long: `Print every token of a file as "line:col  KIND  lexeme".

Lexing continues past errors, so every lexical error in the file is
reported in a single run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			f := g.formatter(errOut)
			f.AddSource(path, string(data))

			lx := lexer.New(string(data))
			lx.SetFilename(path)

			count := 0
			for {
				tok, err := lx.Next()
				if err != nil {
					report(f, errOut, err)
				}
				if tok.Type == lexer.EOF {
					break
				}
				fmt.Fprintf(out, "%d:%d\t%s\t%q\n", tok.Span.Line, tok.Span.Column, tok.Type, tok.Lexeme)
				count++
			}

			errs := lx.Errors()
			g.logger.Debug("lexed file", "file", path, "tokens", count, "errors", len(errs))
			if len(errs) > 0 {
				return errReported
			}
			return nil
		},
	}
}
