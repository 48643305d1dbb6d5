package cmd

import (
	"github.com/spf13/cobra"

	"github.com/DucktectiveCZ/duklang/internal/lsp"
)

func newLSPCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server on stdin/stdout",
		Long: `Run a language server speaking JSON-RPC on stdin and stdout.

The server publishes lexer and parser diagnostics for every open
document. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(cmd.OutOrStdout(), g.logger.With("component", "lsp"), Version)
			return server.Run(cmd.Context(), cmd.InOrStdin())
		},
	}
}
