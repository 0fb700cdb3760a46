package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docseek/internal/adapter/analyzer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <text...>",
	Short: "Show how text is split into tokens and terms",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		lexer := analyzer.NewLexer(strings.Join(args, " "))
		for {
			tok, ok := lexer.Next()
			if !ok {
				return nil
			}
			text := lexer.Text(tok)
			fmt.Fprintf(out, "%-6s %-20s %s\n", tok.Kind, text, analyzer.Normalize(text))
		}
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
