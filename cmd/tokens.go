package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a13labs/hypgen/pkg/logging"
	"github.com/a13labs/hypgen/pkg/parser"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the lexer tokens of a C++ file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readSource(args[0])
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		tokenizer := parser.NewTokenizer(args[0], content)
		for {
			tok, err := tokenizer.Next()
			if err != nil {
				tw.Flush()
				return err
			}
			if tok.Type == parser.TokenEOF {
				break
			}
			if !all && tok.Type.Discardable() {
				continue
			}
			logger.Log(cmd.Context(), logging.LevelTrace, "token", "type", tok.Type, "offset", tok.Offset)
			fmt.Fprintf(tw, "%s\t%s\t%q\n", tok.Location, tok.Type, tok.Value)
		}
		return tw.Flush()
	},
}

func init() {
	tokensCmd.Flags().BoolP("all", "a", false, "Include whitespace, newline and comment tokens")
}
