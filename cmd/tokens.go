package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/kompas/internal/compiler"
	"github.com/arnavsurve/kompas/internal/compiler/dump"
)

// tokens: print the lexer output
var TokensCmd = &cobra.Command{
	Use:   "tokens [file.pas]",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules()
		if err != nil {
			return err
		}

		res, err := compiler.CompileFile(args[0], compiler.Options{Rules: rules, Logger: logger, Until: compiler.StageTokens})
		if res == nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), dump.Tokens(res.Tokens))
		if err != nil {
			reportFailure(cmd.ErrOrStderr(), res, err)
			return fmt.Errorf("%w: %s", errReported, args[0])
		}
		return nil
	},
}
