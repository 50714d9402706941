package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/kompas/internal/compiler"
	"github.com/arnavsurve/kompas/internal/compiler/dump"
)

var parseAST bool

// parse: print the concrete tree, even a partial one
var ParseCmd = &cobra.Command{
	Use:   "parse [file.pas]",
	Short: "Print the parse tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules()
		if err != nil {
			return err
		}

		until := compiler.StageParse
		if parseAST {
			until = compiler.StageAST
		}
		res, err := compiler.CompileFile(args[0], compiler.Options{Rules: rules, Logger: logger, Until: until})
		if res == nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.ParseTree != nil {
			fmt.Fprintln(out, dump.ParseTree(res.ParseTree))
		}
		if err != nil {
			reportFailure(cmd.ErrOrStderr(), res, err)
			return fmt.Errorf("%w: %s", errReported, args[0])
		}
		if parseAST {
			fmt.Fprintln(out, dump.AST(res.AST))
		}
		return nil
	},
}

func init() {
	ParseCmd.Flags().BoolVar(&parseAST, "ast", false, "also lower the tree and print the AST")
}
