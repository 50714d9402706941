package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/kompas/internal/compiler"
	"github.com/arnavsurve/kompas/internal/compiler/dump"
	"github.com/arnavsurve/kompas/internal/compiler/lexer"
	"github.com/arnavsurve/kompas/internal/compiler/semantic"
	"github.com/arnavsurve/kompas/internal/tablestore"
)

var (
	checkTokens bool
	checkTree   bool
	checkAST    bool
	checkTables bool
	checkFormat string
	checkDB     string
)

// check: run the whole front-end
var CheckCmd = &cobra.Command{
	Use:   "check [file.pas]",
	Short: "Lex, parse and analyze a source file",
	Long: `Runs every phase over a source file and stops at the first failing one.

Examples:
  kompas check hitung.pas
  kompas check --ast --tables hitung.pas
  kompas check --tables --format yaml hitung.pas
  kompas check --db tables.db hitung.pas`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().BoolVar(&checkTokens, "tokens", false, "print the token stream")
	CheckCmd.Flags().BoolVar(&checkTree, "tree", false, "print the parse tree")
	CheckCmd.Flags().BoolVar(&checkAST, "ast", false, "print the decorated AST")
	CheckCmd.Flags().BoolVar(&checkTables, "tables", false, "print tab, btab and atab")
	CheckCmd.Flags().StringVar(&checkFormat, "format", "", "table output format: text or yaml")
	CheckCmd.Flags().StringVar(&checkDB, "db", "", "export the symbol tables to this SQLite database")
}

// checkOutput says which structures check prints and where tables go.
type checkOutput struct {
	tokens, tree, ast, tables bool
	format                    string
	db                        string
}

// outputSettings merges the check flags over the [output] and [export]
// config sections.
func outputSettings(cmd *cobra.Command) checkOutput {
	o := checkOutput{
		tokens: cfg.Output.Tokens,
		tree:   cfg.Output.ParseTree,
		ast:    cfg.Output.AST,
		tables: cfg.Output.Tables,
		format: cfg.Output.Format,
		db:     cfg.Export.Database,
	}

	flags := cmd.Flags()
	if flags.Changed("tokens") {
		o.tokens = checkTokens
	}
	if flags.Changed("tree") {
		o.tree = checkTree
	}
	if flags.Changed("ast") {
		o.ast = checkAST
	}
	if flags.Changed("tables") {
		o.tables = checkTables
	}
	if flags.Changed("format") {
		o.format = checkFormat
	}
	if flags.Changed("db") {
		o.db = checkDB
	}
	return o
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	o := outputSettings(cmd)
	if o.format != "text" && o.format != "yaml" {
		return fmt.Errorf("invalid format %q: want text or yaml", o.format)
	}

	rules, err := loadRules()
	if err != nil {
		return err
	}

	res, err := compiler.CompileFile(path, compiler.Options{Rules: rules, Logger: logger})
	if res == nil {
		return err
	}

	// a failed run still prints what the earlier phases built
	if dumpErr := printDumps(cmd.OutOrStdout(), res, o); dumpErr != nil {
		return dumpErr
	}
	if err != nil {
		reportFailure(cmd.ErrOrStderr(), res, err)
		return fmt.Errorf("%w: %s", errReported, path)
	}

	if o.db != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Export.Timeout.Duration)
		defer cancel()
		if err := tablestore.Export(ctx, o.db, res.RunID, path, res.Tables); err != nil {
			return fmt.Errorf("failed to export tables: %w", err)
		}
		logger.Info("exported symbol tables", "db", o.db, "run", res.RunID)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ok (%s)\n", path, res.AST.Name)
	return nil
}

// printDumps writes the requested structures that res holds. Phases that
// never ran are skipped.
func printDumps(w io.Writer, res *compiler.Result, o checkOutput) error {
	if o.tokens && len(res.Tokens) > 0 {
		fmt.Fprintln(w, dump.Tokens(res.Tokens))
	}
	if o.tree && res.ParseTree != nil {
		fmt.Fprintln(w, dump.ParseTree(res.ParseTree))
	}
	if o.ast && res.AST != nil {
		fmt.Fprintln(w, dump.AST(res.AST))
	}
	if !o.tables || res.Tables == nil {
		return nil
	}
	if o.format == "yaml" {
		return dump.WriteYAML(w, res.Tables, res.RunID)
	}
	fmt.Fprint(w, dump.Tables(res.Tables))
	return nil
}

// reportFailure prints the diagnostics of the phase that failed.
func reportFailure(w io.Writer, res *compiler.Result, err error) {
	var (
		lexErr *lexer.Error
		semErr *semantic.Error
	)
	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintln(w, lexErr.Error())
	case errors.Is(err, compiler.ErrSyntax):
		for _, msg := range res.SyntaxErrors {
			fmt.Fprintln(w, msg)
		}
	case errors.Is(err, compiler.ErrLowering):
		for _, msg := range res.BuildErrors {
			fmt.Fprintln(w, msg)
		}
	case errors.As(err, &semErr):
		fmt.Fprintln(w, semErr.Error())
	default:
		fmt.Fprintln(w, err.Error())
	}
}
