// Package compiler runs the front-end phases over one source program: lexing,
// parsing, lowering to the AST and semantic analysis.
package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/astbuilder"
	"github.com/arnavsurve/kompas/internal/compiler/lexer"
	"github.com/arnavsurve/kompas/internal/compiler/parser"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/scope"
	"github.com/arnavsurve/kompas/internal/compiler/semantic"
	"github.com/arnavsurve/kompas/internal/compiler/token"
	"github.com/arnavsurve/kompas/internal/logging"
)

// SourceExt is the required extension of source files.
const SourceExt = ".pas"

// Phase errors. Compile wraps exactly one of them.
var (
	ErrLexical  = errors.New("lexical error")
	ErrSyntax   = errors.New("syntax error")
	ErrLowering = errors.New("ast construction failed")
	ErrSemantic = errors.New("semantic error")
)

// Stage selects the last phase Compile runs. The zero value runs all of
// them.
type Stage int

const (
	StageSemantic Stage = iota
	StageTokens
	StageParse
	StageAST
)

type Options struct {
	// Token rules; nil means the built-in rules.
	Rules  *lexer.Rules
	Logger *log.Logger
	// RunID tags log lines and exports. A new UUID is used when empty.
	RunID string
	// Stop after this phase.
	Until Stage
}

// Result holds whatever the phases produced, also when one of them failed.
type Result struct {
	RunID        string
	Path         string
	Tokens       []token.Token
	ParseTree    *parsetree.Node
	SyntaxErrors []string
	AST          *ast.Program
	BuildErrors  []string
	Tables       *scope.Tables
}

// CompileFile validates the extension of path, reads it and compiles it.
func CompileFile(path string, opts Options) (*Result, error) {
	if err := validateExtension(path); err != nil {
		return nil, err
	}

	content, err := readSource(path)
	if err != nil {
		return nil, err
	}

	res, err := Compile(content, opts)
	if res != nil {
		res.Path = path
	}
	return res, err
}

func validateExtension(path string) error {
	if filepath.Ext(path) != SourceExt {
		return fmt.Errorf("source must have %s extension", SourceExt)
	}
	return nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(b), nil
}

// Compile runs the phases over src up to opts.Until. The returned error
// wraps the sentinel of the failing phase.
func Compile(src string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	res := &Result{RunID: opts.RunID}
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}
	logger = logger.With("run", res.RunID)

	toks, lexErr := lexer.New(src, opts.Rules).Tokenize()
	res.Tokens = toks
	logger.Debug("lexed", "tokens", len(toks))
	if lexErr == nil && opts.Until == StageTokens {
		return res, nil
	}

	root, syntaxErrs, fatal := parseProgram(toks)
	res.ParseTree = root
	res.SyntaxErrors = syntaxErrs
	if lexErr != nil {
		logger.Debug("lexing failed", "err", lexErr)
		return res, fmt.Errorf("%w: %w", ErrLexical, lexErr)
	}
	if fatal != nil || len(syntaxErrs) > 0 {
		logger.Debug("parsing failed", "errors", len(syntaxErrs))
		return res, fmt.Errorf("%w: %s", ErrSyntax, strings.Join(syntaxErrs, "; "))
	}
	logger.Debug("parsed")
	if opts.Until == StageParse {
		return res, nil
	}

	prog, diags := astbuilder.Build(root)
	res.AST = prog
	res.BuildErrors = diags
	if len(diags) > 0 || prog == nil {
		logger.Debug("lowering failed", "errors", len(diags))
		return res, fmt.Errorf("%w: %s", ErrLowering, strings.Join(diags, "; "))
	}
	logger.Debug("lowered", "program", prog.Name)
	if opts.Until == StageAST {
		return res, nil
	}

	analyzer := semantic.New(nil, semantic.WithLogger(logger))
	err := analyzer.Analyze(prog)
	res.Tables = analyzer.Tables()
	if err != nil {
		logger.Debug("analysis failed", "err", err)
		return res, fmt.Errorf("%w: %w", ErrSemantic, err)
	}
	logger.Debug("compiled", "program", prog.Name, "symbols", len(res.Tables.Tab))
	return res, nil
}

// parseProgram parses toks. A fatal condition is also listed in the
// returned errors.
func parseProgram(toks []token.Token) (*parsetree.Node, []string, error) {
	p := parser.New(toks)
	root, err := p.ParseProgram()
	return root, p.Errors(), err
}
