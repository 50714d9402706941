// Package semantic resolves names, checks types and fills the symbol tables
// for a lowered program. The first error stops the analysis.
package semantic

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/scope"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

// Names resolved when no declaration shadows them. Their argument counts
// are not checked.
var builtins = map[string]bool{
	"write":   true,
	"writeln": true,
	"read":    true,
	"readln":  true,
}

type Analyzer struct {
	tables *scope.Tables
	logger *log.Logger

	// functions whose bodies are being analyzed, innermost last
	functions []int
}

type Option func(*Analyzer)

func WithLogger(logger *log.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New returns an analyzer that fills tables. A nil tables value allocates
// fresh ones.
func New(tables *scope.Tables, opts ...Option) *Analyzer {
	if tables == nil {
		tables = scope.NewTables()
	}
	a := &Analyzer{
		tables: tables,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Tables() *scope.Tables {
	return a.tables
}

// Analyze resets the tables, then checks and decorates prog. It returns the
// first *Error found; the tables keep whatever was entered before it.
func (a *Analyzer) Analyze(prog *ast.Program) (err error) {
	a.tables.Reset()
	a.functions = nil
	if prog == nil {
		return &Error{Kind: InvalidDeclaration, Message: "no program to analyze"}
	}

	defer func() {
		if r := recover(); r != nil {
			semErr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			a.logger.Debug("analysis stopped", "kind", semErr.Kind, "line", semErr.Line, "column", semErr.Column)
			err = semErr
		}
	}()

	a.visitProgram(prog)
	return nil
}

func (a *Analyzer) visitProgram(prog *ast.Program) {
	a.tables.SetProgram(prog.Name)
	a.decorate(prog, "", 0)
	a.logger.Debug("program", "name", prog.Name)

	a.visitDeclarations(prog.Declarations)

	if prog.Block != nil {
		block := a.tables.OpenScope()
		a.logger.Debug("enter block", "block", block, "level", a.tables.Level, "owner", prog.Name)
		a.visitBlockStatements(prog.Block)
		a.exitBlock(block)
	}
}

func (a *Analyzer) exitBlock(block int) {
	a.logger.Debug("exit block", "block", block, "level", a.tables.Level)
	if err := a.tables.ExitBlock(); err != nil {
		panic(err)
	}
}

func (a *Analyzer) level() int {
	return a.tables.Level
}

// decorate records the analysis results on n. A negative symbol index
// leaves the index unresolved.
func (a *Analyzer) decorate(n ast.Node, dataType string, symbolIndex int) {
	d := n.Decorated()
	d.DataType = dataType
	if symbolIndex >= 0 {
		d.SymbolIndex = symbolIndex
	}
	d.ScopeLevel = a.level()
}

func (a *Analyzer) insideFunction(idx int) bool {
	for _, f := range a.functions {
		if f == idx {
			return true
		}
	}
	return false
}

func (a *Analyzer) entry(idx int) *symbols.TabEntry {
	return a.tables.Entry(idx)
}
