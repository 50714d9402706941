package semantic

import (
	"fmt"

	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// Kind classifies a semantic error.
type Kind int

const (
	UndefinedIdentifier Kind = iota + 1
	DuplicateDeclaration
	TypeMismatch
	InvalidArrayIndex
	NotAnArray
	WrongArity
	InvalidLoopCounter
	AssignToConstant
	NonBooleanCondition
	UninitializedVariable
	NotCallable
	InvalidDeclaration
)

var kindNames = map[Kind]string{
	UndefinedIdentifier:   "UndefinedIdentifier",
	DuplicateDeclaration:  "DuplicateDeclaration",
	TypeMismatch:          "TypeMismatch",
	InvalidArrayIndex:     "InvalidArrayIndex",
	NotAnArray:            "NotAnArray",
	WrongArity:            "WrongArity",
	InvalidLoopCounter:    "InvalidLoopCounter",
	AssignToConstant:      "AssignToConstant",
	NonBooleanCondition:   "NonBooleanCondition",
	UninitializedVariable: "UninitializedVariable",
	NotCallable:           "NotCallable",
	InvalidDeclaration:    "InvalidDeclaration",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a semantic finding. Analyze returns the first one.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: Semantic Error: %s", e.Line, e.Column, e.Message)
}

// fail aborts the analysis. Analyze turns the panic back into an error.
func (a *Analyzer) fail(kind Kind, tok token.Token, format string, args ...any) {
	panic(&Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	})
}
