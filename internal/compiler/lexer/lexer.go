package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// Error is the lexical error carried by the ERROR token that ends a stream.
type Error struct {
	Text   string
	Reason string
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: Lexical Error: %s %q", e.Line, e.Column, e.Reason, e.Text)
}

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)

	rules *Rules
	err   *Error
	done  bool
}

// New returns a lexer over input. A nil rules value selects the embedded
// default rules.
func New(input string, rules *Rules) *Lexer {
	if rules == nil {
		rules = DefaultRules()
	}
	l := &Lexer{input: input, line: 1, column: 0, rules: rules}
	l.readChar()
	return l
}

// readChar advances to the next character, keeping line and column pointed
// at the current one.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NULL (EOF)
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Err returns the lexical error that stopped scanning, if any.
func (l *Lexer) Err() *Error {
	return l.err
}

// NextToken returns the next token. After an ERROR or EOF token every
// further call returns EOF.
func (l *Lexer) NextToken() token.Token {
	if l.done {
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}
	}

	if tok, ok := l.skipTrivia(); !ok {
		return tok
	}

	startLine, startCol := l.line, l.column
	if l.atEOF() {
		l.done = true
		return token.Token{Type: token.EOF, Line: startLine, Column: startCol}
	}

	switch {
	case l.ch == '\'':
		return l.readQuoted()
	case isLetter(l.ch) || isDigit(l.ch) || l.ch == '_':
		return l.readWord()
	}

	if l.readPosition < len(l.input) {
		two := l.input[l.position : l.readPosition+1]
		if typ, ok := l.rules.MultiCharTokens[two]; ok {
			l.readChar()
			l.readChar()
			return token.Token{Type: typ, Literal: two, Line: startLine, Column: startCol}
		}
	}
	one := string(l.ch)
	if typ, ok := l.rules.SingleCharTokens[one]; ok {
		l.readChar()
		return token.Token{Type: typ, Literal: one, Line: startLine, Column: startCol}
	}

	return l.fail(one, "unrecognized character", startLine, startCol)
}

// Tokenize scans the whole input. The returned slice ends with EOF on
// success or with the ERROR token on failure.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		switch tok.Type {
		case token.EOF:
			return toks, nil
		case token.ERROR:
			return toks, l.err
		}
	}
}

// skipTrivia consumes whitespace and comments. It returns ok=false with an
// ERROR token when a comment is left open.
func (l *Lexer) skipTrivia() (token.Token, bool) {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '{':
			line, col := l.line, l.column
			for !l.atEOF() && l.ch != '}' {
				l.readChar()
			}
			if l.atEOF() {
				return l.fail("{", "unterminated comment", line, col), false
			}
			l.readChar()
		case l.ch == '(' && l.peekChar() == '*':
			line, col := l.line, l.column
			l.readChar()
			l.readChar()
			for !l.atEOF() && !(l.ch == '*' && l.peekChar() == ')') {
				l.readChar()
			}
			if l.atEOF() {
				return l.fail("(*", "unterminated comment", line, col), false
			}
			l.readChar()
			l.readChar()
		default:
			return token.Token{}, true
		}
	}
	return token.Token{}, true
}

// readQuoted scans '...' with '' standing for one quote character.
func (l *Lexer) readQuoted() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // opening quote

	var sb strings.Builder
	for {
		if l.atEOF() || l.ch == '\n' {
			return l.fail("'"+sb.String(), "unterminated string", startLine, startCol)
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				sb.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}

	text := sb.String()
	typ := token.STRING_LITERAL
	// one character, not one byte
	if utf8.RuneCountInString(text) == 1 {
		typ = token.CHAR_LITERAL
	}
	return token.Token{Type: typ, Literal: text, Line: startLine, Column: startCol}
}

// readWord runs the word automaton and classifies the accepted lexeme.
func (l *Lexer) readWord() token.Token {
	startLine, startCol := l.line, l.column
	start := l.position

	n, state := scanWord(l.input[start:])
	if n == 0 {
		return l.fail(string(l.ch), "malformed word", startLine, startCol)
	}

	if state == stateIdent && start+n < len(l.input) && l.input[start+n] == '-' {
		if kw := l.matchHyphenated(start); kw > 0 {
			n = kw
		}
	}

	word := l.input[start : start+n]
	for i := 0; i < n; i++ {
		l.readChar()
	}

	if state != stateIdent {
		return token.Token{Type: token.NUMBER, Literal: word, Line: startLine, Column: startCol}
	}
	typ, lexeme := l.rules.classifyWord(word)
	return token.Token{Type: typ, Literal: lexeme, Line: startLine, Column: startCol}
}

func (l *Lexer) matchHyphenated(start int) int {
	for _, kw := range l.rules.hyphenated {
		end := start + len(kw)
		if end > len(l.input) || !strings.EqualFold(l.input[start:end], kw) {
			continue
		}
		if end < len(l.input) && isIdentChar(l.input[end]) {
			continue
		}
		return len(kw)
	}
	return 0
}

func (l *Lexer) fail(text, reason string, line, col int) token.Token {
	l.err = &Error{Text: text, Reason: reason, Line: line, Column: col}
	l.done = true
	return token.Token{Type: token.ERROR, Literal: text, Line: line, Column: col}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}
