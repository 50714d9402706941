package lexer

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arnavsurve/kompas/internal/compiler/token"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rules describes the vocabulary the lexer recognizes. Word-shaped tokens
// (identifiers, numbers, quoted text) are scanned by the built-in automaton;
// the rules decide how words and punctuation are classified.
type Rules struct {
	Keywords                []string                   `yaml:"keywords"`
	LogicalOperators        []string                   `yaml:"logical_operators"`
	ArithmeticWordOperators []string                   `yaml:"arithmetic_word_operators"`
	MultiCharTokens         map[string]token.TokenType `yaml:"multi_char_tokens"`
	SingleCharTokens        map[string]token.TokenType `yaml:"single_char_tokens"`

	keywords   map[string]bool
	logical    map[string]bool
	arithWords map[string]bool
	hyphenated []string
}

// DefaultRules returns the embedded rule set.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("lexer: embedded rules are invalid: %v", err))
	}
	return r
}

// LoadRules reads a rule description from disk.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexer rules: %w", err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse lexer rules: %w", err)
	}
	if err := r.compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rules) compile() error {
	if len(r.Keywords) == 0 {
		return fmt.Errorf("lexer rules: no keywords defined")
	}
	for lexeme := range r.SingleCharTokens {
		if len(lexeme) != 1 {
			return fmt.Errorf("lexer rules: single_char_tokens entry %q is not one character", lexeme)
		}
	}
	for lexeme := range r.MultiCharTokens {
		if len(lexeme) < 2 {
			return fmt.Errorf("lexer rules: multi_char_tokens entry %q is too short", lexeme)
		}
	}

	r.keywords = toSet(r.Keywords)
	r.logical = toSet(r.LogicalOperators)
	r.arithWords = toSet(r.ArithmeticWordOperators)
	r.hyphenated = nil
	for kw := range r.keywords {
		if strings.Contains(kw, "-") {
			r.hyphenated = append(r.hyphenated, kw)
		}
	}
	// Longest first so "turun-ke" style keywords never lose to a shorter prefix.
	slices.SortFunc(r.hyphenated, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return nil
}

func (r *Rules) classifyWord(word string) (token.TokenType, string) {
	lower := strings.ToLower(word)
	switch {
	case r.keywords[lower]:
		return token.KEYWORD, lower
	case r.logical[lower]:
		return token.LOGICAL_OPERATOR, lower
	case r.arithWords[lower]:
		return token.ARITHMETIC_OPERATOR, lower
	}
	return token.IDENTIFIER, word
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}
