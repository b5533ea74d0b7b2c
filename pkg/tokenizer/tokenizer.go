// Package tokenizer provides a small token-iterator over whitespace- or
// shell-style quoted input, used to reparse a batch file's "$options" line
// into discrete flag tokens.
package tokenizer

import "strings"

// Tokenizer iterates over whitespace-separated tokens, honoring single and
// double quotes as a shell would (no escape sequences beyond the quote
// characters themselves).
type Tokenizer struct {
	input string
	pos   int
}

// New creates a tokenizer over s.
func New(s string) *Tokenizer {
	return &Tokenizer{input: s}
}

// Next returns the next token and true, or "", false at end of input.
func (t *Tokenizer) Next() (string, bool) {
	t.skipSpace()
	if t.pos >= len(t.input) {
		return "", false
	}

	var b strings.Builder
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch {
		case c == '\'' || c == '"':
			quote := c
			t.pos++
			start := t.pos
			for t.pos < len(t.input) && t.input[t.pos] != quote {
				t.pos++
			}
			b.WriteString(t.input[start:t.pos])
			if t.pos < len(t.input) {
				t.pos++ // consume closing quote
			}
		case isSpace(c):
			return b.String(), true
		default:
			b.WriteByte(c)
			t.pos++
		}
	}
	return b.String(), true
}

// All drains the tokenizer into a slice.
func (t *Tokenizer) All() []string {
	var out []string
	for {
		tok, ok := t.Next()
		if !ok {
			break
		}
		out = append(out, tok)
	}
	return out
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// SplitPath splits a batch line's "/"-delimited grammar into its parts,
// e.g. "rrset/name/example.com/A/bailiwick." -> 5 parts.
func SplitPath(s string) []string {
	return strings.Split(s, "/")
}
