// Package normalize cleans raw column values before conversion.
package normalize

import (
	"strings"

	"github.com/gyeh/tempinfer/internal/temporal"
)

var defaultNullTokens = []string{"", "NA", "N/A", "null", "NULL"}

// DefaultNullTokens returns the tokens treated as missing when none are
// configured.
func DefaultNullTokens() []string {
	out := make([]string, len(defaultNullTokens))
	copy(out, defaultNullTokens)
	return out
}

// NullTokens is a set of raw values that mean "missing".
type NullTokens map[string]struct{}

// NewNullTokens builds a token set. Tokens are compared after trimming
// surrounding whitespace.
func NewNullTokens(tokens []string) NullTokens {
	set := make(NullTokens, len(tokens))
	for _, t := range tokens {
		set[strings.TrimSpace(t)] = struct{}{}
	}
	return set
}

// IsNull reports whether s is one of the tokens.
func (n NullTokens) IsNull(s string) bool {
	_, ok := n[strings.TrimSpace(s)]
	return ok
}

// Clean wraps col so that values are whitespace-trimmed and null tokens read
// as null. The underlying column is not copied.
func (n NullTokens) Clean(col temporal.StringColumn) temporal.StringColumn {
	return cleaned{col: col, tokens: n}
}

type cleaned struct {
	col    temporal.StringColumn
	tokens NullTokens
}

func (c cleaned) Len() int { return c.col.Len() }

func (c cleaned) IsNull(i int) bool {
	return c.col.IsNull(i) || c.tokens.IsNull(c.col.Value(i))
}

func (c cleaned) Value(i int) string { return strings.TrimSpace(c.col.Value(i)) }
