package shell

import (
	"fmt"
	"strings"
)

const (
	DefaultMaxLineLength = 1024
	DefaultMaxTokens     = 64
)

// Limits bounds the size of a single input line. Zero values are unlimited.
type Limits struct {
	// MaxLineLength is the maximum line length in bytes.
	MaxLineLength int
	// MaxTokens is the maximum number of tokens in a line, operators included.
	MaxTokens int
}

// DefaultLimits returns the limits nsh uses when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxLineLength: DefaultMaxLineLength,
		MaxTokens:     DefaultMaxTokens,
	}
}

// Tokenize splits line on the space character. Runs of spaces don't produce
// empty tokens. Other whitespace, such as tabs, is part of a token.
func Tokenize(line string, limits Limits) ([]string, error) {
	if limits.MaxLineLength > 0 && len(line) > limits.MaxLineLength {
		return nil, fmt.Errorf("%w: line is %d bytes long, the maximum is %d", ErrLimitExceeded, len(line), limits.MaxLineLength)
	}

	var tokens []string
	for _, tok := range strings.Split(line, " ") {
		if tok == "" {
			continue
		}
		if limits.MaxTokens > 0 && len(tokens) == limits.MaxTokens {
			return nil, fmt.Errorf("%w: more than %d tokens", ErrLimitExceeded, limits.MaxTokens)
		}
		tokens = append(tokens, tok)
	}

	return tokens, nil
}
