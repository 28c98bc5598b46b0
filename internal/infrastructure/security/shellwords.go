package security

import (
	"errors"
	"strings"
	"unicode"
)

var (
	errUnbalancedQuote = errors.New("unbalanced quote")
	errTrailingEscape  = errors.New("trailing escape character")
)

// splitWords splits a command line into words, honoring single and double
// quotes and backslash escapes. Malformed input is an error so the filter
// rejects commands it cannot parse instead of guessing.
func splitWords(command string) ([]string, error) {
	var words []string
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	pending := false

	for _, ch := range command {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && !inSingle:
			escaped = true
			pending = true
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			pending = true
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			pending = true
		case !inSingle && !inDouble && unicode.IsSpace(ch):
			if pending {
				words = append(words, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(ch)
			pending = true
		}
	}

	if escaped {
		return nil, errTrailingEscape
	}
	if inSingle || inDouble {
		return nil, errUnbalancedQuote
	}
	if pending {
		words = append(words, current.String())
	}
	return words, nil
}
