// Package code provides fenced-block extraction and lightweight language
// analysis for model replies and user snippets.
package code

import (
	"regexp"
	"strings"

	"codehelper/internal/domain"
)

// fencedBlock matches ``` with an optional language tag, a newline, the
// body, and a closing fence on its own line. Inline mentions of ``` with
// no interior newline never match.
var fencedBlock = regexp.MustCompile("```(\\w+)?[ \\t]*\\n([\\s\\S]*?)\\n```")

// ExtractBlocks returns every fenced block in document order. Bodies are
// trimmed; the language tag may be empty. The first block is treated as
// "the" code by callers that save a single artifact.
func ExtractBlocks(text string) []domain.CodeBlock {
	matches := fencedBlock.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]domain.CodeBlock, 0, len(matches))
	for _, match := range matches {
		blocks = append(blocks, domain.CodeBlock{
			Language: strings.TrimSpace(match[1]),
			Body:     strings.TrimSpace(match[2]),
		})
	}
	return blocks
}

// FirstBlock returns the first fenced block, if any.
func FirstBlock(text string) (domain.CodeBlock, bool) {
	blocks := ExtractBlocks(text)
	if len(blocks) == 0 {
		return domain.CodeBlock{}, false
	}
	return blocks[0], true
}

// InlineCode pulls the content between the first pair of triple backticks
// using plain string search, the way request parsing expects it: the fence
// tag line, if present, stays part of the content. It also returns the text
// after the closing fence for callers that read goals or instructions from
// the request tail.
func InlineCode(text string) (body string, tail string, ok bool) {
	start := strings.Index(text, "```")
	if start == -1 {
		return "", "", false
	}
	end := strings.Index(text[start+3:], "```")
	if end == -1 {
		return "", "", false
	}
	end += start + 3
	body = strings.TrimSpace(text[start+3 : end])
	tail = strings.TrimSpace(text[end+3:])
	return body, tail, true
}
