package stages

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	jsonBlockPattern    = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	mermaidBlockPattern = regexp.MustCompile("(?s)```mermaid\\s*(.*?)```")
)

// ExtractJSONBlock finds the first fenced json code block in text. It
// returns the block payload, the surrounding text with the block removed,
// and whether a block was found. Later blocks are ignored.
func ExtractJSONBlock(text string) (payload, remainder string, ok bool) {
	loc := jsonBlockPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}

	payload = strings.TrimSpace(text[loc[2]:loc[3]])
	remainder = strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return payload, remainder, true
}

// ExtractMermaidBlock returns the payload of the first fenced mermaid block
// in text, or "" when there is none.
func ExtractMermaidBlock(text string) string {
	m := mermaidBlockPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParseFilterIndices parses a human reply like "1, 3 5" into zero-based
// indices within [0, count). Duplicates collapse and order follows the
// reply. The second return is false when no usable index was found, which
// callers treat as "keep everything".
func ParseFilterIndices(reply string, count int) ([]int, bool) {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	seen := make(map[int]bool)
	var indices []int
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		idx := n - 1
		if idx < 0 || idx >= count || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}

	if len(indices) == 0 {
		return nil, false
	}
	return indices, true
}

// parseSelection parses a one-based selection like "2" into a zero-based
// index, falling back to 0 on anything unusable.
func parseSelection(reply string, count int) int {
	n, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil || n < 1 || n > count {
		return 0
	}
	return n - 1
}
