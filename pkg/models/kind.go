package models

import (
	"strings"
	"unicode"
)

// KindForType classifies a provider node type into a canonical NodeKind.
// Matching is substring-based over the lower-cased type, in priority order:
// trigger/webhook first, then routing keywords, then action as the fallback.
func KindForType(nodeType string) NodeKind {
	t := strings.ToLower(nodeType)

	switch {
	case strings.Contains(t, "trigger") || strings.Contains(t, "webhook"):
		return NodeKindTrigger
	case strings.Contains(t, "if") ||
		strings.Contains(t, "switch") ||
		strings.Contains(t, "router") ||
		strings.Contains(t, "filter"):
		return NodeKindRouter
	default:
		return NodeKindAction
	}
}

// FormatLabel turns a provider node type into a human-readable label: the
// namespace prefix before the last dot is stripped, camelCase and acronym
// boundaries become spaces and each fragment is title-cased.
// "n8n-nodes-base.googleSheets" becomes "Google Sheets".
func FormatLabel(nodeType string) string {
	base := nodeType
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[idx+1:]
	}

	if base == "" {
		return ""
	}

	words := splitWords(base)
	for i, word := range words {
		words[i] = titleCase(word)
	}

	return strings.Join(words, " ")
}

// splitWords splits on camelCase transitions, acronym boundaries and
// non-alphanumeric separators.
func splitWords(s string) []string {
	var (
		words   []string
		current []rune
	)

	runes := []rune(s)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()

			continue
		}

		if unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}

		current = append(current, r)
	}

	flush()

	return words
}

func titleCase(word string) string {
	if word == strings.ToUpper(word) && len(word) > 1 {
		// Keep acronyms like HTTP intact.
		return word
	}

	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
