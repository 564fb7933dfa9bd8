package query

import (
	"strings"
	"unicode"
)

// CountTokens provides a simple token count approximation for section text,
// used to size sections for LLM context windows.
// This approximation uses ~1.3 tokens per word plus punctuation.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}

	// Count words and punctuation as rough token estimate
	// Most tokenizers produce ~1.3 tokens per word on average
	words := strings.Fields(text)
	wordCount := len(words)

	// Add extra for punctuation (typically separate tokens)
	punctCount := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punctCount++
		}
	}

	// Approximate: words * 1.3 + punctuation
	return int(float64(wordCount)*1.3) + punctCount/2
}

// CountWords returns the number of whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
