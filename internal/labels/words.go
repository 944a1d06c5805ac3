package labels

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CloudMarker prefixes the messages that belong on the sphere.
const CloudMarker = "☁"

// Whitespace covers the Unicode space separators as well as ASCII \s, so words
// joined by a no-break space stay apart.
var (
	markerPattern   = regexp.MustCompile(`^` + CloudMarker + `[\s\p{Zs}\x{FEFF}\x{2028}\x{2029}]*`)
	disallowPattern = regexp.MustCompile(`[^\w\s\p{Zs}\x{FEFF}\x{2028}\x{2029}\x{0600}-\x{06FF}]`)
)

// ExtractCloudWords keeps the marked messages, strips the marker and punctuation
// and drops duplicates. Order of first appearance is kept.
func ExtractCloudWords(messages []string) []string {
	words := []string{}
	seen := map[string]struct{}{}

	for _, message := range messages {
		if !strings.HasPrefix(message, CloudMarker) || utf8.RuneCountInString(message) <= 2 {
			continue
		}

		word := markerPattern.ReplaceAllString(message, "")
		word = disallowPattern.ReplaceAllString(word, "")
		word = strings.TrimFunc(word, isSpace)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Merge concatenates label lists, skipping blank labels and repeats.
func Merge(lists ...[]string) []string {
	merged := []string{}
	seen := map[string]struct{}{}
	for _, list := range lists {
		for _, label := range list {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			merged = append(merged, label)
		}
	}
	return merged
}
