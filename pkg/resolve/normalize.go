// Package resolve turns a player's target phrase into an entity id, taking
// into account what the player can currently see and reach.
package resolve

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.English)

var articles = map[string]bool{"the": true, "a": true, "an": true}

// Normalize lowercases input, strips surrounding quotes, trailing
// punctuation and one leading article, and collapses whitespace.
func Normalize(input string) string {
	s := strings.TrimSpace(lower.String(input))
	s = strings.Trim(s, "\"'“”‘’`")
	s = strings.TrimRight(s, ".!?,;:")
	words := strings.Fields(s)
	if len(words) > 0 && articles[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}
