// Package textfilter softens model-written narration for cartridges rated
// below R.
package textfilter

import (
	"cmp"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const censored = "[censored]"

// replacements maps words to period-appropriate stand-ins. Slurs have no
// stand-in.
var replacements = map[string]string{
	"fuck":         "blast",
	"fucking":      "blasted",
	"motherfucker": "so-and-so",
	"shit":         "rot",
	"bullshit":     "hogwash",
	"horseshit":    "hooey",
	"shithead":     "heel",
	"damn":         "dang",
	"goddamn":      "gosh-darn",
	"hell":         "heck",
	"ass":          "keister",
	"asshole":      "heel",
	"jackass":      "palooka",
	"bitch":        "dame",
	"bastard":      "rat",
	"crap":         "bunk",
	"piss":         "sore",
	"dick":         "creep",
	"dickhead":     "creep",
	"prick":        "heel",
	"douchebag":    "creep",
	"whore":        censored,
	"slut":         censored,
	"cock":         censored,
	"pussy":        censored,
	"tits":         censored,
	"fag":          censored,
	"retard":       censored,
	"nigger":       censored,
	"nigga":        censored,
	"spic":         censored,
	"chink":        censored,
	"kike":         censored,
}

// ProfanityFilter replaces profanity while keeping the original casing and
// any plural "s".
type ProfanityFilter struct {
	re *regexp.Regexp
}

// NewProfanityFilter creates a new profanity filter
func NewProfanityFilter() *ProfanityFilter {
	words := slices.SortedFunc(maps.Keys(replacements), func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), strings.Compare(a, b))
	})
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &ProfanityFilter{
		re: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)(s?)\b`),
	}
}

// FilterText returns text with every listed word replaced.
func (pf *ProfanityFilter) FilterText(text string) string {
	return pf.re.ReplaceAllStringFunc(text, func(match string) string {
		m := pf.re.FindStringSubmatch(match)
		word, plural := m[1], m[2]
		repl := replacements[strings.ToLower(word)]
		if repl == censored {
			return censored
		}
		return preserveCase(word, repl) + plural
	})
}

// ContainsProfanity reports whether FilterText would change text.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	return pf.re.MatchString(text)
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, replacement string) string {
	title := cases.Title(language.English)
	switch {
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return replacement
	case title.String(strings.ToLower(original)) == original:
		return title.String(replacement)
	}
	out := []rune(replacement)
	orig := []rune(original)
	for i := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(out[i])
		}
	}
	return string(out)
}

// ShouldFilterContent reports whether narration for a rating needs cleaning.
// Only R is left alone.
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
