package book

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Resolve matches user input against book names and abbreviations.
//
// Matching is attempted from strictest to loosest: exact name, case-folded
// name or abbreviation, then case-folded with diacritics and spaces
// removed. The accent-sensitive pass runs first so that "Jó" (Job) and
// "Jo" (John) stay distinct.
func Resolve(input string) (Info, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Info{}, fmt.Errorf("%w: empty name", ErrUnknownBook)
	}

	if b, err := Lookup(input); err == nil {
		return b, nil
	}

	caseFolded := fold(input)
	for _, b := range books {
		if fold(b.Name) == caseFolded || fold(b.Abbreviation) == caseFolded {
			return b, nil
		}
	}

	loose := looseKey(input)
	for _, b := range books {
		if looseKey(b.Name) == loose || looseKey(b.Abbreviation) == loose {
			return b, nil
		}
	}

	return Info{}, fmt.Errorf("%w: %q", ErrUnknownBook, input)
}

// looseKey folds case, strips combining marks and drops whitespace.
func looseKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(fold(stripped)), "")
}

// fold applies Unicode case folding. Casers carry state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
