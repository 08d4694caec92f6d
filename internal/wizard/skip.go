package wizard

import (
	"strings"

	"golang.org/x/text/cases"
)

// SkipPhrase is the answer SkipCurrent submits on the user's behalf.
const SkipPhrase = "passer"

// skipPhrases are matched against the case-folded answer, both exactly and as
// substrings. Containment lets "euh, je ne sais pas" count as a skip; it also
// means a longer answer that happens to contain one of these is treated as a
// skip.
var skipPhrases = []string{
	"passer",
	"skip",
	"n/a",
	"je ne sais pas",
	"je sais pas",
	"sais pas",
	"aucune idée",
	"don't know",
	"dont know",
	"not sure",
	"pas sûr",
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// IsSkip reports whether raw should be read as an intentional omission.
// Blank input is always a skip.
func IsSkip(raw string) bool {
	text := foldAnswer(raw)
	if text == "" {
		return true
	}
	for _, phrase := range skipPhrases {
		if text == phrase || strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// foldAnswer trims and case-folds an answer for comparison purposes.
// A fresh Caser is used per call since Casers are not safe for concurrent use.
func foldAnswer(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	return apostrophes.Replace(cases.Fold().String(text))
}
