package wizard

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

const (
	msgRequired     = "Cette information est obligatoire. Merci de donner une réponse."
	msgDateFormat   = "Je n'ai pas compris cette date. Utilise le format AAAA-MM-JJ ou JJ/MM/AAAA (ex. 2022-03-15 ou 15/03/2022)."
	msgAmountFormat = "Je n'ai pas compris ce montant. Entre un nombre, par exemple 450000 ou 450 000,00 $."
	msgAmountNeg    = "Le montant ne peut pas être négatif."
	msgAmountLarge  = "Ce montant est trop élevé. Vérifie le nombre de chiffres."
	msgTooLong      = "Cette réponse est trop longue (%d caractères maximum)."
)

// Bounds shared by the normalizers and the stored property.
const (
	MaxNameLength    = 200
	MaxAddressLength = 300
	MaxCityLength    = 120
	MaxNotesLength   = 2000
	MaxAmount        = 1e15
)

var (
	isoDatePattern      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dayFirstDatePattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
)

// fallbackDateLayouts are tried, in order, once the explicit patterns fail.
var fallbackDateLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2006/01/02",
	"2006.01.02",
}

// French month names are rewritten to English before trying the fallback layouts.
var frenchMonths = strings.NewReplacer(
	"janvier", "January",
	"février", "February",
	"fevrier", "February",
	"mars", "March",
	"avril", "April",
	"mai", "May",
	"juin", "June",
	"juillet", "July",
	"août", "August",
	"aout", "August",
	"septembre", "September",
	"octobre", "October",
	"novembre", "November",
	"décembre", "December",
	"decembre", "December",
)

// NormalizeDate converts raw into a YYYY-MM-DD string.
func NormalizeDate(raw string) Outcome {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Reject(msgDateFormat)
	}

	if isoDatePattern.MatchString(text) {
		if _, err := time.Parse(dateLayout, text); err != nil {
			return Reject(msgDateFormat)
		}
		return Accept(text)
	}

	if m := dayFirstDatePattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if !validCalendarDate(year, month, day) {
			return Reject(msgDateFormat)
		}
		return Accept(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	}

	if t, ok := parseLooseDate(text); ok {
		return Accept(t.Format(dateLayout))
	}
	return Reject(msgDateFormat)
}

func validCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// parseLooseDate is best effort only: it never sees numeric D/M/Y input,
// which is handled explicitly above.
func parseLooseDate(text string) (time.Time, bool) {
	candidate := strings.Join(strings.Fields(frenchMonths.Replace(strings.ToLower(text))), " ")
	candidate = strings.TrimPrefix(candidate, "le ")
	candidate = strings.Replace(candidate, "1er ", "1 ", 1)
	for _, layout := range fallbackDateLayouts {
		// time.Parse matches month names case-insensitively.
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeAmount converts a currency-like answer into a float64 no larger
// than MaxAmount in magnitude.
func NormalizeAmount(raw string, allowNegative bool) Outcome {
	cleaned := cleanAmount(raw)
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return Reject(msgAmountFormat)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Reject(msgAmountFormat)
	}
	if v < 0 && !allowNegative {
		return Reject(msgAmountNeg)
	}
	if math.Abs(v) > MaxAmount {
		return Reject(msgAmountLarge)
	}
	return Accept(v)
}

// cleanAmount strips spacing, currency symbols and grouping from raw, leaving
// a string strconv can parse. When both ',' and '.' appear the last one is the
// decimal separator. A lone ',' followed by one or two digits is a decimal
// comma; otherwise commas group thousands.
func cleanAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r), r == '\'', r == '’':
			continue
		case unicode.Is(unicode.Sc, r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	text := b.String()

	lastComma := strings.LastIndex(text, ",")
	lastDot := strings.LastIndex(text, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			text = strings.ReplaceAll(text, ".", "")
			text = strings.Replace(text, ",", ".", 1)
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(text, ",") == 1 && isDecimalTail(text[lastComma+1:]) {
			text = strings.Replace(text, ",", ".", 1)
		} else {
			text = strings.ReplaceAll(text, ",", "")
		}
	case strings.Count(text, ".") > 1:
		text = strings.ReplaceAll(text, ".", "")
	}

	b.Reset()
	for i, r := range text {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDecimalTail(s string) bool {
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
	}
	return digits == 1 || digits == 2
}

// NormalizeText trims raw. Mandatory fields reject blank answers and skip
// phrases. A positive maxRunes caps the trimmed length.
func NormalizeText(raw string, mandatory bool, maxRunes int) Outcome {
	text := strings.TrimSpace(raw)
	if mandatory && (text == "" || IsSkip(text)) {
		return Reject(msgRequired)
	}
	if text == "" {
		return Accept(nil)
	}
	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		return Reject(fmt.Sprintf(msgTooLong, maxRunes))
	}
	return Accept(text)
}

// Choice is one accepted value of a choice question and the answers that map to it.
type Choice struct {
	Value   string
	Label   string
	Aliases []string
}

// NormalizeChoice matches raw against the value and aliases of each choice.
func NormalizeChoice(raw string, choices []Choice) Outcome {
	text := foldAnswer(raw)
	if text != "" {
		for _, c := range choices {
			if text == foldAnswer(c.Value) || text == foldAnswer(c.Label) {
				return Accept(c.Value)
			}
			for _, alias := range c.Aliases {
				if text == foldAnswer(alias) {
					return Accept(c.Value)
				}
			}
		}
	}
	labels := make([]string, 0, len(choices))
	for _, c := range choices {
		labels = append(labels, c.Label)
	}
	return Reject("Je n'ai pas reconnu ce type. Choix possibles : " + strings.Join(labels, ", ") + ".")
}
