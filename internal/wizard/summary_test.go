package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestBuildSummary_EmptyRecord(t *testing.T) {
	out := BuildSummary(Record{})
	lines := strings.Split(out, "\n")
	questions := PropertyQuestions()
	require.Len(t, lines, len(questions)+2)
	for i, q := range questions {
		require.Equal(t, "• "+q.Label+" : "+Placeholder, lines[i+1])
	}
}

func TestBuildSummary_IsDeterministic(t *testing.T) {
	record := Record{
		FieldName:            "Duplex Ontario",
		FieldPropertyType:    "plex",
		FieldAcquisitionDate: "2022-03-15",
		FieldPurchasePrice:   450000.0,
	}
	first := BuildSummary(record)
	require.Equal(t, first, BuildSummary(record))
	require.Contains(t, first, "• Nom : Duplex Ontario")
	require.Contains(t, first, "• Type : Plex")
	require.Contains(t, first, "• Date d'acquisition : 2022-03-15")
	require.Contains(t, first, "• Ville : "+Placeholder)

	// fr-CA puts the symbol after the amount.
	line := summaryLine(t, first, "Prix d'achat")
	require.True(t, strings.HasSuffix(line, ",00 $"), line)
}

func TestSummaryBuilder_English(t *testing.T) {
	b := NewSummaryBuilder(language.English, "")
	out := b.Build(PropertyQuestions(), Record{FieldCurrentValue: 1234.5})
	require.Equal(t, "• Valeur actuelle : $1,234.50", summaryLine(t, out, "Valeur actuelle"))
}

func TestSummaryBuilder_UnknownPropertyTypeShownVerbatim(t *testing.T) {
	out := BuildSummary(Record{FieldPropertyType: "boat"})
	require.Contains(t, out, "• Type : boat")
}

func TestSummaryBuilder_UsesGivenQuestions(t *testing.T) {
	questions := []QuestionSpec{
		{FieldID: "tenant", Label: "Locataire", Prompt: "Qui?", Parse: func(raw string) Outcome { return NormalizeText(raw, true, 0) }},
		{FieldID: "rent", Label: "Loyer", Prompt: "Combien?", Kind: KindAmount, Parse: func(raw string) Outcome { return NormalizeAmount(raw, false) }},
		{FieldID: "unit", Prompt: "Quel logement?", Optional: true, Parse: func(raw string) Outcome { return NormalizeText(raw, false, 0) }},
	}
	out := defaultSummaryBuilder.Build(questions, Record{"tenant": "Marie", "rent": 950.0, FieldName: "ignored"})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, len(questions)+2)
	require.Equal(t, "• Locataire : Marie", lines[1])
	require.Equal(t, "• Loyer : 950,00 $", lines[2])
	require.Equal(t, "• unit : "+Placeholder, lines[3])
	require.NotContains(t, out, "Nom")
}

func summaryLine(t *testing.T, summary, label string) string {
	t.Helper()
	for _, line := range strings.Split(summary, "\n") {
		if strings.HasPrefix(line, "• "+label+" : ") {
			return line
		}
	}
	t.Fatalf("no summary line for %q", label)
	return ""
}
