package wizard

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder stands in for fields left empty.
const Placeholder = "—"

// SummaryBuilder renders a finished record as a confirmation message.
type SummaryBuilder struct {
	printer     *message.Printer
	currency    string
	symbolFirst bool
}

// NewSummaryBuilder formats amounts with the number conventions of tag,
// followed (or, for English, preceded) by currencySymbol.
func NewSummaryBuilder(tag language.Tag, currencySymbol string) *SummaryBuilder {
	currencySymbol = strings.TrimSpace(currencySymbol)
	if currencySymbol == "" {
		currencySymbol = "$"
	}
	base, _ := tag.Base()
	return &SummaryBuilder{
		printer:     message.NewPrinter(tag),
		currency:    currencySymbol,
		symbolFirst: base.String() == "en",
	}
}

var defaultSummaryBuilder = NewSummaryBuilder(language.CanadianFrench, "$")

// BuildSummary renders a property record with the default fr-CA conventions.
func BuildSummary(record Record) string {
	return defaultSummaryBuilder.Build(PropertyQuestions(), record)
}

// Build renders one line per question, in question order, using only record.
func (b *SummaryBuilder) Build(questions []QuestionSpec, record Record) string {
	lines := make([]string, 0, len(questions)+2)
	lines = append(lines, "Voici le résumé de tes réponses :")
	for _, q := range questions {
		lines = append(lines, "• "+q.summaryLabel()+" : "+b.formatField(q, record))
	}
	lines = append(lines, "Si tout est correct, tu peux confirmer pour l'enregistrer.")
	return strings.Join(lines, "\n")
}

func (b *SummaryBuilder) formatField(q QuestionSpec, record Record) string {
	if q.Kind == KindAmount {
		v, ok := record.Float(q.FieldID)
		if !ok {
			return Placeholder
		}
		return b.formatAmount(v)
	}
	v, ok := record.String(q.FieldID)
	if !ok || v == "" {
		return Placeholder
	}
	if q.Kind == KindChoice {
		for _, c := range q.Choices {
			if c.Value == v {
				return c.Label
			}
		}
	}
	return v
}

func (b *SummaryBuilder) formatAmount(v float64) string {
	amount := b.printer.Sprintf("%.2f", v)
	if b.symbolFirst {
		return b.currency + amount
	}
	return amount + " " + b.currency
}
