package wizard

// FieldKind selects how an accepted value is rendered in the summary.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindAmount
	KindChoice
)

// QuestionSpec defines one step of a wizard. Specs are built once and never mutated.
type QuestionSpec struct {
	FieldID string
	// Label names the field in the summary. Empty means FieldID.
	Label    string
	Prompt   string
	Optional bool
	Kind     FieldKind
	// Choices maps stored values back to their labels for KindChoice fields.
	Choices []Choice
	Parse   func(raw string) Outcome
}

func (q QuestionSpec) summaryLabel() string {
	if q.Label != "" {
		return q.Label
	}
	return q.FieldID
}

// Record holds the answers collected so far, keyed by field id.
// Skipped fields are absent.
type Record map[string]any

// String returns the text value stored for field.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field].(string)
	return v, ok
}

// Float returns the numeric value stored for field.
func (r Record) Float(field string) (float64, bool) {
	v, ok := r[field].(float64)
	return v, ok
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
