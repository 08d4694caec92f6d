package wizard

// Outcome is the result of interpreting one raw answer for one field.
// A rejected outcome carries a user-facing message; an accepted outcome
// carries a value, which is nil when the field is left empty.
type Outcome struct {
	Value    any
	Note     string
	Message  string
	rejected bool
}

// Accept returns an accepted outcome holding v.
func Accept(v any) Outcome {
	return Outcome{Value: v}
}

// AcceptWithNote returns an accepted outcome with an acknowledgement message.
func AcceptWithNote(v any, note string) Outcome {
	return Outcome{Value: v, Note: note}
}

// Omit returns an accepted outcome that leaves the field empty.
func Omit(note string) Outcome {
	return Outcome{Note: note}
}

// Reject returns an outcome that keeps the wizard on the current question.
func Reject(message string) Outcome {
	return Outcome{Message: message, rejected: true}
}

// Rejected reports whether the answer was refused.
func (o Outcome) Rejected() bool {
	return o.rejected
}
