package wizard

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"property-wizard/internal/domain"
)

const (
	// EmptyAnswerPlaceholder is recorded in the transcript for a blank answer.
	EmptyAnswerPlaceholder = "[réponse vide]"
	// SkipAcknowledgement is the note appended when an optional field is skipped.
	SkipAcknowledgement = "D'accord, on laisse ce champ vide pour l'instant."
)

// State is a snapshot of a conversation. Snapshots are copies; mutating one
// does not affect the wizard.
type State struct {
	Step       int
	Total      int
	Record     Record
	Transcript []domain.TranscriptEntry
	Completed  bool
}

// Wizard is a linear, single-pass question/answer state machine.
// Calls are serialized internally; each Submit or SkipCurrent is one transition.
type Wizard struct {
	questions []QuestionSpec
	intro     string
	summary   *SummaryBuilder

	mu         sync.Mutex
	started    bool
	step       int
	record     Record
	transcript []domain.TranscriptEntry
	completed  bool
}

type Option func(*Wizard)

// WithIntro sets the assistant message emitted before the first question.
func WithIntro(text string) Option {
	return func(w *Wizard) {
		w.intro = strings.TrimSpace(text)
	}
}

// WithSummaryBuilder replaces the default fr-CA summary formatting.
func WithSummaryBuilder(b *SummaryBuilder) Option {
	return func(w *Wizard) {
		if b != nil {
			w.summary = b
		}
	}
}

// New validates questions and returns a wizard ready to Start.
func New(questions []QuestionSpec, opts ...Option) (*Wizard, error) {
	if len(questions) == 0 {
		return nil, errors.New("wizard: at least one question is required")
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.FieldID) == "" {
			return nil, fmt.Errorf("wizard: question %d: field id must not be empty", i)
		}
		if _, dup := seen[q.FieldID]; dup {
			return nil, fmt.Errorf("wizard: question %d: duplicate field id %q", i, q.FieldID)
		}
		seen[q.FieldID] = struct{}{}
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("wizard: question %q: prompt must not be empty", q.FieldID)
		}
		if q.Parse == nil {
			return nil, fmt.Errorf("wizard: question %q: parse func must not be nil", q.FieldID)
		}
	}
	w := &Wizard{
		questions: append([]QuestionSpec(nil), questions...),
		summary:   defaultSummaryBuilder,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start resets the conversation and emits the intro and first prompt.
func (w *Wizard) Start() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.started = true
	w.step = 0
	w.record = Record{}
	w.transcript = nil
	w.completed = false

	if w.intro != "" {
		w.say(domain.RoleAssistant, w.intro)
	}
	w.say(domain.RoleAssistant, w.questions[0].Prompt)
	return w.snapshot()
}

// Submit applies raw as the answer to the current question. It is a no-op
// once the conversation is completed.
func (w *Wizard) Submit(raw string) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.mustBeStarted()
	if w.completed {
		return w.snapshot()
	}
	w.apply(raw)
	return w.snapshot()
}

// SkipCurrent submits the skip phrase. Mandatory questions still reject it.
func (w *Wizard) SkipCurrent() State {
	return w.Submit(SkipPhrase)
}

// Completed reports whether every question has been answered.
func (w *Wizard) Completed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.completed
}

// State returns a snapshot of the conversation.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

// Questions returns the question table the wizard runs.
func (w *Wizard) Questions() []QuestionSpec {
	return append([]QuestionSpec(nil), w.questions...)
}

func (w *Wizard) apply(raw string) {
	q := w.current()

	if strings.TrimSpace(raw) == "" {
		w.say(domain.RoleUser, EmptyAnswerPlaceholder)
	} else {
		w.say(domain.RoleUser, raw)
	}

	var out Outcome
	if q.Optional && IsSkip(raw) {
		out = Omit(SkipAcknowledgement)
	} else {
		out = q.Parse(raw)
	}

	if out.Rejected() {
		w.say(domain.RoleAssistant, out.Message)
		return
	}

	if out.Value == nil {
		delete(w.record, q.FieldID)
	} else {
		w.record[q.FieldID] = out.Value
	}
	if out.Note != "" {
		w.say(domain.RoleAssistant, out.Note)
	}

	w.step++
	if w.step < len(w.questions) {
		w.say(domain.RoleAssistant, w.questions[w.step].Prompt)
		return
	}
	w.say(domain.RoleSummary, w.summary.Build(w.questions, w.record))
	w.completed = true
}

func (w *Wizard) current() QuestionSpec {
	if w.step < 0 || w.step >= len(w.questions) {
		panic(fmt.Sprintf("wizard: step %d out of range [0,%d)", w.step, len(w.questions)))
	}
	return w.questions[w.step]
}

func (w *Wizard) mustBeStarted() {
	if !w.started {
		panic("wizard: Submit called before Start")
	}
}

func (w *Wizard) say(role domain.Role, text string) {
	w.transcript = append(w.transcript, domain.TranscriptEntry{Role: role, Text: text})
}

func (w *Wizard) snapshot() State {
	transcript := make([]domain.TranscriptEntry, len(w.transcript))
	copy(transcript, w.transcript)
	return State{
		Step:       w.step,
		Total:      len(w.questions),
		Record:     w.record.clone(),
		Transcript: transcript,
		Completed:  w.completed,
	}
}

// IsCompleted reports whether s is a finished conversation.
func IsCompleted(s State) bool {
	return s.Completed
}
