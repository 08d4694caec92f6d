package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"property-wizard/internal/domain"
	"property-wizard/internal/wizard"
)

const (
	defaultMaxAnswer  = 300
	defaultMaxHistory = 60
)

type ParamGetter interface {
	GetParameters(ctx context.Context, names []string) (map[string]string, error)
}

type Moderator interface {
	Moderate(ctx context.Context, inputs ...string) (bool, error)
}

type PropertyStore interface {
	SaveProperty(ctx context.Context, p domain.Property, transcript []domain.TranscriptEntry) error
	GetProperty(ctx context.Context, id string) (domain.Property, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

type TurnAction string

const (
	ActionStart  TurnAction = "start"
	ActionAnswer TurnAction = "answer"
	ActionSkip   TurnAction = "skip"
)

// WizardService runs the property wizard one request at a time. Nothing about
// an unfinished conversation is stored: each turn replays History through a
// fresh wizard before applying the new action.
type WizardService struct {
	params       ParamGetter
	moderator    Moderator
	store        PropertyStore
	paramPrefix  string
	maxAnswerLen int
	maxHistory   int
	validate     *validator.Validate

	cacheMu     sync.RWMutex
	cacheLoaded bool
	summary     *wizard.SummaryBuilder
}

type TurnInput struct {
	Action         TurnAction
	ConversationID string
	History        []string
	Input          string
}

type TurnOutput struct {
	ConversationID string
	Step           int
	TotalSteps     int
	Completed      bool
	Transcript     []domain.TranscriptEntry
	History        []string
	Property       *domain.Property
	Saved          bool
}

func NewWizardService(p ParamGetter, m Moderator, s PropertyStore, paramPrefix string, maxAnswerLen, maxHistory int) (*WizardService, error) {
	if p == nil {
		return nil, errors.New("usecase: param getter must not be nil")
	}
	if m == nil {
		return nil, errors.New("usecase: moderator must not be nil")
	}
	if s == nil {
		return nil, errors.New("usecase: property store must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("usecase: parameter prefix must not be empty")
	}
	if maxAnswerLen <= 0 {
		maxAnswerLen = defaultMaxAnswer
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &WizardService{
		params:       p,
		moderator:    m,
		store:        s,
		paramPrefix:  paramPrefix,
		maxAnswerLen: maxAnswerLen,
		maxHistory:   maxHistory,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (s *WizardService) Turn(ctx context.Context, in TurnInput) (TurnOutput, error) {
	if err := s.validateTurn(in); err != nil {
		return TurnOutput{}, err
	}
	if err := s.ensureConfig(ctx); err != nil {
		return TurnOutput{}, newError(ErrorInternal, "ssm_load_error", err)
	}

	var convID string
	if in.Action == ActionStart {
		convID = newUUID()
	} else {
		id, err := uuid.Parse(strings.TrimSpace(in.ConversationID))
		if err != nil {
			return TurnOutput{}, newError(ErrorInvalidInput, "invalid_conversation_id", err)
		}
		convID = id.String()
	}

	w := wizard.NewPropertyWizard(wizard.WithSummaryBuilder(s.summary))
	state := w.Start()
	history := make([]string, 0, len(in.History)+1)
	if in.Action != ActionStart {
		for _, h := range in.History {
			state = w.Submit(h)
			history = append(history, h)
		}
	}
	alreadyCompleted := state.Completed

	if !alreadyCompleted {
		if err := s.moderate(ctx, in); err != nil {
			return TurnOutput{}, err
		}
	}

	switch in.Action {
	case ActionAnswer:
		state = w.Submit(in.Input)
		if !alreadyCompleted {
			history = append(history, in.Input)
		}
	case ActionSkip:
		state = w.SkipCurrent()
		if !alreadyCompleted {
			history = append(history, wizard.SkipPhrase)
		}
	}

	out := TurnOutput{
		ConversationID: convID,
		Step:           state.Step,
		TotalSteps:     state.Total,
		Completed:      state.Completed,
		Transcript:     state.Transcript,
		History:        history,
	}
	if !state.Completed {
		return out, nil
	}

	property := propertyFromRecord(convID, state.Record)
	out.Property = &property
	if alreadyCompleted {
		return out, nil
	}

	if err := s.validate.Struct(property); err != nil {
		return TurnOutput{}, newError(ErrorInternal, "property_validation_error", err)
	}
	if err := s.save(ctx, property, state.Transcript); err != nil {
		return TurnOutput{}, err
	}
	out.Saved = true
	return out, nil
}

// moderate screens the client-held history and the new answer in one call.
// Skip phrases are never sent.
func (s *WizardService) moderate(ctx context.Context, in TurnInput) error {
	inputs := make([]string, 0, len(in.History)+1)
	for _, h := range in.History {
		if !wizard.IsSkip(h) {
			inputs = append(inputs, strings.TrimSpace(h))
		}
	}
	if in.Action == ActionAnswer && !wizard.IsSkip(in.Input) {
		inputs = append(inputs, strings.TrimSpace(in.Input))
	}
	if len(inputs) == 0 {
		return nil
	}

	flagged, err := s.moderator.Moderate(ctx, inputs...)
	if err != nil {
		if status, ok := upstreamStatusCode(err); ok && status == 429 {
			return newError(ErrorRateLimited, "moderation_rate_limited", err)
		}
		return newError(ErrorUpstream, "moderation_error", err)
	}
	if flagged {
		return newError(ErrorInvalidAnswer, "moderation_flagged", nil)
	}
	return nil
}

// save writes a completed property. A property already stored under the same
// id counts as saved only when it holds the same answers.
func (s *WizardService) save(ctx context.Context, property domain.Property, transcript []domain.TranscriptEntry) error {
	err := s.store.SaveProperty(ctx, property, transcript)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrPropertyExists) {
		return newError(ErrorInternal, "dynamodb_write_error", err)
	}

	stored, getErr := s.store.GetProperty(ctx, property.ID)
	if getErr != nil {
		return newError(ErrorInternal, "dynamodb_read_error", getErr)
	}
	if !sameProperty(stored, property) {
		slog.Warn("conversation id already holds a different property", "conversationId", property.ID)
		return newError(ErrorConflict, "property_conflict", err)
	}
	slog.Info("property already saved, treating completion as duplicate", "conversationId", property.ID)
	return nil
}

func (s *WizardService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Property{}, newError(ErrorInvalidInput, "missing_property_id", nil)
	}
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return domain.Property{}, newError(ErrorNotFound, "property_not_found", err)
		}
		return domain.Property{}, newError(ErrorInternal, "dynamodb_read_error", err)
	}
	return p, nil
}

func (s *WizardService) validateTurn(in TurnInput) error {
	switch in.Action {
	case ActionStart:
		return nil
	case ActionAnswer, ActionSkip:
	default:
		return newError(ErrorInvalidInput, "unknown_action", nil)
	}
	if strings.TrimSpace(in.ConversationID) == "" {
		return newError(ErrorInvalidInput, "missing_conversation_id", nil)
	}
	if len(in.History) > s.maxHistory {
		return newError(ErrorInvalidInput, "history_too_long", nil)
	}
	for _, h := range in.History {
		if utf8.RuneCountInString(h) > s.maxAnswerLen {
			return newError(ErrorInvalidInput, "answer_too_long", nil)
		}
	}
	if utf8.RuneCountInString(in.Input) > s.maxAnswerLen {
		return newError(ErrorInvalidInput, "answer_too_long", nil)
	}
	return nil
}

func (s *WizardService) ensureConfig(ctx context.Context) error {
	s.cacheMu.RLock()
	if s.cacheLoaded {
		s.cacheMu.RUnlock()
		return nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheLoaded {
		return nil
	}

	summary, err := s.loadSummaryConfig(ctx)
	if err != nil {
		return err
	}
	s.summary = summary
	s.cacheLoaded = true
	return nil
}

func (s *WizardService) loadSummaryConfig(ctx context.Context) (*wizard.SummaryBuilder, error) {
	localeKey := s.paramPrefix + "/config/locale"
	currencyKey := s.paramPrefix + "/config/currency_symbol"

	vals, err := s.params.GetParameters(ctx, []string{localeKey, currencyKey})
	if err != nil {
		return nil, fmt.Errorf("usecase: load summary config: %w", err)
	}
	rawLocale, ok := vals[localeKey]
	if !ok {
		return nil, fmt.Errorf("usecase: load summary config: missing %s", localeKey)
	}
	tag, err := language.Parse(strings.TrimSpace(rawLocale))
	if err != nil {
		return nil, fmt.Errorf("usecase: parse locale %q: %w", rawLocale, err)
	}
	return wizard.NewSummaryBuilder(tag, vals[currencyKey]), nil
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}

var newUUID = func() string {
	return uuid.NewString()
}
