package brief

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kasionely/korner-integrations-service/model"
	"github.com/rs/zerolog"
)

// SessionStore persists brief sessions keyed by user id.
//
// Save writes s with the given time-to-live. A zero s.Version overwrites any
// stored session; otherwise the stored version must equal s.Version or
// model.ErrVersionConflict is returned. On success s.Version is updated.
// Delete removes the session when its version equals version, or always for
// model.AnyVersion. Get returns model.ErrNoActiveSession when nothing is stored.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*model.Session, error)
	Save(ctx context.Context, userID int64, s *model.Session, ttl time.Duration) error
	Delete(ctx context.Context, userID int64, version int64) error
}

const (
	DefaultSessionTTL  = 24 * time.Hour
	defaultMaxAttempts = 5

	welcomeText = "<b>Korner × Qamalladin Media</b>\n\n" +
		"Добро пожаловать! Заполните бриф, чтобы мы могли создать для вас идеальную страницу.\n\n" +
		"Всего %d вопросов. Начнём!"
	completedText      = "Спасибо! Ваш бриф отправлен команде ✅\nМы свяжемся с вами в ближайшее время."
	cancelledText      = "Заполнение брифа отменено."
	otherPromptText    = "Напишите ваш вариант:"
	emptySelectionText = "Выберите хотя бы один вариант"
)

// Engine drives users through the brief catalog.
type Engine struct {
	catalog      *Catalog
	store        SessionStore
	messenger    Messenger
	presenter    *Presenter
	reportChatID int64
	ttl          time.Duration
	maxAttempts  int
	logger       zerolog.Logger
	locks        *userLocks
}

type Option func(*Engine)

func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.ttl = ttl }
}

// WithMaxAttempts bounds how often an event is reapplied after a version conflict.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) { e.maxAttempts = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine that delivers completed briefs to reportChatID.
func NewEngine(store SessionStore, messenger Messenger, reportChatID int64, opts ...Option) *Engine {
	e := &Engine{
		catalog:      DefaultCatalog(),
		store:        store,
		messenger:    messenger,
		reportChatID: reportChatID,
		ttl:          DefaultSessionTTL,
		maxAttempts:  defaultMaxAttempts,
		logger:       zerolog.Nop(),
		locks:        newUserLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxAttempts < 1 {
		e.maxAttempts = 1
	}
	e.presenter = NewPresenter(e.catalog, messenger)
	return e
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Start begins a new brief for the user, discarding any brief in progress.
func (e *Engine) Start(ctx context.Context, cmd model.StartCommand) error {
	unlock := e.locks.Lock(cmd.UserID)
	defer unlock()

	s := model.NewSession(cmd.DisplayName, cmd.ChannelID)
	if err := e.store.Save(ctx, cmd.UserID, s, e.ttl); err != nil {
		return fmt.Errorf("error saving brief session: %w", err)
	}
	e.logger.Info().Int64("user_id", cmd.UserID).Msg("brief started")

	text := fmt.Sprintf(welcomeText, e.catalog.Len())
	if err := e.messenger.SendText(ctx, cmd.ChannelID, text, model.TextOptions{HTML: true}); err != nil {
		return fmt.Errorf("error sending welcome message: %w", err)
	}
	return e.presenter.Present(ctx, cmd.ChannelID, 0, s.SelectedOptions)
}

// HandleFreeText applies a typed message to the user's brief.
// Messages from users without a brief are ignored.
func (e *Engine) HandleFreeText(ctx context.Context, msg model.TextMessage) error {
	unlock := e.locks.Lock(msg.UserID)
	defer unlock()

	return e.retry(ctx, msg.UserID, func() error {
		s, err := e.load(ctx, msg.UserID)
		if err != nil || s == nil {
			return err
		}
		q, _ := e.catalog.At(s.Step)

		switch model.StateOf(s) {
		case model.StateAwaitingOtherText:
			s.SelectedOptions = append(s.SelectedOptions, msg.Text)
			s.AwaitingOtherText = false
			s.SetAnswer(s.Step, s.Selection())
			return e.advance(ctx, msg.UserID, s)
		case model.StateAwaitingAnswer:
			if q.Kind != model.QuestionKindFreeText {
				e.logger.Debug().Int64("user_id", msg.UserID).Int("step", s.Step).
					Str("kind", q.Kind.String()).Msg("ignoring text for keyboard question")
				return nil
			}
			s.SetAnswer(s.Step, msg.Text)
			return e.advance(ctx, msg.UserID, s)
		default:
			return nil
		}
	})
}

// HandleControlEvent applies a keyboard interaction to the user's brief.
// The interaction is acknowledged before any state changes.
func (e *Engine) HandleControlEvent(ctx context.Context, ev model.ControlInteraction) error {
	unlock := e.locks.Lock(ev.UserID)
	defer unlock()

	acked := false
	ack := func(opts model.AckOptions) {
		if acked {
			return
		}
		acked = true
		if err := e.messenger.AcknowledgeInteraction(ctx, ev.InteractionID, opts); err != nil {
			e.logger.Warn().Err(err).Int64("user_id", ev.UserID).Msg("error acknowledging interaction")
		}
	}
	defer ack(model.AckOptions{})

	return e.retry(ctx, ev.UserID, func() error {
		s, err := e.load(ctx, ev.UserID)
		if err != nil || s == nil {
			ack(model.AckOptions{})
			return err
		}

		if err := e.checkConfirm(s, ev.Action); errors.Is(err, model.ErrEmptySelection) {
			ack(model.AckOptions{Text: emptySelectionText, ShowAlert: true})
			e.logger.Debug().Int64("user_id", ev.UserID).Int("step", s.Step).Msg("confirm without selection")
			return nil
		}
		ack(model.AckOptions{})

		return e.apply(ctx, ev, s)
	})
}

// Cancel abandons the user's brief. It is a no-op without a brief.
func (e *Engine) Cancel(ctx context.Context, userID, chatID int64) error {
	unlock := e.locks.Lock(userID)
	defer unlock()

	s, err := e.load(ctx, userID)
	if err != nil || s == nil {
		return err
	}
	return e.cancel(ctx, userID, chatID)
}

func (e *Engine) apply(ctx context.Context, ev model.ControlInteraction, s *model.Session) error {
	q, _ := e.catalog.At(s.Step)
	log := e.logger.With().Int64("user_id", ev.UserID).Int("step", s.Step).Logger()

	switch a := ev.Action.(type) {
	case model.Cancel:
		return e.cancel(ctx, ev.UserID, ev.ChannelID)

	case model.ChooseSingle:
		if !e.current(s, a.Step, q, model.QuestionKindSingleSelect, log) {
			return nil
		}
		if a.Index < 0 || a.Index >= len(q.Options) {
			return fmt.Errorf("%w: option %d of question %d", model.ErrInvalidOption, a.Index, q.ID)
		}
		s.SetAnswer(s.Step, q.Options[a.Index])
		return e.advance(ctx, ev.UserID, s)

	case model.ToggleOption:
		if !e.current(s, a.Step, q, model.QuestionKindMultiSelect, log) {
			return nil
		}
		if a.Index < 0 || a.Index >= len(q.Options) {
			return fmt.Errorf("%w: option %d of question %d", model.ErrInvalidOption, a.Index, q.ID)
		}
		s.ToggleOption(q.Options[a.Index])
		if err := e.save(ctx, ev.UserID, s); err != nil {
			return err
		}
		return e.presenter.Refresh(ctx, ev.MessageRef, s.Step, s.SelectedOptions)

	case model.ToggleOther:
		if !e.current(s, a.Step, q, model.QuestionKindMultiSelect, log) {
			return nil
		}
		if !q.AllowsOther {
			return fmt.Errorf("%w: question %d has no other option", model.ErrInvalidOption, q.ID)
		}
		if s.IsSelected(model.OtherOption) {
			s.ToggleOption(model.OtherOption)
			s.AwaitingOtherText = false
			if err := e.save(ctx, ev.UserID, s); err != nil {
				return err
			}
			return e.presenter.Refresh(ctx, ev.MessageRef, s.Step, s.SelectedOptions)
		}
		s.ToggleOption(model.OtherOption)
		s.AwaitingOtherText = true
		if err := e.save(ctx, ev.UserID, s); err != nil {
			return err
		}
		if err := e.messenger.SendText(ctx, ev.ChannelID, otherPromptText, model.TextOptions{}); err != nil {
			return fmt.Errorf("error sending other prompt: %w", err)
		}
		return nil

	case model.Confirm:
		if !e.current(s, a.Step, q, model.QuestionKindMultiSelect, log) {
			return nil
		}
		s.SetAnswer(s.Step, s.Selection())
		return e.advance(ctx, ev.UserID, s)

	default:
		return fmt.Errorf("%w: %T", model.ErrUnexpectedAction, ev.Action)
	}
}

// current reports whether an action aimed at step applies to the stored
// session. Actions from keyboards of earlier questions are ignored.
func (e *Engine) current(s *model.Session, step int, q model.Question, kind model.QuestionKind, log zerolog.Logger) bool {
	if step != s.Step || q.Kind != kind {
		log.Debug().Int("action_step", step).Str("kind", q.Kind.String()).Msg("ignoring stale action")
		return false
	}
	return true
}

// checkConfirm returns model.ErrEmptySelection for a confirm of the current
// multi-select question while nothing is selected.
func (e *Engine) checkConfirm(s *model.Session, a model.Action) error {
	c, ok := a.(model.Confirm)
	if !ok || c.Step != s.Step {
		return nil
	}
	if q, _ := e.catalog.At(s.Step); q.Kind == model.QuestionKindMultiSelect && len(s.SelectedOptions) == 0 {
		return model.ErrEmptySelection
	}
	return nil
}

// advance moves s to the next question, finishing the brief after the last one.
func (e *Engine) advance(ctx context.Context, userID int64, s *model.Session) error {
	s.Step++
	s.ResetSelection()

	if s.Step >= e.catalog.Len() {
		if err := e.store.Delete(ctx, userID, s.Version); err != nil {
			return fmt.Errorf("error deleting brief session: %w", err)
		}
		e.logger.Info().Int64("user_id", userID).Msg("brief completed")

		report := FormatBrief(e.catalog, s)
		if err := e.messenger.SendText(ctx, e.reportChatID, report, model.TextOptions{HTML: true}); err != nil {
			return fmt.Errorf("error delivering brief report: %w", err)
		}
		if err := e.messenger.SendText(ctx, s.ChannelID, completedText, model.TextOptions{}); err != nil {
			return fmt.Errorf("error sending completion message: %w", err)
		}
		return nil
	}

	if err := e.save(ctx, userID, s); err != nil {
		return err
	}
	return e.presenter.Present(ctx, s.ChannelID, s.Step, s.SelectedOptions)
}

func (e *Engine) cancel(ctx context.Context, userID, chatID int64) error {
	if err := e.store.Delete(ctx, userID, model.AnyVersion); err != nil {
		return fmt.Errorf("error deleting brief session: %w", err)
	}
	e.logger.Info().Int64("user_id", userID).Msg("brief cancelled")

	if err := e.messenger.SendText(ctx, chatID, cancelledText, model.TextOptions{}); err != nil {
		return fmt.Errorf("error sending cancellation message: %w", err)
	}
	return nil
}

// load returns nil without error when the user has no brief.
func (e *Engine) load(ctx context.Context, userID int64) (*model.Session, error) {
	s, err := e.store.Get(ctx, userID)
	if errors.Is(err, model.ErrNoActiveSession) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading brief session: %w", err)
	}
	if s.Step < 0 || s.Step >= e.catalog.Len() {
		e.logger.Warn().Int64("user_id", userID).Int("step", s.Step).Msg("dropping brief session with invalid step")
		if err := e.store.Delete(ctx, userID, s.Version); err != nil {
			return nil, fmt.Errorf("error deleting brief session: %w", err)
		}
		return nil, nil
	}
	return s, nil
}

func (e *Engine) save(ctx context.Context, userID int64, s *model.Session) error {
	if err := e.store.Save(ctx, userID, s, e.ttl); err != nil {
		return fmt.Errorf("error saving brief session: %w", err)
	}
	return nil
}

// retry reapplies fn while the store reports a concurrent modification.
func (e *Engine) retry(ctx context.Context, userID int64, fn func() error) error {
	var err error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, model.ErrVersionConflict) {
			return err
		}
		e.logger.Debug().Int64("user_id", userID).Int("attempt", attempt).Msg("brief session changed, retrying")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
