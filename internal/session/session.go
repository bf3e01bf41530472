package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/questionnaire"
)

var (
	// ErrWrongState is returned when an action is not available in the current state.
	ErrWrongState = errors.New("action is not available in the current state")
	// ErrNotAnswered is returned by Next while the current answer is not valid.
	ErrNotAnswered = errors.New("current question is not answered")
)

// Session walks one visitor through the catalog and owns their answers and result.
// It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	catalog  *questionnaire.Catalog
	answers  *questionnaire.Answers
	analyzer ai.Analyzer
	logger   *zap.Logger
	state    State
	// done is closed when the in-flight analysis resolves.
	done chan struct{}
}

func New(catalog *questionnaire.Catalog, analyzer ai.Analyzer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		catalog:  catalog,
		answers:  questionnaire.NewAnswers(),
		analyzer: analyzer,
		logger:   log,
		state:    Intro{},
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Catalog() *questionnaire.Catalog {
	return s.catalog
}

// Answers returns a copy of the answers given so far.
func (s *Session) Answers() *questionnaire.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Snapshot()
}

// Start leaves the intro and shows the first question.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Intro); !ok {
		return fmt.Errorf("start from %s: %w", s.state.Phase(), ErrWrongState)
	}

	s.state = Testing{Index: 0}
	s.logger.Debug("questionnaire started", zap.Int("questions", s.catalog.Len()))
	return nil
}

// Current returns the displayed question and its index.
func (s *Session) Current() (*questionnaire.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current()
}

func (s *Session) current() (*questionnaire.Question, int, error) {
	st, ok := s.state.(Testing)
	if !ok {
		return nil, 0, fmt.Errorf("no question in %s: %w", s.state.Phase(), ErrWrongState)
	}
	return s.catalog.At(st.Index), st.Index, nil
}

func (s *Session) Select(option string) error {
	return s.mutate(func(q *questionnaire.Question) error {
		return s.answers.Select(q, option)
	})
}

// Toggle flips option on the current multi-choice question. changed is false when
// the option could not be added because the limit is reached.
func (s *Session) Toggle(option string) (bool, error) {
	var changed bool
	err := s.mutate(func(q *questionnaire.Question) error {
		var err error
		changed, err = s.answers.Toggle(q, option)
		return err
	})
	return changed, err
}

func (s *Session) Rate(n int) error {
	return s.mutate(func(q *questionnaire.Question) error {
		return s.answers.Rate(q, n)
	})
}

func (s *Session) Write(text string) error {
	return s.mutate(func(q *questionnaire.Question) error {
		return s.answers.Write(q, text)
	})
}

func (s *Session) mutate(apply func(q *questionnaire.Question) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, _, err := s.current()
	if err != nil {
		return err
	}
	return apply(q)
}

// CanProceed reports whether Next would accept the current answer.
func (s *Session) CanProceed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, _, err := s.current()
	if err != nil {
		return false
	}
	return s.answers.Answered(q)
}

// Next moves past the current question. After the last one it switches to
// Analyzing and submits a copy of the answers in the background; ctx is handed
// to the analyzer. The returned state is the one Next moved to.
func (s *Session) Next(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, idx, err := s.current()
	if err != nil {
		return s.state, err
	}
	if !s.answers.Answered(q) {
		return s.state, fmt.Errorf("%s: %w", q.ID, ErrNotAnswered)
	}

	if idx+1 < s.catalog.Len() {
		s.state = Testing{Index: idx + 1}
		return s.state, nil
	}

	s.state = Analyzing{}
	s.done = make(chan struct{})

	s.logger.Info("submitting answers for analysis", zap.Int("answers", s.answers.Len()))
	go s.analyze(ctx, s.answers.Snapshot(), s.done)

	return s.state, nil
}

func (s *Session) analyze(ctx context.Context, answers *questionnaire.Answers, done chan struct{}) {
	result, err := s.analyzer.Analyze(ctx, answers)
	if err == nil && result == nil {
		err = ai.Fail("", errors.New("analyzer returned no report"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(done)

	if err != nil {
		message := ai.UserMessage(err)
		s.logger.Error("analysis failed", zap.Error(err), zap.String("message", message))
		s.state = Failed{Message: message}
		return
	}

	s.logger.Info("analysis finished", zap.String("archetype", result.Archetype))
	s.state = Results{Report: result}
}

// Wait blocks until no analysis is in flight and returns the resulting state.
func (s *Session) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
	}

	return s.State(), nil
}

// Reset clears the answers and returns to the intro. It is refused while an
// analysis is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Analyzing); ok {
		return fmt.Errorf("reset: %w", ErrWrongState)
	}

	s.answers.Clear()
	s.state = Intro{}
	s.done = nil
	s.logger.Debug("session reset")
	return nil
}

// Progress returns the one-based position of the displayed question and the catalog size.
// Position is zero outside of Testing.
func (s *Session) Progress() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state.(Testing); ok {
		return st.Index + 1, s.catalog.Len()
	}
	return 0, s.catalog.Len()
}
