package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/ai/proxy"
	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
)

type stubAnalyzer struct {
	mu      sync.Mutex
	report  *report.Report
	err     error
	calls   int
	got     *questionnaire.Answers
	release chan struct{}
}

func (s *stubAnalyzer) Analyze(_ context.Context, answers *questionnaire.Answers) (*report.Report, error) {
	if s.release != nil {
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.got = answers
	return s.report, s.err
}

func (s *stubAnalyzer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func sampleReport() *report.Report {
	return &report.Report{
		Archetype: "The Architect",
		Strengths: []string{"Systems thinking"},
		RecommendedJobs: []report.JobRecommendation{
			{Title: "Solutions architect", MatchScore: 91},
		},
	}
}

// answerCurrent gives the displayed question a valid answer.
func answerCurrent(t *testing.T, s *Session) {
	t.Helper()

	q, _, err := s.Current()
	if err != nil {
		t.Fatalf("no current question: %v", err)
	}

	switch q.Type {
	case questionnaire.SingleChoice:
		err = s.Select(q.Options[0])
	case questionnaire.MultiChoice:
		_, err = s.Toggle(q.Options[0])
	case questionnaire.Rating:
		err = s.Rate(4)
	case questionnaire.FreeText:
		err = s.Write("distributed systems")
	}
	if err != nil {
		t.Fatalf("answering %s: %v", q.ID, err)
	}
}

// completeAll answers every question and proceeds past the last one.
func completeAll(t *testing.T, s *Session) State {
	t.Helper()

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	var state State
	for i := 0; i < s.Catalog().Len(); i++ {
		answerCurrent(t, s)

		var err error
		state, err = s.Next(context.Background())
		if err != nil {
			t.Fatalf("next on question %d: %v", i+1, err)
		}
	}
	return state
}

func waitFor(t *testing.T, s *Session) State {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, err := s.Wait(ctx)
	if err != nil {
		t.Fatalf("waiting for analysis: %v", err)
	}
	return state
}

func TestCompletingCatalogProducesResults(t *testing.T) {
	analyzer := &stubAnalyzer{report: sampleReport()}
	s := New(questionnaire.Default(), analyzer, zap.NewNop())

	if state := completeAll(t, s); state.Phase() != PhaseAnalyzing {
		t.Fatalf("expected analyzing after the last question, got %s", state.Phase())
	}

	state := waitFor(t, s)
	results, ok := state.(Results)
	if !ok {
		t.Fatalf("expected results, got %s", state.Phase())
	}
	if results.Report != analyzer.report {
		t.Fatalf("expected the exact report to be retained")
	}
	if analyzer.Calls() != 1 {
		t.Fatalf("expected one analysis call, got %d", analyzer.Calls())
	}
	if analyzer.got.Len() != 20 {
		t.Fatalf("expected all 20 answers to be submitted, got %d", analyzer.got.Len())
	}
}

func TestAnalysisFailureThroughProxy(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "no detail", body: `{}`, message: "Server responded with status 500"},
		{name: "detail", body: `{"detail": "quota exceeded"}`, message: "quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := proxy.New(srv.URL, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s := New(questionnaire.Default(), client, zap.NewNop())
			completeAll(t, s)

			state := waitFor(t, s)
			failed, ok := state.(Failed)
			if !ok {
				t.Fatalf("expected error state, got %s", state.Phase())
			}
			if failed.Message != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, failed.Message)
			}
		})
	}
}

func TestFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	analyzer := &stubAnalyzer{err: &ai.Error{Message: "model overloaded", Err: errors.New("503")}}
	s := New(questionnaire.Default(), analyzer, zap.New(core))

	completeAll(t, s)
	state := waitFor(t, s)

	if failed, ok := state.(Failed); !ok || failed.Message != "model overloaded" {
		t.Fatalf("unexpected state: %#v", state)
	}

	entries := logs.FilterMessage("analysis failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["message"] != "model overloaded" {
		t.Fatalf("unexpected log context: %v", entries[0].ContextMap())
	}
}

func TestNilReportIsAFailure(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{}, zap.NewNop())
	completeAll(t, s)

	state := waitFor(t, s)
	if failed, ok := state.(Failed); !ok || failed.Message != ai.GenericMessage {
		t.Fatalf("expected generic failure, got %#v", state)
	}
}

func TestNextRequiresValidAnswer(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{}, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.CanProceed() {
		t.Fatalf("expected proceed to be disabled before answering")
	}

	if _, err := s.Next(context.Background()); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("expected ErrNotAnswered, got %v", err)
	}

	if _, idx, _ := s.Current(); idx != 0 {
		t.Fatalf("expected to stay on the first question, got %d", idx)
	}

	answerCurrent(t, s)
	if !s.CanProceed() {
		t.Fatalf("expected proceed to be enabled after answering")
	}

	state, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st, ok := state.(Testing); !ok || st.Index != 1 {
		t.Fatalf("expected second question, got %#v", state)
	}
}

func TestWhitespaceFreeTextBlocksProceed(t *testing.T) {
	catalog, err := questionnaire.NewCatalog([]questionnaire.Question{
		{ID: "story", Text: "Tell us", Type: questionnaire.FreeText},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := New(catalog, &stubAnalyzer{}, zap.NewNop())
	_ = s.Start()

	if err := s.Write("   \n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CanProceed() {
		t.Fatalf("whitespace-only text must not count as an answer")
	}
}

func TestActionsOutsideTesting(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{}, zap.NewNop())

	if _, err := s.Next(context.Background()); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState from intro, got %v", err)
	}
	if err := s.Select("anything"); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState for answers in intro, got %v", err)
	}
	if s.CanProceed() {
		t.Fatalf("intro has no proceed control")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected second start to fail, got %v", err)
	}
}

func TestSingleAnalysisInFlight(t *testing.T) {
	analyzer := &stubAnalyzer{report: sampleReport(), release: make(chan struct{})}
	s := New(questionnaire.Default(), analyzer, zap.NewNop())

	completeAll(t, s)

	state, err := s.Next(context.Background())
	if !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState while analyzing, got %v", err)
	}
	if state.Phase() != PhaseAnalyzing {
		t.Fatalf("state must stay analyzing, got %s", state.Phase())
	}

	if err := s.Reset(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected reset to be refused while analyzing, got %v", err)
	}

	close(analyzer.release)
	waitFor(t, s)

	if analyzer.Calls() != 1 {
		t.Fatalf("expected exactly one analysis call, got %d", analyzer.Calls())
	}
}

func TestAnswersAreSnapshottedForAnalysis(t *testing.T) {
	analyzer := &stubAnalyzer{report: sampleReport(), release: make(chan struct{})}
	s := New(questionnaire.Default(), analyzer, zap.NewNop())

	completeAll(t, s)
	close(analyzer.release)
	waitFor(t, s)

	if err := s.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analyzer.got.Len() != 20 {
		t.Fatalf("reset must not touch the submitted answers, got %d", analyzer.got.Len())
	}
}

func TestResetAfterResultsStartsClean(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{report: sampleReport()}, zap.NewNop())
	completeAll(t, s)
	waitFor(t, s)

	if err := s.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State().Phase() != PhaseIntro {
		t.Fatalf("expected intro after reset, got %s", s.State().Phase())
	}
	if s.Answers().Len() != 0 {
		t.Fatalf("expected no answers after reset")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, idx, err := s.Current()
	if err != nil || idx != 0 {
		t.Fatalf("expected first question, got %d (%v)", idx, err)
	}
	if err := s.Select(q.Options[1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answers := s.Answers()
	if answers.Len() != 1 || answers.Choice(q) != q.Options[1] {
		t.Fatalf("expected only the new answer, got %d answers", answers.Len())
	}
}

func TestResetAfterFailure(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{err: &ai.Error{Message: "boom"}}, zap.NewNop())
	completeAll(t, s)
	waitFor(t, s)

	if err := s.Reset(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State().Phase() != PhaseIntro {
		t.Fatalf("expected intro after reset, got %s", s.State().Phase())
	}
}

func TestToggleAtLimitIsIgnored(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{}, zap.NewNop())
	_ = s.Start()

	for {
		q, _, _ := s.Current()
		if q.Type == questionnaire.MultiChoice {
			break
		}
		answerCurrent(t, s)
		if _, err := s.Next(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	q, _, _ := s.Current()
	for _, option := range q.Options[:q.Limit()] {
		if changed, err := s.Toggle(option); err != nil || !changed {
			t.Fatalf("expected %q to be added: %v", option, err)
		}
	}

	changed, err := s.Toggle(q.Options[q.Limit()])
	if err != nil || changed {
		t.Fatalf("expected toggle at the limit to be a silent no-op, got %v %v", changed, err)
	}

	if got := s.Answers().Selected(q); len(got) != q.Limit() {
		t.Fatalf("expected %d selections, got %v", q.Limit(), got)
	}
}

func TestProgress(t *testing.T) {
	s := New(questionnaire.Default(), &stubAnalyzer{}, zap.NewNop())

	if pos, total := s.Progress(); pos != 0 || total != 20 {
		t.Fatalf("unexpected progress in intro: %d/%d", pos, total)
	}

	_ = s.Start()
	answerCurrent(t, s)
	_, _ = s.Next(context.Background())

	if pos, total := s.Progress(); pos != 2 || total != 20 {
		t.Fatalf("unexpected progress: %d/%d", pos, total)
	}
}

func TestWaitHonoursContext(t *testing.T) {
	analyzer := &stubAnalyzer{report: sampleReport(), release: make(chan struct{})}
	defer close(analyzer.release)

	s := New(questionnaire.Default(), analyzer, zap.NewNop())
	completeAll(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := s.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if state.Phase() != PhaseAnalyzing {
		t.Fatalf("expected analyzing, got %s", state.Phase())
	}
}
