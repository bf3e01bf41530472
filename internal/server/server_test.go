package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
	"github.com/spigell/pathfinder/internal/session"
)

type stubAnalyzer struct {
	report *report.Report
	err    error
}

func (s stubAnalyzer) Analyze(context.Context, *questionnaire.Answers) (*report.Report, error) {
	return s.report, s.err
}

func testCatalog(t *testing.T) *questionnaire.Catalog {
	t.Helper()

	catalog, err := questionnaire.NewCatalog([]questionnaire.Question{
		{ID: "env", Text: "Where?", Type: questionnaire.SingleChoice, Options: []string{"Office", "Home"}},
		{ID: "skills", Text: "Skills?", Type: questionnaire.MultiChoice, Options: []string{"A", "B", "C"}, MaxSelections: 2},
		{ID: "risk", Text: "Risk?", Type: questionnaire.Rating, MinLabel: "Low", MaxLabel: "High"},
		{ID: "story", Text: "Story?", Type: questionnaire.FreeText},
	})
	require.NoError(t, err)
	return catalog
}

type fixture struct {
	t      *testing.T
	store  *Store
	server *httptest.Server
}

func newFixture(t *testing.T, analyzer ai.Analyzer) *fixture {
	t.Helper()

	store := NewStore(testCatalog(t), analyzer, zap.NewNop())
	srv := httptest.NewServer(New(store, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)

	return &fixture{t: t, store: store, server: srv}
}

func (f *fixture) do(method, path string, body any) (*http.Response, map[string]any) {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func (f *fixture) create() string {
	f.t.Helper()

	resp, body := f.do(http.MethodPost, "/v1/sessions", nil)
	require.Equal(f.t, http.StatusCreated, resp.StatusCode)
	require.Equal(f.t, "intro", body["phase"])
	return body["id"].(string)
}

func (f *fixture) waitResolved(id string) {
	f.t.Helper()

	sess, ok := f.store.Get(id)
	require.True(f.t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := sess.Wait(ctx)
	require.NoError(f.t, err)
}

func TestHealthAndQuestions(t *testing.T) {
	f := newFixture(t, stubAnalyzer{})

	resp, body := f.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body = f.do(http.MethodGet, "/v1/questions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	questions := body["questions"].([]any)
	require.Len(t, questions, 4)
	assert.Equal(t, "multi-choice", questions[1].(map[string]any)["type"])
	assert.Equal(t, float64(2), questions[1].(map[string]any)["maxSelections"])
}

func TestPreflight(t *testing.T) {
	f := newFixture(t, stubAnalyzer{})

	resp, _ := f.do(http.MethodOptions, "/v1/sessions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}

func TestFullFlow(t *testing.T) {
	want := &report.Report{
		Archetype:       "The Builder",
		Strengths:       []string{"Grit", "Focus"},
		RecommendedJobs: []report.JobRecommendation{{Title: "Site reliability engineer", MatchScore: 88}},
	}
	f := newFixture(t, stubAnalyzer{report: want})
	id := f.create()
	base := "/v1/sessions/" + id

	resp, body := f.do(http.MethodPost, base+"/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "testing", body["phase"])
	assert.Equal(t, float64(1), body["position"])
	assert.Equal(t, false, body["canProceed"])

	resp, _ = f.do(http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = f.do(http.MethodPut, base+"/answer", map[string]any{"value": "Home"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Home", body["answer"])
	assert.Equal(t, true, body["canProceed"])

	resp, _ = f.do(http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, option := range []string{"A", "B", "C"} {
		resp, _ = f.do(http.MethodPost, base+"/toggle", map[string]any{"option": option})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	_, body = f.do(http.MethodGet, base, nil)
	assert.Equal(t, []any{"A", "B"}, body["answer"])

	resp, _ = f.do(http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(http.MethodPut, base+"/answer", map[string]any{"value": "4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), body["answer"])

	resp, _ = f.do(http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(http.MethodPut, base+"/answer", map[string]any{"value": "I like robots"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "analyzing", body["phase"])

	f.waitResolved(id)

	resp, body = f.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "results", body["phase"])
	assert.Equal(t, "The Builder", body["report"].(map[string]any)["archetype"])

	resp, body = f.do(http.MethodGet, base+"/share", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["summary"], "Recommended directions: Site reliability engineer")

	resp, body = f.do(http.MethodGet, base+"/report", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "The Builder", body["archetype"])

	resp, body = f.do(http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "intro", body["phase"])
}

func TestAnswerValidation(t *testing.T) {
	f := newFixture(t, stubAnalyzer{})
	id := f.create()
	base := "/v1/sessions/" + id

	resp, _ := f.do(http.MethodPut, base+"/answer", map[string]any{"value": "Home"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "answers are refused before start")

	f.do(http.MethodPost, base+"/start", nil)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "unknown option", body: map[string]any{"value": "Moon"}, status: http.StatusUnprocessableEntity},
		{name: "number for a choice", body: map[string]any{"value": 3}, status: http.StatusUnprocessableEntity},
		{name: "malformed toggle body", body: nil, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.body == nil {
				req, err := http.NewRequest(http.MethodPost, f.server.URL+base+"/toggle", strings.NewReader("{"))
				require.NoError(t, err)
				resp, err = http.DefaultClient.Do(req)
				require.NoError(t, err)
				resp.Body.Close()
			} else {
				resp, _ = f.do(http.MethodPut, base+"/answer", tt.body)
			}
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRatingCoercion(t *testing.T) {
	catalog, err := questionnaire.NewCatalog([]questionnaire.Question{
		{ID: "risk", Text: "Risk?", Type: questionnaire.Rating},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{name: "number", value: float64(5), ok: true},
		{name: "numeric string", value: "2", ok: true},
		{name: "fraction", value: 2.5, ok: false},
		{name: "out of range", value: float64(6), ok: false},
		{name: "not a number", value: "high", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New(catalog, stubAnalyzer{}, zap.NewNop())
			require.NoError(t, sess.Start())

			q, _, _ := sess.Current()
			err := applyAnswer(sess, q, tt.value)
			if tt.ok {
				assert.NoError(t, err)
				assert.True(t, sess.CanProceed())
			} else {
				assert.ErrorIs(t, err, questionnaire.ErrRatingRange)
				assert.False(t, sess.CanProceed())
			}
		})
	}
}

func TestMultiChoiceAnswerUsesToggle(t *testing.T) {
	catalog, err := questionnaire.NewCatalog([]questionnaire.Question{
		{ID: "skills", Text: "Skills?", Type: questionnaire.MultiChoice, Options: []string{"A"}},
	})
	require.NoError(t, err)

	sess := session.New(catalog, stubAnalyzer{}, zap.NewNop())
	require.NoError(t, sess.Start())

	q, _, _ := sess.Current()
	assert.ErrorIs(t, applyAnswer(sess, q, []any{"A"}), questionnaire.ErrWrongType)
}

func TestFailureView(t *testing.T) {
	f := newFixture(t, stubAnalyzer{err: &ai.Error{Message: "quota exceeded"}})
	id := f.create()
	base := "/v1/sessions/" + id

	f.do(http.MethodPost, base+"/start", nil)
	for _, step := range []struct {
		path string
		body any
	}{
		{"/answer", map[string]any{"value": "Office"}},
		{"/toggle", map[string]any{"option": "A"}},
		{"/answer", map[string]any{"value": 3}},
		{"/answer", map[string]any{"value": "text"}},
	} {
		method := http.MethodPut
		if step.path == "/toggle" {
			method = http.MethodPost
		}
		resp, _ := f.do(method, base+step.path, step.body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		f.do(http.MethodPost, base+"/next", nil)
	}

	f.waitResolved(id)

	_, body := f.do(http.MethodGet, base, nil)
	assert.Equal(t, "error", body["phase"])
	assert.Equal(t, "quota exceeded", body["error"])

	resp, _ := f.do(http.MethodGet, base+"/report", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = f.do(http.MethodGet, base+"/report?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportFormats(t *testing.T) {
	f := newFixture(t, stubAnalyzer{})
	id, _ := f.store.Create()

	// swap in a session that already holds a report
	catalog, err := questionnaire.NewCatalog([]questionnaire.Question{
		{ID: "story", Text: "Story?", Type: questionnaire.FreeText},
	})
	require.NoError(t, err)
	direct := session.New(catalog, stubAnalyzer{report: &report.Report{Archetype: "The Sage"}}, zap.NewNop())
	require.NoError(t, direct.Start())
	require.NoError(t, direct.Write("books"))
	_, err = direct.Next(context.Background())
	require.NoError(t, err)
	_, err = direct.Wait(context.Background())
	require.NoError(t, err)

	f.store.mu.Lock()
	f.store.sessions[id] = direct
	f.store.mu.Unlock()

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{format: "yaml", contentType: "application/yaml", contains: "archetype: The Sage"},
		{format: "md", contentType: "text/markdown; charset=utf-8", contains: "# The Sage"},
		{format: "html", contentType: "text/html; charset=utf-8", contains: "<h1>The Sage</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(f.server.URL + "/v1/sessions/" + id + "/report?format=" + tt.format)
			require.NoError(t, err)
			defer resp.Body.Close()

			var buf bytes.Buffer
			_, err = buf.ReadFrom(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			assert.Contains(t, resp.Header.Get("Content-Disposition"), "pathfinder-report.")
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestUnknownAndDeletedSessions(t *testing.T) {
	f := newFixture(t, stubAnalyzer{})

	resp, _ := f.do(http.MethodGet, "/v1/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id := f.create()
	resp, _ = f.do(http.MethodDelete, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, f.store.Len())

	resp, _ = f.do(http.MethodDelete, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
