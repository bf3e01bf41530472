package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/logger"
	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
	"github.com/spigell/pathfinder/internal/utils"
)

// Provider is the name of this analysis backend in configuration and logs.
const Provider = "gemini"

const (
	defaultMaxLogLength = 200

	systemInstruction = "You are a senior career counsellor and organisational psychologist. " +
		"You write honest, specific and encouraging career reports and always answer with valid JSON."

	rejectedMessage    = "The analysis model rejected the request"
	unreachableMessage = "Unable to reach the analysis model, please try again later."
	unreadableMessage  = "The analysis model returned a report that could not be read."
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Analyzer asks Gemini for the career report directly instead of going through the proxy.
type Analyzer struct {
	generator contentGenerator
	catalog   *questionnaire.Catalog
	logger    *zap.Logger
	maxLogLen int
}

type answerEntry struct {
	ID       string             `json:"id"`
	Question string             `json:"question"`
	Type     questionnaire.Type `json:"type"`
	Answer   any                `json:"answer"`
	Scale    string             `json:"scale,omitempty"`
}

func NewAnalyzer(generator contentGenerator, catalog *questionnaire.Catalog, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		catalog:   catalog,
		logger:    logger.WithAnalysis(log, Provider, generator.Model(), ""),
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, answers *questionnaire.Answers) (*report.Report, error) {
	if answers == nil {
		return nil, &ai.Error{Message: ai.GenericMessage, Err: errors.New("answers are required")}
	}

	answersJSON, err := json.MarshalIndent(a.entries(answers), "", "  ")
	if err != nil {
		return nil, &ai.Error{Message: ai.GenericMessage, Err: fmt.Errorf("marshal answers: %w", err)}
	}

	prompt := buildPrompt(string(answersJSON))

	a.logger.Debug("gemini generate content request",
		zap.Int("answers", answers.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.Preview(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, generationError(err)
	}

	a.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.Preview(raw, a.maxLogLen)),
	)

	result, err := parseResponse(raw)
	if err != nil {
		return nil, &ai.Error{Message: unreadableMessage, Err: err}
	}

	return result, nil
}

// entries pairs each answered question with its text so the model sees what was asked.
func (a *Analyzer) entries(answers *questionnaire.Answers) []answerEntry {
	entries := make([]answerEntry, 0, answers.Len())
	for _, q := range a.catalog.Questions() {
		value, ok := answers.Value(q.ID)
		if !ok {
			continue
		}

		entry := answerEntry{ID: q.ID, Question: q.Text, Type: q.Type, Answer: value}
		if q.Type == questionnaire.Rating {
			entry.Scale = fmt.Sprintf("%d = %s, %d = %s", questionnaire.RatingMin, q.MinLabel, questionnaire.RatingMax, q.MaxLabel)
		}
		entries = append(entries, entry)
	}
	return entries
}

func buildPrompt(answersJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Answers:\n{{ANSWERS_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{ANSWERS_JSON}}", answersJSON)
}

func generationError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		message := rejectedMessage
		if detail := strings.TrimSpace(apiErr.Message); detail != "" {
			message += ": " + detail
		}
		return &ai.Error{Message: message, Status: apiErr.Code, Err: err}
	}
	return &ai.Error{Message: unreachableMessage, Err: err}
}

func parseResponse(raw string) (*report.Report, error) {
	cleaned := extractJSON(raw)

	var result report.Report
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return &result, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
