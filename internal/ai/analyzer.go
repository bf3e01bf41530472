package ai

import (
	"context"
	"errors"

	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
)

// ErrAnalysisFailed matches every error returned by an Analyzer.
var ErrAnalysisFailed = errors.New("career analysis failed")

// GenericMessage is shown when a failure carries no usable detail.
const GenericMessage = "Something went wrong during the analysis. Please check your network connection or the analysis service configuration."

// Analyzer turns a completed answer set into a career report.
// Implementations must return *Error for every failure.
type Analyzer interface {
	Analyze(ctx context.Context, answers *questionnaire.Answers) (*report.Report, error)
}

// Error is the single failure kind of the analysis boundary. Message is safe to show to the user.
type Error struct {
	Message string
	// Status is the HTTP status reported by the service, zero when none was received.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAnalysisFailed}
	}
	return []error{ErrAnalysisFailed, e.Err}
}

// UserMessage extracts the user-facing message from an analysis error.
func UserMessage(err error) string {
	var analysisErr *Error
	if errors.As(err, &analysisErr) && analysisErr.Message != "" {
		return analysisErr.Message
	}
	return GenericMessage
}

// Fail wraps err into an *Error with the given user message, keeping an existing *Error as is.
func Fail(message string, err error) error {
	var analysisErr *Error
	if errors.As(err, &analysisErr) {
		return err
	}
	if message == "" {
		message = GenericMessage
	}
	return &Error{Message: message, Err: err}
}
