package questionnaire

import "slices"

// Type selects the answer shape a question accepts and the input used to collect it.
type Type string

const (
	SingleChoice Type = "single-choice"
	MultiChoice  Type = "multi-choice"
	Rating       Type = "rating"
	FreeText     Type = "free-text"
)

const (
	// DefaultMaxSelections applies to multi-choice questions without an explicit limit.
	DefaultMaxSelections = 3

	RatingMin = 1
	RatingMax = 5
	// DefaultRating is shown for rating questions that have not been answered yet.
	// It is never written to the store implicitly.
	DefaultRating = 3
)

func (t Type) Valid() bool {
	switch t {
	case SingleChoice, MultiChoice, Rating, FreeText:
		return true
	default:
		return false
	}
}

func (t Type) HasOptions() bool {
	return t == SingleChoice || t == MultiChoice
}

// Question is one prompt of the catalog. Options are identified by their text.
type Question struct {
	ID            string   `json:"id" yaml:"id"`
	Text          string   `json:"text" yaml:"text"`
	SubText       string   `json:"subText,omitempty" yaml:"subText,omitempty"`
	Type          Type     `json:"type" yaml:"type"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
	MaxSelections int      `json:"maxSelections,omitempty" yaml:"maxSelections,omitempty"`
	MinLabel      string   `json:"minLabel,omitempty" yaml:"minLabel,omitempty"`
	MaxLabel      string   `json:"maxLabel,omitempty" yaml:"maxLabel,omitempty"`
}

// Limit returns how many options a multi-choice question accepts.
func (q *Question) Limit() int {
	if q.MaxSelections > 0 {
		return q.MaxSelections
	}
	return DefaultMaxSelections
}

func (q *Question) HasOption(option string) bool {
	return slices.Contains(q.Options, option)
}
