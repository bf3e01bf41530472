package questionnaire

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrNoQuestion    = errors.New("question is required")
	ErrWrongType     = errors.New("answer does not match question type")
	ErrUnknownOption = errors.New("option is not offered by the question")
	ErrRatingRange   = fmt.Errorf("rating must be between %d and %d", RatingMin, RatingMax)
)

// Answers maps question ids to answers. Values are string (single-choice, free-text),
// []string (multi-choice, in selection order) or int (rating). Every write goes through
// a method scoped to one question so a stored value always matches its question's shape.
type Answers struct {
	values map[string]any
}

func NewAnswers() *Answers {
	return &Answers{values: make(map[string]any)}
}

// Value returns the raw stored answer for a question id.
func (a *Answers) Value(id string) (any, bool) {
	v, ok := a.values[id]
	if list, isList := v.([]string); isList {
		return slices.Clone(list), ok
	}
	return v, ok
}

func (a *Answers) Len() int {
	return len(a.values)
}

func (a *Answers) Clear() {
	clear(a.values)
}

// Select stores option as the single-choice answer, replacing any previous choice.
func (a *Answers) Select(q *Question, option string) error {
	if err := expect(q, SingleChoice); err != nil {
		return err
	}
	if !q.HasOption(option) {
		return fmt.Errorf("%s: %w: %q", q.ID, ErrUnknownOption, option)
	}

	a.values[q.ID] = option
	return nil
}

// Toggle flips option in a multi-choice answer. Adding an option when the limit is
// already reached leaves the answer unchanged and reports changed=false without error.
// Removing the last option drops the answer entirely.
func (a *Answers) Toggle(q *Question, option string) (bool, error) {
	if err := expect(q, MultiChoice); err != nil {
		return false, err
	}
	if !q.HasOption(option) {
		return false, fmt.Errorf("%s: %w: %q", q.ID, ErrUnknownOption, option)
	}

	current := a.Selected(q)
	if i := slices.Index(current, option); i >= 0 {
		current = slices.Delete(current, i, i+1)
		if len(current) == 0 {
			delete(a.values, q.ID)
		} else {
			a.values[q.ID] = current
		}
		return true, nil
	}

	if len(current) >= q.Limit() {
		return false, nil
	}

	a.values[q.ID] = append(current, option)
	return true, nil
}

func (a *Answers) Rate(q *Question, n int) error {
	if err := expect(q, Rating); err != nil {
		return err
	}
	if n < RatingMin || n > RatingMax {
		return fmt.Errorf("%s: %w, got %d", q.ID, ErrRatingRange, n)
	}

	a.values[q.ID] = n
	return nil
}

// Write stores a free-text answer. Empty text is stored as is.
func (a *Answers) Write(q *Question, text string) error {
	if err := expect(q, FreeText); err != nil {
		return err
	}

	a.values[q.ID] = text
	return nil
}

// Selected returns a copy of the options picked for a multi-choice question.
func (a *Answers) Selected(q *Question) []string {
	if q == nil {
		return nil
	}
	list, _ := a.values[q.ID].([]string)
	return slices.Clone(list)
}

// Choice returns the single-choice option or free text stored for q.
func (a *Answers) Choice(q *Question) string {
	if q == nil {
		return ""
	}
	s, _ := a.values[q.ID].(string)
	return s
}

// Rating returns the stored rating and whether one is present.
func (a *Answers) Rating(q *Question) (int, bool) {
	if q == nil {
		return 0, false
	}
	n, ok := a.values[q.ID].(int)
	return n, ok
}

// Answered reports whether the stored answer for q allows moving past it.
// Whitespace-only free text does not count as an answer.
func (a *Answers) Answered(q *Question) bool {
	if q == nil {
		return false
	}

	switch q.Type {
	case SingleChoice:
		s := a.Choice(q)
		return s != "" && q.HasOption(s)
	case MultiChoice:
		n := len(a.Selected(q))
		return n > 0 && n <= q.Limit()
	case Rating:
		_, ok := a.Rating(q)
		return ok
	case FreeText:
		return strings.TrimSpace(a.Choice(q)) != ""
	default:
		return false
	}
}

// Snapshot returns a deep copy detached from further mutations.
func (a *Answers) Snapshot() *Answers {
	out := NewAnswers()
	for id, v := range a.values {
		if list, ok := v.([]string); ok {
			v = slices.Clone(list)
		}
		out.values[id] = v
	}
	return out
}

func (a *Answers) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.values)
}

func expect(q *Question, t Type) error {
	if q == nil {
		return ErrNoQuestion
	}
	if q.Type != t {
		return fmt.Errorf("%s: %w: %s question cannot take a %s answer", q.ID, ErrWrongType, q.Type, t)
	}
	return nil
}
