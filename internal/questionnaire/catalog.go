package questionnaire

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the fixed, ordered list of questions. Order defines navigation.
type Catalog struct {
	questions []Question
	index     map[string]int
}

type catalogFile struct {
	Questions []Question `yaml:"questions"`
}

// NewCatalog validates the questions and returns a catalog holding its own copy of them.
func NewCatalog(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, errors.New("catalog must contain at least one question")
	}

	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}

	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if _, ok := c.index[q.ID]; ok {
			return nil, fmt.Errorf("question %d: duplicate id %q", i+1, q.ID)
		}

		q.Options = append([]string(nil), q.Options...)
		c.index[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}

	return c, nil
}

// LoadCatalog reads a YAML catalog with a top-level "questions" list.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %q: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file %q: %w", path, err)
	}

	c, err := NewCatalog(file.Questions)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}

	return c, nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return errors.New("id is required")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%s: unknown type %q", q.ID, q.Type)
	}

	if !q.Type.HasOptions() {
		if len(q.Options) > 0 {
			return fmt.Errorf("%s: options are only allowed for choice questions", q.ID)
		}
		return nil
	}

	if len(q.Options) == 0 {
		return fmt.Errorf("%s: choice question requires options", q.ID)
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, option := range q.Options {
		if option == "" {
			return fmt.Errorf("%s: empty option", q.ID)
		}
		if _, ok := seen[option]; ok {
			return fmt.Errorf("%s: duplicate option %q", q.ID, option)
		}
		seen[option] = struct{}{}
	}

	if q.MaxSelections < 0 {
		return fmt.Errorf("%s: maxSelections must be positive", q.ID)
	}

	return nil
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at position i or nil when i is out of range.
// The returned question must not be modified.
func (c *Catalog) At(i int) *Question {
	if i < 0 || i >= len(c.questions) {
		return nil
	}
	return &c.questions[i]
}

func (c *Catalog) Lookup(id string) (*Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.questions[i], true
}

// Questions returns a copy of the catalog in navigation order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// MarshalYAML renders the catalog in the same format LoadCatalog reads.
func (c *Catalog) MarshalYAML() (any, error) {
	return catalogFile{Questions: c.Questions()}, nil
}
