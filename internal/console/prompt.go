package console

import (
	"github.com/manifoldco/promptui"
)

const selectSize = 10

// Prompter asks the visitor for input.
type Prompter interface {
	// Select shows items with the cursor on the given index and returns the chosen index.
	Select(label string, items []string, cursor int) (int, error)
	// Input asks for a line of text, prefilled with initial.
	Input(label, initial string, validate func(string) error) (string, error)
}

// Terminal prompts through promptui.
type Terminal struct{}

func (Terminal) Select(label string, items []string, cursor int) (int, error) {
	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Size:      min(max(len(items), 1), selectSize),
		CursorPos: cursor,
		HideHelp:  true,
	}

	idx, _, err := prompt.Run()
	return idx, err
}

func (Terminal) Input(label, initial string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   initial,
		AllowEdit: true,
		Validate:  validate,
	}

	return prompt.Run()
}
