package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickerCanceled is returned when the user backs out of the picker.
var ErrPickerCanceled = errors.New("currency selection canceled")

// SelectCurrency runs the interactive picker and returns the chosen
// currency code.
func SelectCurrency(ctx context.Context, title string, options []string, preselected string) (string, error) {
	program := tea.NewProgram(NewPicker(title, options, preselected), tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("currency picker failed: %w", err)
	}

	m, ok := final.(PickerModel)
	if !ok {
		return "", fmt.Errorf("unexpected picker model type %T", final)
	}
	if m.Canceled() || m.Choice() == "" {
		return "", ErrPickerCanceled
	}
	return m.Choice(), nil
}
