package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// CurrencyPrompter asks the user for a currency code on a plain
// terminal, for environments where the interactive picker is disabled.
type CurrencyPrompter struct {
	reader *LineReader
	writer io.Writer
}

// NewCurrencyPrompter creates a prompter reading from in and writing
// prompts to out.
func NewCurrencyPrompter(in io.Reader, out io.Writer) *CurrencyPrompter {
	return &CurrencyPrompter{
		reader: NewLineReader(in),
		writer: out,
	}
}

// Prompt asks for a currency code, offering the listed options. An
// empty answer picks the fallback; answers are uppercased.
func (p *CurrencyPrompter) Prompt(ctx context.Context, question, fallback string, options []string) (string, error) {
	if len(options) > 0 {
		fmt.Fprintln(p.writer, SubtleStyle.Render("Common choices: "+strings.Join(options, ", ")))
	}
	if fallback != "" {
		question = fmt.Sprintf("%s [%s]", question, fallback)
	}
	fmt.Fprint(p.writer, FormatPrompt(question))

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if answer == "" {
		answer = fallback
	}
	if len(answer) != 3 {
		return "", fmt.Errorf("currency codes are three letters, got %q", answer)
	}
	return answer, nil
}
