package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks questions on an input/output pair.
type Prompter struct {
	in     *NonBlockingReader
	out    io.Writer
	secret func() (string, error)
}

// NewPrompter prompts on in and out. When in is a terminal, secrets are read without echo.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	p := &Prompter{in: NewNonBlockingReader(in), out: out}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.secret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			_, _ = fmt.Fprintln(out)
			return string(b), err
		}
	}
	return p
}

// Ask prints label and returns the answer, or def when the answer is blank.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.out, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Secret asks for a value that is not echoed when reading from a terminal.
func (p *Prompter) Secret(ctx context.Context, label string) (string, error) {
	if p.secret == nil {
		return p.Ask(ctx, label, "")
	}
	if _, err := fmt.Fprint(p.out, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.secret()
}

// Confirm asks a y/N question. Only "y" or "yes" confirms.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
