package prompt

import (
	"context"
	"errors"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a prompt needs a terminal.
var ErrNotInteractive = errors.New("cannot prompt: stdin is not a terminal (use --immediate or pass the value as a flag)")

// Interactive reports whether prompts can be shown.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// run shows model on stderr until it quits or ctx is cancelled.
func run(ctx context.Context, model tea.Model) (tea.Model, error) {
	if !Interactive() {
		return nil, ErrNotInteractive
	}
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return final, nil
}
