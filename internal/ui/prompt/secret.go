package prompt

import (
	"context"
	"fmt"
	"os"

	"charm.land/bubbles/v2/textinput"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Secret asks for a value without echoing it. When stderr is not a
// terminal the TUI cannot render, so the terminal is read directly.
func Secret(ctx context.Context, name string) (TextInputResult, error) {
	if !Interactive() {
		return TextInputResult{}, ErrNotInteractive
	}
	prompt := fmt.Sprintf("Enter value for %s (input hidden):", name)

	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return readHidden(ctx, prompt)
	}

	ti := newTextInput("")
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 0

	final, err := run(ctx, textInputModel{textInput: ti, prompt: prompt})
	if err != nil {
		return TextInputResult{}, err
	}
	m := final.(textInputModel)
	return TextInputResult{
		Value:     m.textInput.Value(),
		Cancelled: m.cancelled,
	}, nil
}

func readHidden(ctx context.Context, prompt string) (TextInputResult, error) {
	fmt.Fprint(os.Stdout, prompt+" ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return TextInputResult{}, ctxErr
	}
	if err != nil {
		return TextInputResult{}, fmt.Errorf("read secret: %w", err)
	}
	return TextInputResult{Value: string(b)}, nil
}
