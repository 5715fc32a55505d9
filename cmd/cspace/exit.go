package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/workflow"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// configError marks a failure to load the config file.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var uErr *usageError
	if errors.As(err, &uErr) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.Contains(msg, "were all set") ||
		strings.HasPrefix(msg, "if any flags in the group")
}

// exitCode maps err to the process exit status. Anything that happened
// after a signal counts as an interruption.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled), errors.Is(err, workflow.ErrAborted), ctx.Err() != nil:
		return exitInterrupted
	default:
		return exitFailure
	}
}

// describe returns the user-facing message for err and follow-up hints.
func describe(err error) (string, []string) {
	var (
		vErr       *workflow.ValidationError
		authErr    *codespace.AuthorizationError
		readyErr   *workflow.NotReadyError
		fetchErr   *workflow.FetchError
		pendingErr *workflow.ConfigurationPendingError
		cfgErr     *configError
	)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, workflow.ErrAborted):
		return "Interrupted", nil

	case errors.As(err, &vErr):
		return err.Error(), []string{"Run 'cspace create -h' for usage"}

	case errors.As(err, &authErr):
		var hints []string
		if authErr.URL != "" {
			hints = append(hints, "Authorize the requested permissions at "+authErr.URL+" and run the command again")
		}
		hints = append(hints, "Or rerun with --default-permissions to create the codespace without them")
		return "The codespace requires authorization of additional permissions", hints

	case errors.As(err, &readyErr):
		return err.Error(), []string{
			"Check its state with 'gh cs list'",
			"Connect manually with '" + codespace.ConnectCommand(readyErr.Codespace) + "'",
		}

	case errors.As(err, &fetchErr):
		return err.Error(), []string{fetchErr.Hint()}

	case errors.As(err, &pendingErr):
		return err.Error(), []string{pendingErr.Hint()}

	case errors.As(err, &cfgErr):
		path, _ := config.Path()
		return "Invalid configuration: " + err.Error(), []string{
			fmt.Sprintf("Fix %s or regenerate it with 'cspace config init --force'", path),
		}
	}
	return err.Error(), nil
}

// report logs err and prints its hints below it.
func report(l *log.Logger, w io.Writer, err error) {
	msg, hints := describe(err)
	l.Errorf("%s", msg)
	for _, h := range hints {
		fmt.Fprintf(w, "  %s\n", h)
	}
}
