package workflow

import (
	"errors"
	"fmt"

	"github.com/raphi011/cspace/internal/codespace"
)

// ErrAborted is returned when the user dismisses a required prompt.
var ErrAborted = errors.New("aborted by user")

// ValidationError rejects input before anything remote happens.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NotReadyError means the codespace never became reachable over ssh.
type NotReadyError struct {
	Codespace string
	Err       error
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("codespace %s did not become reachable: %v", e.Codespace, e.Err)
}

func (e *NotReadyError) Unwrap() error { return e.Err }

// FetchError means "git fetch origin" failed inside the codespace.
type FetchError struct {
	Codespace string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch from origin in %s (git authentication may not be ready yet): %v", e.Codespace, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Hint tells the user how to finish by hand.
func (e *FetchError) Hint() string {
	return "Connect with '" + codespace.ConnectCommand(e.Codespace) + "' and run 'git fetch origin' manually"
}

// ConfigurationPendingError means provisioning did not finish within the
// wait budget. The codespace may still finish in the background.
type ConfigurationPendingError struct {
	Codespace string
	Err       error
}

func (e *ConfigurationPendingError) Error() string {
	return fmt.Sprintf("codespace %s may still be configuring in the background: %v", e.Codespace, e.Err)
}

func (e *ConfigurationPendingError) Unwrap() error { return e.Err }

// Hint tells the user how to check on it.
func (e *ConfigurationPendingError) Hint() string {
	return "Check progress with 'gh cs logs --codespace " + e.Codespace + "' or connect with '" + codespace.ConnectCommand(e.Codespace) + "'"
}
