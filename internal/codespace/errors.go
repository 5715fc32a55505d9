package codespace

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrGHNotFound indicates gh CLI is not installed or not in PATH
var ErrGHNotFound = errors.New("gh not found: please install GitHub CLI (https://cli.github.com)")

// ErrGHNotAuthenticated indicates gh CLI is installed but not authenticated
var ErrGHNotAuthenticated = errors.New("gh not authenticated: please run 'gh auth login'")

// authorizationMarker is printed by gh when the devcontainer requests
// permissions beyond the repository.
const authorizationMarker = "You must authorize or deny additional permissions"

var authorizationURL = regexp.MustCompile(`https://github\.com/[^\s]*`)

// AuthorizationError means the codespace needs extra permissions approved
// in the browser before it can be created.
type AuthorizationError struct {
	URL string
}

func (e *AuthorizationError) Error() string {
	if e.URL == "" {
		return "codespace requires authorization of additional permissions"
	}
	return "codespace requires authorization of additional permissions: " + e.URL
}

// parseAuthorization returns an AuthorizationError when output carries
// the authorization marker.
func parseAuthorization(output string) *AuthorizationError {
	if !strings.Contains(output, authorizationMarker) {
		return nil
	}
	return &AuthorizationError{URL: authorizationURL.FindString(output)}
}

// CommandError is a failed gh invocation.
type CommandError struct {
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Stdout)
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("gh %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
