package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/hooks"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/retry"
	"github.com/raphi011/cspace/internal/workflow"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"success", context.Background(), nil, exitOK},
		{"validation", context.Background(), &workflow.ValidationError{Field: "branch", Reason: "must not be empty"}, exitFailure},
		{"authorization", context.Background(), &codespace.AuthorizationError{}, exitFailure},
		{"config", context.Background(), &configError{err: errors.New("unknown key")}, exitFailure},
		{"hook", context.Background(), &hooks.HookError{Stage: config.StageLocalPre, Err: errors.New("exit status 1")}, exitFailure},
		{"canceled", context.Background(), fmt.Errorf("wait: %w", context.Canceled), exitInterrupted},
		{"aborted prompt", context.Background(), workflow.ErrAborted, exitInterrupted},
		{"failure after signal", cancelled, errors.New("signal: interrupt"), exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.ctx, tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	exhausted := &retry.ExhaustedError{Description: "wait", Attempts: 60, Err: errors.New("still configuring")}

	tests := []struct {
		name      string
		err       error
		wantMsg   string
		wantHints []string
	}{
		{
			name:      "authorization with url",
			err:       fmt.Errorf("create: %w", &codespace.AuthorizationError{URL: "https://github.com/codespaces/allow"}),
			wantMsg:   "authorization of additional permissions",
			wantHints: []string{"https://github.com/codespaces/allow", "--default-permissions"},
		},
		{
			name:      "authorization without url",
			err:       &codespace.AuthorizationError{},
			wantMsg:   "authorization",
			wantHints: []string{"--default-permissions"},
		},
		{
			name:      "configuration pending",
			err:       &workflow.ConfigurationPendingError{Codespace: "cs-1", Err: exhausted},
			wantMsg:   "may still be configuring in the background",
			wantHints: []string{"gh cs ssh -c cs-1"},
		},
		{
			name:      "fetch",
			err:       &workflow.FetchError{Codespace: "cs-1", Err: errors.New("auth failed")},
			wantMsg:   "failed to fetch",
			wantHints: []string{"git fetch origin"},
		},
		{
			name:      "not ready",
			err:       &workflow.NotReadyError{Codespace: "cs-1", Err: exhausted},
			wantMsg:   "did not become reachable",
			wantHints: []string{"gh cs list", "gh cs ssh -c cs-1"},
		},
		{
			name:      "validation",
			err:       &workflow.ValidationError{Field: "repository", Value: "x", Reason: "must be in owner/name form"},
			wantMsg:   `invalid repository "x"`,
			wantHints: []string{"cspace create -h"},
		},
		{
			name:      "config",
			err:       &configError{err: errors.New(`unknown key "hooks.bogus"`)},
			wantMsg:   "Invalid configuration",
			wantHints: []string{"cspace config init --force"},
		},
		{
			name:    "interrupted",
			err:     context.Canceled,
			wantMsg: "Interrupted",
		},
		{
			name:    "plain",
			err:     codespace.ErrGHNotFound,
			wantMsg: "gh not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, hints := describe(tt.err)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message = %q, want to contain %q", msg, tt.wantMsg)
			}
			if len(hints) != len(tt.wantHints) {
				t.Fatalf("hints = %q, want %d hints", hints, len(tt.wantHints))
			}
			for i, want := range tt.wantHints {
				if !strings.Contains(hints[i], want) {
					t.Errorf("hint %d = %q, want to contain %q", i, hints[i], want)
				}
			}
		})
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	var logBuf, hintBuf bytes.Buffer
	l := log.New(&logBuf, false, true)

	report(l, &hintBuf, &workflow.FetchError{Codespace: "cs-1", Err: errors.New("denied")})

	if !strings.HasPrefix(logBuf.String(), "[ERROR] failed to fetch") {
		t.Errorf("log = %q", logBuf.String())
	}
	if !strings.Contains(hintBuf.String(), "  Connect with 'gh cs ssh -c cs-1'") {
		t.Errorf("hints = %q", hintBuf.String())
	}
}

func TestIsUsageError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{&usageError{err: errors.New("unknown flag: --bogus")}, true},
		{errors.New(`unknown command "frob" for "cspace"`), true},
		{errors.New("accepts at most 1 arg(s), received 2"), true},
		{errors.New("gh not found"), false},
	}
	for _, tt := range tests {
		if got := isUsageError(tt.err); got != tt.want {
			t.Errorf("isUsageError(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
