package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/cspace/internal/log"
)

func quietCtx() context.Context {
	return log.WithLogger(context.Background(), log.New(&bytes.Buffer{}, false, false))
}

func TestOutputContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "stdout is returned untrimmed", args: []string{"printf", `xterm-ghostty|ghostty,\n`}, want: "xterm-ghostty|ghostty,\n"},
		{name: "stderr becomes the error", args: []string{"sh", "-c", "echo 'infocmp: couldn'\\''t open terminfo file' >&2; exit 1"}, wantErr: "infocmp: couldn't open terminfo file"},
		{name: "exit status without stderr", args: []string{"sh", "-c", "exit 3"}, wantErr: "exit status 3"},
		{name: "missing binary", args: []string{"cspace-no-such-binary"}, wantErr: "executable file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := OutputContext(quietCtx(), "", tt.args[0], tt.args[1:]...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("OutputContext() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OutputContext() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("OutputContext() = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestOutputContext_Dir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := OutputContext(quietCtx(), dir, "pwd")
	if err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	if got := filepath.Base(strings.TrimSpace(string(out))); got != filepath.Base(dir) {
		t.Errorf("pwd = %q, want %q", out, dir)
	}
}

func TestOutputContext_TracesInVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if _, err := OutputContext(ctx, "", "echo", "traced"); err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	if got := buf.String(); !strings.HasPrefix(got, "$ echo traced (") {
		t.Errorf("trace = %q, want it to start with %q", got, "$ echo traced (")
	}
}

func TestCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(quietCtx())
	cancel()

	if _, err := OutputContext(ctx, "", "sleep", "10"); !errors.Is(err, context.Canceled) {
		t.Errorf("OutputContext() error = %v, want context.Canceled", err)
	}
	if err := RunContext(ctx, "", "sleep", "10"); !errors.Is(err, context.Canceled) {
		t.Errorf("RunContext() error = %v, want context.Canceled", err)
	}
}

func TestRunContext(t *testing.T) {
	t.Parallel()

	if err := RunContext(quietCtx(), "", "true"); err != nil {
		t.Errorf("RunContext(true) = %v", err)
	}
	if err := RunContext(quietCtx(), "", "false"); err == nil {
		t.Error("RunContext(false) = nil, want error")
	}
}

func TestStreamContext(t *testing.T) {
	t.Parallel()

	t.Run("wires env and streams", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := StreamContext(quietCtx(), "", Streams{
			Env:    append(os.Environ(), "CSPACE_STAGE=local_pre"),
			Stdin:  strings.NewReader("from stdin\n"),
			Stdout: &stdout,
			Stderr: &stderr,
		}, "sh", "-c", `echo "$CSPACE_STAGE"; cat; echo oops >&2`)
		if err != nil {
			t.Fatalf("StreamContext() error = %v", err)
		}
		if got := stdout.String(); got != "local_pre\nfrom stdin\n" {
			t.Errorf("stdout = %q", got)
		}
		if got := stderr.String(); got != "oops\n" {
			t.Errorf("stderr = %q", got)
		}
	})

	t.Run("exit status", func(t *testing.T) {
		t.Parallel()
		err := StreamContext(quietCtx(), "", Streams{}, "sh", "-c", "exit 4")
		if err == nil || !strings.Contains(err.Error(), "exit status 4") {
			t.Errorf("StreamContext() error = %v, want exit status 4", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(quietCtx())
		cancel()
		if err := StreamContext(ctx, "", Streams{}, "sleep", "10"); !errors.Is(err, context.Canceled) {
			t.Errorf("StreamContext() error = %v, want context.Canceled", err)
		}
	})
}
