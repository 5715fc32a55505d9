package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raphi011/cspace/internal/cmd"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/remote"
)

// Context holds the values for placeholder substitution.
type Context struct {
	Repo      string // owner/name
	Branch    string
	Codespace string
	Stage     config.Stage
}

// RepoName returns the repository name without its owner.
func (c Context) RepoName() string {
	if i := strings.LastIndex(c.Repo, "/"); i >= 0 {
		return c.Repo[i+1:]
	}
	return c.Repo
}

func (c Context) environ() []string {
	return append(os.Environ(),
		"CSPACE_REPO="+c.Repo,
		"CSPACE_BRANCH="+c.Branch,
		"CSPACE_CODESPACE="+c.Codespace,
		"CSPACE_STAGE="+string(c.Stage),
	)
}

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values.
// Unknown placeholders are left alone.
func SubstitutePlaceholders(command string, c Context) string {
	r := strings.NewReplacer(
		"{repo-name}", remote.Quote(c.RepoName()),
		"{repo}", remote.Quote(c.Repo),
		"{branch}", remote.Quote(c.Branch),
		"{codespace}", remote.Quote(c.Codespace),
		"{stage}", remote.Quote(string(c.Stage)),
	)
	return r.Replace(command)
}

// HookError reports the hook that aborted a stage.
type HookError struct {
	Stage   config.Stage
	Index   int
	Command string
	Err     error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook #%d %q failed: %v", e.Stage, e.Index+1, e.Command, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// RemoteRunner executes a script inside a codespace.
type RemoteRunner interface {
	SSH(ctx context.Context, name string, script *remote.Script) (string, error)
}

// Runner executes hooks for one workflow run.
type Runner struct {
	Remote  RemoteRunner
	Exports remote.Exports
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	DryRun  bool
}

// Run executes cmds for stage in order and stops at the first failure.
// Remote stages need hctx.Codespace.
func (r *Runner) Run(ctx context.Context, stage config.Stage, cmds []string, hctx Context) error {
	if stage.Remote() {
		return r.RunRemote(ctx, stage, cmds, hctx)
	}
	return r.RunLocal(ctx, stage, cmds, hctx)
}

// RunBestEffort executes every command and only warns about failures.
func (r *Runner) RunBestEffort(ctx context.Context, stage config.Stage, cmds []string, hctx Context) {
	l := log.FromContext(ctx)
	hctx.Stage = stage
	for i, c := range cmds {
		if ctx.Err() != nil {
			return
		}
		if err := r.runOne(ctx, i, len(cmds), c, hctx); err != nil {
			l.Warnf("%s hook #%d failed: %v", stage, i+1, err)
		}
	}
}

// RunLocal runs each command through "sh -c" in the current directory.
func (r *Runner) RunLocal(ctx context.Context, stage config.Stage, cmds []string, hctx Context) error {
	hctx.Stage = stage
	for i, c := range cmds {
		if err := r.runLocal(ctx, i, len(cmds), c, hctx); err != nil {
			return &HookError{Stage: stage, Index: i, Command: c, Err: err}
		}
	}
	return nil
}

// RunRemote runs each command in the codespace's workspace directory.
func (r *Runner) RunRemote(ctx context.Context, stage config.Stage, cmds []string, hctx Context) error {
	hctx.Stage = stage
	for i, c := range cmds {
		if err := r.runRemote(ctx, i, len(cmds), c, hctx); err != nil {
			return &HookError{Stage: stage, Index: i, Command: c, Err: err}
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, i, n int, command string, hctx Context) error {
	if hctx.Stage.Remote() {
		return r.runRemote(ctx, i, n, command, hctx)
	}
	return r.runLocal(ctx, i, n, command, hctx)
}

func (r *Runner) runLocal(ctx context.Context, i, n int, command string, hctx Context) error {
	l := log.FromContext(ctx)
	line := SubstitutePlaceholders(command, hctx)

	if r.DryRun {
		fmt.Fprintf(r.stdout(), "[dry-run] %s: %s\n", hctx.Stage, line)
		return nil
	}

	l.Infof("Running %s hook (%d/%d): %s", hctx.Stage, i+1, n, line)

	return cmd.StreamContext(ctx, "", cmd.Streams{
		Env:    hctx.environ(),
		Stdin:  r.Stdin,
		Stdout: r.stdout(),
		Stderr: r.stderr(),
	}, "sh", "-c", line)
}

func (r *Runner) runRemote(ctx context.Context, i, n int, command string, hctx Context) error {
	l := log.FromContext(ctx)
	line := SubstitutePlaceholders(command, hctx)

	script := remote.NewScript(remote.WorkspaceDir(hctx.Repo)).
		WithExports(r.Exports).
		Shell(line).
		Login()

	if r.DryRun {
		fmt.Fprintf(r.stdout(), "[dry-run] %s: %s\n", hctx.Stage, script.Redacted())
		return nil
	}
	if hctx.Codespace == "" {
		return fmt.Errorf("no codespace to run %s hooks in", hctx.Stage)
	}

	l.Infof("Running %s hook (%d/%d): %s", hctx.Stage, i+1, n, line)

	out, err := r.Remote.SSH(ctx, hctx.Codespace, script)
	if out != "" {
		fmt.Fprint(r.stdout(), out)
	}
	return err
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
