// Package workflow drives a codespace from creation to a checked-out
// branch.
//
// Run performs the steps in a fixed order:
//
//  1. validate the repository and branch (prompting for a missing branch)
//  2. local_pre hooks
//  3. create a codespace, or reuse an existing one
//  4. wait until the workspace directory is reachable over ssh
//  5. local_post_ready hooks
//  6. git credential setup (best-effort)
//  7. git fetch origin
//  8. terminfo upload (best-effort)
//  9. build env exports, then remote_pre_checkout hooks
//  10. check out the branch, creating it when origin lacks it
//  11. remote_post_checkout hooks
//  12. wait for the codespace to finish configuring
//  13. remote_post_config hooks
//
// Every remote interaction goes through the Platform interface so the
// sequence can be tested without gh.
package workflow

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/raphi011/cspace/internal/cmd"
	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/hooks"
	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/remote"
	"github.com/raphi011/cspace/internal/retry"
)

// Wait budgets.
const (
	DefaultReadyAttempts      = 30
	DefaultReadyDelay         = 10 * time.Second
	DefaultConfiguredAttempts = 60
	DefaultConfiguredDelay    = 10 * time.Second
)

// Platform is the subset of codespace.Client the workflow needs.
type Platform interface {
	Create(ctx context.Context, p codespace.CreateParams) (string, error)
	SSH(ctx context.Context, name string, script *remote.Script) (string, error)
	SSHWithInput(ctx context.Context, name string, stdin io.Reader, args ...string) (string, error)
	List(ctx context.Context, repo string) ([]codespace.Codespace, error)
	Start(ctx context.Context, name string) error
	Logs(ctx context.Context, name string) (string, error)
}

// Wait is a polling budget. A zero Attempts selects the default budget.
type Wait struct {
	Attempts int
	Delay    time.Duration
}

// Options are the per-invocation inputs. Empty Machine and
// DevcontainerPath fall back to the resolved configuration.
type Options struct {
	Repo               string
	Branch             string
	Machine            string
	DevcontainerPath   string
	DefaultPermissions bool
	Immediate          bool
	Reuse              bool
	DryRun             bool
	SkipFetch          bool

	Ready      Wait
	Configured Wait
}

// Result describes the codespace the run left behind.
type Result struct {
	Codespace     string
	Repo          string
	Branch        string
	Reused        bool
	BranchCreated bool
	DryRun        bool
}

// ConnectCommand returns the command that opens a shell in the codespace.
func (r *Result) ConnectCommand() string {
	return codespace.ConnectCommand(r.Codespace)
}

// Workflow holds the collaborators shared across runs.
type Workflow struct {
	Platform Platform
	Config   *config.Config

	// Lookup reads the local environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
	// PromptSecret asks for unset secret vars.
	PromptSecret remote.PromptFunc
	// PromptBranch asks for a branch when none was given. ok is false
	// when the user dismissed the prompt.
	PromptBranch func(ctx context.Context) (branch string, ok bool, err error)
	// Terminfo returns the compiled-source description of a terminal.
	// Defaults to "infocmp -x <name>".
	Terminfo func(ctx context.Context, name string) ([]byte, error)
	// Progress shows message until the returned func is called. Only
	// steps that log nothing while running use it.
	Progress func(message string) (stop func())

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Run executes the whole sequence. On failure after the codespace exists
// the partial Result is returned alongside the error.
func (w *Workflow) Run(ctx context.Context, opts Options) (*Result, error) {
	l := log.FromContext(ctx)
	opts = opts.withDefaults()

	if err := ValidateRepo(opts.Repo); err != nil {
		return nil, err
	}
	branch, err := w.resolveBranch(ctx, opts)
	if err != nil {
		return nil, err
	}

	resolved, err := config.ApplyOverrides(w.Config, opts.Repo)
	if err != nil {
		return nil, err
	}
	params := codespace.CreateParams{
		Repo:               opts.Repo,
		Machine:            cmp.Or(opts.Machine, resolved.Machine()),
		DevcontainerPath:   cmp.Or(opts.DevcontainerPath, resolved.DevcontainerPath()),
		DefaultPermissions: opts.DefaultPermissions,
	}

	if opts.DryRun {
		return w.plan(ctx, opts, params, resolved, branch)
	}

	runner := &hooks.Runner{Remote: w.Platform, Stdout: w.Stdout, Stderr: w.Stderr, Stdin: w.Stdin}
	hctx := hooks.Context{Repo: opts.Repo, Branch: branch}

	if err := runStage(ctx, runner, resolved, config.StageLocalPre, hctx); err != nil {
		return nil, err
	}

	name, reused, err := w.acquire(ctx, opts, params)
	if err != nil {
		return nil, err
	}
	res := &Result{Codespace: name, Repo: opts.Repo, Branch: branch, Reused: reused}
	hctx.Codespace = name
	dir := remote.WorkspaceDir(opts.Repo)

	if err := w.waitReady(ctx, opts.Ready, name, dir); err != nil {
		return res, err
	}
	l.Infof("Codespace %s is ready", name)

	if err := runStage(ctx, runner, resolved, config.StageLocalPostReady, hctx); err != nil {
		return res, err
	}

	if resolved.SkipCredentials() {
		l.Debug("skipping credential setup")
	} else {
		w.setupCredentials(ctx, name, dir)
	}

	if opts.SkipFetch || resolved.SkipFetch() {
		l.Debug("skipping fetch")
	} else if err := w.fetch(ctx, name, dir); err != nil {
		return res, err
	}

	if ti := resolved.Terminfo(); ti != "" {
		w.uploadTerminfo(ctx, name, ti)
	}

	exports, err := remote.BuildExports(ctx, resolved, remote.ExportOptions{
		Immediate: opts.Immediate,
		Lookup:    w.Lookup,
		Prompt:    w.PromptSecret,
	})
	if err != nil {
		return res, err
	}
	if len(exports) > 0 {
		l.Debug("remote exports", "names", strings.Join(exports.Names(), ","))
	}
	runner.Exports = exports

	if err := runStage(ctx, runner, resolved, config.StageRemotePreCheckout, hctx); err != nil {
		return res, err
	}

	created, err := w.checkout(ctx, name, dir, branch)
	if err != nil {
		return res, err
	}
	res.BranchCreated = created

	if err := runStage(ctx, runner, resolved, config.StageRemotePostCheckout, hctx); err != nil {
		return res, err
	}

	if err := w.waitConfigured(ctx, opts.Configured, name); err != nil {
		return res, err
	}

	if err := runStage(ctx, runner, resolved, config.StageRemotePostConfig, hctx); err != nil {
		return res, err
	}

	return res, nil
}

// runStage runs the stage's hooks, stopping at the first failure, then
// its optional hooks, whose failures only warn.
func runStage(ctx context.Context, runner *hooks.Runner, resolved *config.Resolved, stage config.Stage, hctx hooks.Context) error {
	if err := runner.Run(ctx, stage, resolved.Hooks(stage), hctx); err != nil {
		return err
	}
	runner.RunBestEffort(ctx, stage, resolved.OptionalHooks(stage), hctx)
	return ctx.Err()
}

func (o Options) withDefaults() Options {
	if o.Ready.Attempts == 0 {
		o.Ready = Wait{Attempts: DefaultReadyAttempts, Delay: DefaultReadyDelay}
	}
	if o.Configured.Attempts == 0 {
		o.Configured = Wait{Attempts: DefaultConfiguredAttempts, Delay: DefaultConfiguredDelay}
	}
	return o
}

func (w *Workflow) resolveBranch(ctx context.Context, opts Options) (string, error) {
	if opts.Branch != "" {
		return opts.Branch, ValidateBranch(opts.Branch)
	}
	if opts.Immediate || w.PromptBranch == nil {
		return "", &ValidationError{Field: "branch", Reason: "a branch name is required"}
	}
	branch, ok, err := w.PromptBranch(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAborted
	}
	branch = strings.TrimSpace(branch)
	return branch, ValidateBranch(branch)
}

// plan prints what a run would do without touching gh.
func (w *Workflow) plan(ctx context.Context, opts Options, p codespace.CreateParams, resolved *config.Resolved, branch string) (*Result, error) {
	out := w.stdout()
	fmt.Fprintf(out, "[dry-run] create: gh %s\n", remote.Join(codespace.CreateArgs(p)...))

	exports, err := remote.BuildExports(ctx, resolved, remote.ExportOptions{Immediate: true, Lookup: w.Lookup})
	if err != nil {
		return nil, err
	}
	runner := &hooks.Runner{Exports: exports, Stdout: out, DryRun: true}
	hctx := hooks.Context{Repo: opts.Repo, Branch: branch, Codespace: "<codespace>"}
	for _, stage := range config.Stages {
		if err := runStage(ctx, runner, resolved, stage, hctx); err != nil {
			return nil, err
		}
	}
	return &Result{Repo: opts.Repo, Branch: branch, DryRun: true}, nil
}

// acquire creates a codespace or, with Reuse, picks an existing one.
func (w *Workflow) acquire(ctx context.Context, opts Options, p codespace.CreateParams) (string, bool, error) {
	l := log.FromContext(ctx)

	if opts.Reuse {
		list, err := w.Platform.List(ctx, opts.Repo)
		if err != nil {
			return "", false, fmt.Errorf("list codespaces: %w", err)
		}
		if cs, ok := pickReusable(list); ok {
			if cs.State != codespace.StateAvailable {
				l.Infof("Starting codespace %s...", cs.Name)
				if err := w.Platform.Start(ctx, cs.Name); err != nil {
					return "", false, fmt.Errorf("start codespace %s: %w", cs.Name, err)
				}
			}
			l.Infof("Reusing codespace %s", cs.Name)
			return cs.Name, true, nil
		}
		l.Infof("No reusable codespace for %s, creating one", opts.Repo)
	}

	l.Infof("Creating codespace for %s on %s...", p.Repo, p.Machine)
	stop := w.progress("Creating codespace...")
	name, err := w.Platform.Create(ctx, p)
	stop()
	if err != nil {
		return "", false, err
	}
	l.Infof("Created codespace %s", name)
	return name, false, nil
}

// pickReusable prefers a running codespace, then a stopped one, most
// recently used first.
func pickReusable(list []codespace.Codespace) (codespace.Codespace, bool) {
	rank := func(state string) int {
		switch state {
		case codespace.StateAvailable:
			return 0
		case codespace.StateShutdown:
			return 1
		}
		return -1
	}
	var candidates []codespace.Codespace
	for _, cs := range list {
		if rank(cs.State) >= 0 {
			candidates = append(candidates, cs)
		}
	}
	if len(candidates) == 0 {
		return codespace.Codespace{}, false
	}
	slices.SortStableFunc(candidates, func(a, b codespace.Codespace) int {
		if c := cmp.Compare(rank(a.State), rank(b.State)); c != 0 {
			return c
		}
		return b.LastUsedAt.Compare(a.LastUsedAt)
	})
	return candidates[0], true
}

func (w *Workflow) waitReady(ctx context.Context, wait Wait, name, dir string) error {
	probe := remote.NewScript("").Run("test", "-d", dir).Run("cd", dir).Run("pwd")

	err := retry.Until(ctx, retry.Options{
		MaxAttempts: wait.Attempts,
		Delay:       wait.Delay,
		Description: "Waiting for codespace " + name + " to become reachable",
	}, func(ctx context.Context) error {
		_, err := w.Platform.SSH(ctx, name, probe)
		var authErr *codespace.AuthorizationError
		if errors.As(err, &authErr) {
			return retry.Permanent(err)
		}
		return err
	})

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return &NotReadyError{Codespace: name, Err: err}
	}
	return err
}

func (w *Workflow) setupCredentials(ctx context.Context, name, dir string) {
	l := log.FromContext(ctx)
	script := remote.NewScript(dir).Run("gh", "auth", "setup-git").Login()
	if _, err := w.Platform.SSH(ctx, name, script); err != nil {
		l.Warnf("Git credential setup failed: %v", err)
	}
}

func (w *Workflow) fetch(ctx context.Context, name, dir string) error {
	l := log.FromContext(ctx)
	l.Infof("Fetching from origin...")
	script := remote.NewScript(dir).Run("git", "fetch", "origin").Login()
	if _, err := w.Platform.SSH(ctx, name, script); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &FetchError{Codespace: name, Err: err}
	}
	return nil
}

func (w *Workflow) uploadTerminfo(ctx context.Context, name, terminfo string) {
	l := log.FromContext(ctx)
	data, err := w.terminfo(ctx, terminfo)
	if err != nil {
		l.Warnf("Could not read local terminfo %s: %v", terminfo, err)
		return
	}
	if _, err := w.Platform.SSHWithInput(ctx, name, bytes.NewReader(data), "tic", "-x", "-"); err != nil {
		l.Warnf("Could not install terminfo %s: %v", terminfo, err)
		return
	}
	l.Debug("installed terminfo", "name", terminfo)
}

// checkout switches to branch, creating it when origin has no such head.
// It reports whether the branch was created.
func (w *Workflow) checkout(ctx context.Context, name, dir, branch string) (bool, error) {
	l := log.FromContext(ctx)

	ls := remote.NewScript(dir).Run("git", "ls-remote", "--heads", "origin", branch).Login()
	out, err := w.Platform.SSH(ctx, name, ls)
	if err != nil {
		return false, fmt.Errorf("look up branch %s on origin: %w", branch, err)
	}

	exists := strings.TrimSpace(out) != ""
	co := remote.NewScript(dir).Login()
	if exists {
		l.Infof("Checking out existing branch %s", branch)
		co.Run("git", "checkout", branch)
	} else {
		l.Infof("Creating new branch %s", branch)
		co.Run("git", "checkout", "-b", branch)
	}
	if _, err := w.Platform.SSH(ctx, name, co); err != nil {
		return false, fmt.Errorf("check out branch %s: %w", branch, err)
	}
	return !exists, nil
}

func (w *Workflow) waitConfigured(ctx context.Context, wait Wait, name string) error {
	err := retry.Until(ctx, retry.Options{
		MaxAttempts: wait.Attempts,
		Delay:       wait.Delay,
		Description: "Waiting for codespace " + name + " to finish configuring",
	}, func(ctx context.Context) error {
		logs, err := w.Platform.Logs(ctx, name)
		if err != nil {
			return err
		}
		if codespace.ConfigurationFinished(logs) {
			return nil
		}
		return errors.New("configuration still running")
	})

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return &ConfigurationPendingError{Codespace: name, Err: err}
	}
	return err
}

func (w *Workflow) terminfo(ctx context.Context, name string) ([]byte, error) {
	if w.Terminfo != nil {
		return w.Terminfo(ctx, name)
	}
	return cmd.OutputContext(ctx, "", "infocmp", "-x", name)
}

func (w *Workflow) progress(message string) func() {
	if w.Progress == nil {
		return func() {}
	}
	return w.Progress(message)
}

func (w *Workflow) stdout() io.Writer {
	if w.Stdout == nil {
		return os.Stdout
	}
	return w.Stdout
}
