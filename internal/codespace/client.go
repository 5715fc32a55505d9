package codespace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/raphi011/cspace/internal/log"
	"github.com/raphi011/cspace/internal/remote"
)

// configuredMarker is the last log line once provisioning finished.
const configuredMarker = "Finished configuring codespace."

// listFields are requested from "gh cs list --json".
const listFields = "name,displayName,state,repository,gitStatus,machineName,lastUsedAt"

// States reported by gh that cspace acts on.
const (
	StateAvailable = "Available"
	StateShutdown  = "Shutdown"
)

// Codespace is one entry of "gh cs list".
type Codespace struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	State       string    `json:"state"`
	Repository  string    `json:"repository"`
	GitStatus   GitStatus `json:"gitStatus"`
	MachineName string    `json:"machineName"`
	LastUsedAt  time.Time `json:"lastUsedAt"`
}

// GitStatus is the branch state gh reports for a codespace.
type GitStatus struct {
	Ref                   string `json:"ref"`
	HasUncommittedChanges bool   `json:"hasUncommittedChanges"`
	HasUnpushedChanges    bool   `json:"hasUnpushedChanges"`
}

// Branch returns the checked-out branch.
func (c Codespace) Branch() string {
	return c.GitStatus.Ref
}

// CreateParams configures "gh cs create".
type CreateParams struct {
	Repo               string
	Machine            string
	DevcontainerPath   string
	DefaultPermissions bool
}

// Client runs codespace operations through gh.
type Client struct {
	runner Runner
}

// New returns a client using r. A nil runner uses the gh binary.
func New(r Runner) *Client {
	if r == nil {
		r = GHRunner{}
	}
	return &Client{runner: r}
}

// exec runs gh, tracing display instead of args so secrets stay out of
// the log.
func (c *Client) exec(ctx context.Context, display []string, args ...string) (string, error) {
	if display == nil {
		display = args
	}
	done := log.FromContext(ctx).Command("", "gh", display...)
	start := time.Now()
	stdout, stderr, err := c.runner.Exec(ctx, args...)
	done(time.Since(start))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return string(stdout), &CommandError{Args: display, Stdout: string(stdout), Stderr: string(stderr), Err: err}
	}
	return string(stdout), nil
}

// CreateArgs returns the gh arguments for creating a codespace.
func CreateArgs(p CreateParams) []string {
	args := []string{"cs", "create", "-R", p.Repo, "-m", p.Machine, "--devcontainer-path", p.DevcontainerPath}
	if p.DefaultPermissions {
		args = append(args, "--default-permissions")
	}
	return args
}

// Create creates a codespace and returns its name.
func (c *Client) Create(ctx context.Context, p CreateParams) (string, error) {
	args := CreateArgs(p)

	out, err := c.exec(ctx, nil, args...)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			if authErr := parseAuthorization(cmdErr.Stdout + "\n" + cmdErr.Stderr); authErr != nil {
				return "", authErr
			}
		}
		return "", err
	}
	if authErr := parseAuthorization(out); authErr != nil {
		return "", authErr
	}

	name := lastLine(out)
	if name == "" {
		return "", errors.New("gh cs create returned no codespace name")
	}
	return name, nil
}

// SSH runs script in the codespace and returns its stdout. The script is
// logged in redacted form.
func (c *Client) SSH(ctx context.Context, name string, script *remote.Script) (string, error) {
	display := []string{"cs", "ssh", "-c", name, "--", script.Redacted()}
	out, err := c.exec(ctx, display, "cs", "ssh", "-c", name, "--", script.Command())
	if err != nil {
		if authErr := authorizationFrom(err); authErr != nil {
			return "", authErr
		}
		return "", err
	}
	return out, nil
}

// SSHWithInput runs argv remotely with stdin attached.
func (c *Client) SSHWithInput(ctx context.Context, name string, stdin io.Reader, args ...string) (string, error) {
	ghArgs := append([]string{"cs", "ssh", "-c", name, "--"}, args...)
	done := log.FromContext(ctx).Command("", "gh", ghArgs...)
	start := time.Now()
	stdout, stderr, err := c.runner.ExecWithInput(ctx, stdin, ghArgs...)
	done(time.Since(start))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &CommandError{Args: ghArgs, Stdout: string(stdout), Stderr: string(stderr), Err: err}
	}
	return string(stdout), nil
}

// List returns the codespaces of repo, or all codespaces when repo is
// empty.
func (c *Client) List(ctx context.Context, repo string) ([]Codespace, error) {
	args := []string{"cs", "list", "--json", listFields}
	if repo != "" {
		args = append(args, "--repo", repo)
	}
	out, err := c.exec(ctx, nil, args...)
	if err != nil {
		return nil, err
	}

	var list []Codespace
	if strings.TrimSpace(out) == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, fmt.Errorf("parse gh cs list output: %w", err)
	}
	return list, nil
}

// Start boots a shut down codespace.
func (c *Client) Start(ctx context.Context, name string) error {
	_, err := c.exec(ctx, nil, "api", "--method", "POST", "user/codespaces/"+name+"/start")
	return err
}

// Delete removes a codespace without gh's own confirmation.
func (c *Client) Delete(ctx context.Context, name string) error {
	_, err := c.exec(ctx, nil, "cs", "delete", "--codespace", name, "--force")
	return err
}

// Logs returns the creation log of a codespace.
func (c *Client) Logs(ctx context.Context, name string) (string, error) {
	return c.exec(ctx, nil, "cs", "logs", "--codespace", name)
}

// Connect opens an interactive ssh session.
func (c *Client) Connect(ctx context.Context, name string) error {
	args := []string{"cs", "ssh", "-c", name}
	log.FromContext(ctx).Command("", "gh", args...)(0)
	return c.runner.Interactive(ctx, args...)
}

// ConfigurationFinished reports whether the last non-empty log line says
// provisioning is done.
func ConfigurationFinished(logs string) bool {
	return strings.Contains(lastLine(logs), configuredMarker)
}

// ConnectCommand is the command a user runs to open a shell.
func ConnectCommand(name string) string {
	return "gh cs ssh -c " + name
}

func authorizationFrom(err error) *AuthorizationError {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return nil
	}
	return parseAuthorization(cmdErr.Stdout + "\n" + cmdErr.Stderr)
}

// lastLine returns the last non-empty line, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
