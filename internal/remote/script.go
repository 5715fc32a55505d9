package remote

import "strings"

// WorkspaceDir returns the checkout location for a repository inside a
// codespace.
func WorkspaceDir(repo string) string {
	name := repo
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		name = repo[i+1:]
	}
	return "/workspaces/" + name
}

// Script is a remote command: optional exports, an optional working
// directory, and steps joined with &&.
type Script struct {
	dir     string
	exports Exports
	steps   []string
	login   bool
}

// NewScript starts a script that changes into dir first. An empty dir
// runs in the remote user's home.
func NewScript(dir string) *Script {
	return &Script{dir: dir}
}

// Run appends an argv step.
func (s *Script) Run(args ...string) *Script {
	s.steps = append(s.steps, Join(args...))
	return s
}

// Shell appends a step that is already shell text, such as a hook.
func (s *Script) Shell(cmd string) *Script {
	s.steps = append(s.steps, cmd)
	return s
}

// WithExports prefixes the script with export statements.
func (s *Script) WithExports(e Exports) *Script {
	s.exports = e
	return s
}

// Login runs the script in a login shell so profile setup (PATH, version
// managers) is in effect.
func (s *Script) Login() *Script {
	s.login = true
	return s
}

// String renders the script body.
func (s *Script) String() string {
	return s.render(false)
}

// Command wraps the body as the single argument passed after "--".
func (s *Script) Command() string {
	return s.wrap(s.render(false))
}

// Redacted is Command with secret export values masked, for logging.
func (s *Script) Redacted() string {
	return s.wrap(s.render(true))
}

func (s *Script) wrap(body string) string {
	if s.login {
		return "bash -l -c " + Quote(body)
	}
	return "bash -c " + Quote(body)
}

func (s *Script) render(redact bool) string {
	var parts []string
	if s.dir != "" {
		parts = append(parts, Join("cd", s.dir))
	}
	parts = append(parts, s.steps...)
	body := strings.Join(parts, " && ")

	if exports := s.exports.render(redact); exports != "" {
		return exports + " " + body
	}
	return body
}
