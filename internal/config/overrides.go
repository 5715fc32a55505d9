package config

import "strings"

// OverrideFunc adjusts the per-repository overrides for a matching repo.
type OverrideFunc func(repo string, ov *Overrides)

// Rule pairs a repository glob with the override it applies.
type Rule struct {
	Pattern string
	Apply   OverrideFunc
}

// Overrides collects repository-specific settings. Unset scalars fall
// back to the global defaults; lists are appended after them.
type Overrides struct {
	Machine          string
	DevcontainerPath string
	SkipCredentials  *bool
	SkipFetch        *bool

	hooks     map[Stage][]string
	optional  map[Stage][]string
	remoteEnv []string
	secrets   []string
}

func newOverrides() *Overrides {
	return &Overrides{
		hooks:    make(map[Stage][]string),
		optional: make(map[Stage][]string),
	}
}

// AddHooks appends commands to a stage.
func (o *Overrides) AddHooks(stage Stage, cmds ...string) {
	if len(cmds) == 0 {
		return
	}
	o.hooks[stage] = append(o.hooks[stage], cmds...)
}

// AddOptionalHooks appends commands whose failures only warn.
func (o *Overrides) AddOptionalHooks(stage Stage, cmds ...string) {
	if len(cmds) == 0 {
		return
	}
	o.optional[stage] = append(o.optional[stage], cmds...)
}

// AddRemoteEnv appends remote_env_vars entries (NAME or NAME=value).
func (o *Overrides) AddRemoteEnv(entries ...string) {
	o.remoteEnv = append(o.remoteEnv, entries...)
}

// AddSecretVars appends secret names.
func (o *Overrides) AddSecretVars(names ...string) {
	o.secrets = append(o.secrets, names...)
}

// Register appends an override rule. Rules run in registration order.
func (c *Config) Register(pattern string, fn OverrideFunc) {
	c.rules = append(c.rules, Rule{Pattern: pattern, Apply: fn})
}

// Rules returns the registered rules.
func (c *Config) Rules() []Rule {
	return c.rules
}

// RepoMatches reports whether repo matches pattern. A * matches any run
// of characters, "/" and the empty string included; everything else is
// literal.
func RepoMatches(repo, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return repo == pattern
	}

	parts := strings.Split(pattern, "*")
	first, last := parts[0], parts[len(parts)-1]
	if !strings.HasPrefix(repo, first) {
		return false
	}
	rest := repo[len(first):]

	for _, mid := range parts[1 : len(parts)-1] {
		i := strings.Index(rest, mid)
		if i < 0 {
			return false
		}
		rest = rest[i+len(mid):]
	}
	return strings.HasSuffix(rest, last)
}
