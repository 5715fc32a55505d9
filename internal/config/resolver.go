package config

import (
	"errors"
	"slices"
)

// Resolved is the effective configuration for one repository.
type Resolved struct {
	cfg  *Config
	repo string
	ov   *Overrides
}

// ApplyOverrides runs every rule matching repo against a fresh Overrides
// and returns the merged view. Nothing carries over between calls.
func ApplyOverrides(cfg *Config, repo string) (*Resolved, error) {
	if repo == "" {
		return nil, errors.New("repository must not be empty")
	}
	ov := newOverrides()
	for _, r := range cfg.rules {
		if RepoMatches(repo, r.Pattern) {
			r.Apply(repo, ov)
		}
	}
	return &Resolved{cfg: cfg, repo: repo, ov: ov}, nil
}

// Repo returns the repository the view was resolved for.
func (r *Resolved) Repo() string {
	return r.repo
}

func (r *Resolved) Machine() string {
	if r.ov.Machine != "" {
		return r.ov.Machine
	}
	return r.cfg.Machine
}

func (r *Resolved) DevcontainerPath() string {
	if r.ov.DevcontainerPath != "" {
		return r.ov.DevcontainerPath
	}
	return r.cfg.DevcontainerPath
}

func (r *Resolved) SkipFetch() bool {
	if r.ov.SkipFetch != nil {
		return *r.ov.SkipFetch
	}
	return r.cfg.SkipFetch
}

func (r *Resolved) SkipCredentials() bool {
	if r.ov.SkipCredentials != nil {
		return *r.ov.SkipCredentials
	}
	return r.cfg.SkipCredentials
}

func (r *Resolved) Terminfo() string {
	return r.cfg.Terminfo
}

// Hooks returns the global commands for stage followed by the
// repository's. Duplicates are kept.
func (r *Resolved) Hooks(stage Stage) []string {
	return slices.Concat(r.cfg.Hooks[stage], r.ov.hooks[stage])
}

// OptionalHooks is Hooks for the best-effort list.
func (r *Resolved) OptionalHooks(stage Stage) []string {
	return slices.Concat(r.cfg.OptionalHooks[stage], r.ov.optional[stage])
}

// RemoteEnv returns the effective remote_env_vars, de-duplicated by name.
func (r *Resolved) RemoteEnv() []EnvVar {
	entries := slices.Concat(r.cfg.RemoteEnvVars, r.ov.remoteEnv)
	vars := make([]EnvVar, len(entries))
	for i, e := range entries {
		vars[i] = ParseEnvVar(e)
	}
	return lastByName(vars, func(v EnvVar) string { return v.Name })
}

// SecretVars returns the effective secret names, de-duplicated.
func (r *Resolved) SecretVars() []string {
	names := make([]string, 0, len(r.cfg.RemoteSecretVars)+len(r.ov.secrets))
	for _, n := range slices.Concat(r.cfg.RemoteSecretVars, r.ov.secrets) {
		names = append(names, ParseEnvVar(n).Name)
	}
	return lastByName(names, func(n string) string { return n })
}
