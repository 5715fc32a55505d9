package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/cspace/internal/storage"
)

// Built-in defaults.
const (
	DefaultRepo             = "github/github"
	DefaultMachine          = "xLargePremiumLinux"
	DefaultDevcontainerPath = ".devcontainer/devcontainer.json"
	DefaultTerminfo         = "xterm-ghostty"
)

// Env vars that override config file scalars.
const (
	EnvRepo             = "REPO"
	EnvMachine          = "CODESPACE_SIZE"
	EnvDevcontainerPath = "DEVCONTAINER_PATH"
	EnvConfigPath       = "CSPACE_CONFIG"
)

// Config holds the global defaults plus the registered override rules.
type Config struct {
	Repo             string
	Machine          string
	DevcontainerPath string
	Terminfo         string // empty disables the terminfo upload
	SkipCredentials  bool
	SkipFetch        bool

	Hooks            map[Stage][]string
	OptionalHooks    map[Stage][]string // run after Hooks; failures only warn
	RemoteEnvVars    []string
	RemoteSecretVars []string

	// Path is the file the config was read from; empty for built-ins.
	Path string
	// Warnings collects non-fatal problems found while loading.
	Warnings []string

	rules []Rule
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Repo:             DefaultRepo,
		Machine:          DefaultMachine,
		DevcontainerPath: DefaultDevcontainerPath,
		Terminfo:         DefaultTerminfo,
		Hooks:            make(map[Stage][]string),
		OptionalHooks:    make(map[Stage][]string),
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cspace", "config.toml"), nil
}

// rawConfig mirrors the TOML layout.
type rawConfig struct {
	Repo             string        `toml:"repo"`
	Machine          string        `toml:"machine"`
	DevcontainerPath string        `toml:"devcontainer_path"`
	Terminfo         *string       `toml:"terminfo"`
	SkipCredentials  bool          `toml:"skip_credentials"`
	SkipFetch        bool          `toml:"skip_fetch"`
	Hooks            rawHooks      `toml:"hooks"`
	OptionalHooks    rawHooks      `toml:"optional_hooks"`
	RemoteEnvVars    []string      `toml:"remote_env_vars"`
	RemoteSecretVars []string      `toml:"remote_secret_vars"`
	Overrides        []rawOverride `toml:"overrides"`
}

type rawOverride struct {
	Pattern          string   `toml:"pattern"`
	Machine          string   `toml:"machine"`
	DevcontainerPath string   `toml:"devcontainer_path"`
	SkipCredentials  *bool    `toml:"skip_credentials"`
	SkipFetch        *bool    `toml:"skip_fetch"`
	Hooks            rawHooks `toml:"hooks"`
	OptionalHooks    rawHooks `toml:"optional_hooks"`
	RemoteEnvVars    []string `toml:"remote_env_vars"`
	RemoteSecretVars []string `toml:"remote_secret_vars"`
}

// Load reads the config file at Path and applies env overrides.
// Returns defaults if the file doesn't exist; any other problem is fatal.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("invalid config file %s: unknown key %q", path, undecoded[0].String())
	}

	cfg.Path = path
	if raw.Repo != "" {
		cfg.Repo = raw.Repo
	}
	if raw.Machine != "" {
		cfg.Machine = raw.Machine
	}
	if raw.DevcontainerPath != "" {
		cfg.DevcontainerPath = raw.DevcontainerPath
	}
	if raw.Terminfo != nil {
		cfg.Terminfo = *raw.Terminfo
	}
	cfg.SkipCredentials = raw.SkipCredentials
	cfg.SkipFetch = raw.SkipFetch
	cfg.RemoteEnvVars = raw.RemoteEnvVars
	cfg.RemoteSecretVars = raw.RemoteSecretVars

	hooks, warnings, err := parseHooks(raw.Hooks, "hooks")
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	cfg.Hooks = hooks
	cfg.Warnings = append(cfg.Warnings, warnings...)

	optional, warnings, err := parseHooks(raw.OptionalHooks, "optional_hooks")
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	cfg.OptionalHooks = optional
	cfg.Warnings = append(cfg.Warnings, warnings...)

	for i, o := range raw.Overrides {
		if err := validatePattern(o.Pattern, i); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		oh, warnings, err := parseHooks(o.Hooks, fmt.Sprintf("overrides[%d].hooks", i))
		if err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		cfg.Warnings = append(cfg.Warnings, warnings...)
		oo, warnings, err := parseHooks(o.OptionalHooks, fmt.Sprintf("overrides[%d].optional_hooks", i))
		if err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		cfg.Warnings = append(cfg.Warnings, warnings...)
		cfg.Register(o.Pattern, o.overrideFunc(oh, oo))
	}

	return cfg, nil
}

// overrideFunc turns a [[overrides]] table into a rule body.
func (o rawOverride) overrideFunc(hooks, optional map[Stage][]string) OverrideFunc {
	return func(_ string, ov *Overrides) {
		if o.Machine != "" {
			ov.Machine = o.Machine
		}
		if o.DevcontainerPath != "" {
			ov.DevcontainerPath = o.DevcontainerPath
		}
		if o.SkipCredentials != nil {
			ov.SkipCredentials = o.SkipCredentials
		}
		if o.SkipFetch != nil {
			ov.SkipFetch = o.SkipFetch
		}
		for _, s := range Stages {
			ov.AddHooks(s, hooks[s]...)
			ov.AddOptionalHooks(s, optional[s]...)
		}
		ov.AddRemoteEnv(o.RemoteEnvVars...)
		ov.AddSecretVars(o.RemoteSecretVars...)
	}
}

// applyEnvOverrides lets REPO, CODESPACE_SIZE and DEVCONTAINER_PATH
// replace file values. Empty variables are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvRepo); v != "" {
		cfg.Repo = v
	}
	if v := os.Getenv(EnvMachine); v != "" {
		cfg.Machine = v
	}
	if v := os.Getenv(EnvDevcontainerPath); v != "" {
		cfg.DevcontainerPath = v
	}
}

type configKey struct{}

// WithConfig stores the config in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from the context, or built-in defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}

const defaultConfig = `# cspace configuration

# Repository used when none is given on the command line (REPO env var wins)
# repo = "github/github"

# Machine type (CODESPACE_SIZE env var wins)
# machine = "xLargePremiumLinux"

# Devcontainer definition inside the repository (DEVCONTAINER_PATH env var wins)
# devcontainer_path = ".devcontainer/devcontainer.json"

# Terminal description uploaded with "infocmp -x | tic -x -"; "" disables it
# terminfo = "xterm-ghostty"

# Skip "gh auth setup-git" inside the codespace
# skip_credentials = false

# Skip "git fetch origin" before checkout
# skip_fetch = false

# Env vars exported before remote hooks and the checkout.
# "NAME" copies the local value, "NAME=value" sets a literal.
# remote_env_vars = ["EDITOR", "RAILS_ENV=development"]

# Secret names taken from the local environment or prompted for (hidden).
# remote_secret_vars = ["NPM_TOKEN"]

# Hooks run sequentially; the first failure aborts the workflow.
# Local hooks run through "sh -c", remote hooks through a login shell in
# /workspaces/<repo-name>.
#
# Placeholders (shell-quoted):
#   {repo}       - owner/name
#   {repo-name}  - name only
#   {branch}     - branch being checked out
#   {codespace}  - codespace name (empty for local_pre)
#   {stage}      - current stage
#
# [hooks]
# local_pre = ["echo creating {repo}"]
# local_post_ready = []
# remote_pre_checkout = []
# remote_post_checkout = ["bin/setup"]
# remote_post_config = []

# Optional hooks run after a stage's hooks. A failure is logged as a
# warning and the workflow carries on.
#
# [optional_hooks]
# remote_post_config = ["bin/warm-caches"]

# Repository overrides. Every matching rule applies in order; scalars are
# replaced, hook and env lists are appended. * matches anything, "/" included.
#
# [[overrides]]
# pattern = "github/*"
# machine = "premiumLinux"
# remote_env_vars = ["RAILS_ENV=test"]
# [overrides.hooks]
# remote_post_checkout = ["script/bootstrap"]
# [overrides.optional_hooks]
# remote_post_config = ["script/prefetch"]
`

// Template returns the commented config written by Init.
func Template() string {
	return defaultConfig
}

// Init writes the default config to Path.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := storage.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
