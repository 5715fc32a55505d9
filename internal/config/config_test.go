package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Repo != "github/github" {
		t.Errorf("Repo = %q, want %q", cfg.Repo, "github/github")
	}
	if cfg.Machine != "xLargePremiumLinux" {
		t.Errorf("Machine = %q, want %q", cfg.Machine, "xLargePremiumLinux")
	}
	if cfg.DevcontainerPath != ".devcontainer/devcontainer.json" {
		t.Errorf("DevcontainerPath = %q", cfg.DevcontainerPath)
	}
	if cfg.Terminfo != "xterm-ghostty" {
		t.Errorf("Terminfo = %q, want %q", cfg.Terminfo, "xterm-ghostty")
	}
	for _, s := range Stages {
		if len(cfg.Hooks[s]) != 0 {
			t.Errorf("Hooks[%s] = %v, want empty", s, cfg.Hooks[s])
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	cfg, err := loadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadFile() error = %v, want nil", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for built-in defaults", cfg.Path)
	}
	if cfg.Machine != DefaultMachine {
		t.Errorf("Machine = %q, want default", cfg.Machine)
	}
}

func TestLoadFile_Full(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
repo = "octo/app"
machine = "basicLinux32gb"
devcontainer_path = ".devcontainer/ci/devcontainer.json"
terminfo = ""
skip_credentials = true
skip_fetch = true
remote_env_vars = ["EDITOR", "RAILS_ENV=development"]
remote_secret_vars = ["NPM_TOKEN"]

[hooks]
local_pre = ["echo a", "echo b"]
remote_post_checkout = ["bin/setup"]

[[overrides]]
pattern = "octo/*"
machine = "premiumLinux"

[overrides.hooks]
local_pre = ["echo octo"]
`)

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile() error = %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Repo != "octo/app" || cfg.Machine != "basicLinux32gb" {
		t.Errorf("scalars = %q/%q", cfg.Repo, cfg.Machine)
	}
	if cfg.DevcontainerPath != ".devcontainer/ci/devcontainer.json" {
		t.Errorf("DevcontainerPath = %q", cfg.DevcontainerPath)
	}
	if cfg.Terminfo != "" {
		t.Errorf("Terminfo = %q, want empty (explicitly disabled)", cfg.Terminfo)
	}
	if !cfg.SkipCredentials || !cfg.SkipFetch {
		t.Errorf("skip flags = %v/%v, want true/true", cfg.SkipCredentials, cfg.SkipFetch)
	}
	if got := strings.Join(cfg.Hooks[StageLocalPre], ","); got != "echo a,echo b" {
		t.Errorf("Hooks[local_pre] = %q", got)
	}
	if got := strings.Join(cfg.Hooks[StageRemotePostCheckout], ","); got != "bin/setup" {
		t.Errorf("Hooks[remote_post_checkout] = %q", got)
	}
	if len(cfg.Rules()) != 1 || cfg.Rules()[0].Pattern != "octo/*" {
		t.Fatalf("Rules() = %+v, want one octo/* rule", cfg.Rules())
	}

	r, err := ApplyOverrides(&cfg, "octo/app")
	if err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	if r.Machine() != "premiumLinux" {
		t.Errorf("Machine() = %q, want override", r.Machine())
	}
	if got := strings.Join(r.Hooks(StageLocalPre), ","); got != "echo a,echo b,echo octo" {
		t.Errorf("Hooks(local_pre) = %q", got)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "syntax error",
			content: "repo = ",
			wantErr: "failed to parse config file",
		},
		{
			name:    "unknown top-level key",
			content: `machin = "x"`,
			wantErr: `unknown key "machin"`,
		},
		{
			name:    "unknown stage",
			content: "[hooks]\nremote_pre_config = [\"x\"]",
			wantErr: `unknown hook stage "remote_pre_config"`,
		},
		{
			name:    "wrong type",
			content: `remote_env_vars = "FOO"`,
			wantErr: "failed to parse config file",
		},
		{
			name:    "empty override pattern",
			content: "[[overrides]]\nmachine = \"x\"",
			wantErr: "pattern must not be empty",
		},
		{
			name:    "unknown stage in override",
			content: "[[overrides]]\npattern = \"*\"\n[overrides.hooks]\nnope = []",
			wantErr: `overrides[0].hooks: unknown hook stage "nope"`,
		},
		{
			name:    "unknown optional stage",
			content: "[optional_hooks]\nafter_checkout = [\"x\"]",
			wantErr: `optional_hooks: unknown hook stage "after_checkout"`,
		},
		{
			name:    "unknown key in override",
			content: "[[overrides]]\npattern = \"*\"\nsize = \"x\"",
			wantErr: "unknown key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := loadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("loadFile() = %+v, want error containing %q", cfg, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("loadFile() error = %q, want it to contain %q", err, tt.wantErr)
			}
			if cfg.Repo != "" || cfg.Hooks != nil {
				t.Errorf("loadFile() returned partial config %+v on error", cfg)
			}
		})
	}
}

func TestLoadFile_OptionalHooks(t *testing.T) {
	t.Parallel()

	cfg, err := loadFile(writeConfig(t, `
[hooks]
remote_post_config = ["bin/required"]

[optional_hooks]
remote_post_config = ["bin/warm-caches"]
local_post_ready = [" "]

[[overrides]]
pattern = "octo/*"
[overrides.optional_hooks]
remote_post_config = ["script/prefetch"]
`))
	if err != nil {
		t.Fatalf("loadFile() error = %v", err)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "optional_hooks.local_post_ready[0]") {
		t.Errorf("Warnings = %q, want one for optional_hooks.local_post_ready[0]", cfg.Warnings)
	}

	r, err := ApplyOverrides(&cfg, "octo/app")
	if err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	if got := strings.Join(r.Hooks(StageRemotePostConfig), ","); got != "bin/required" {
		t.Errorf("Hooks(remote_post_config) = %q, want only the required hook", got)
	}
	if got := strings.Join(r.OptionalHooks(StageRemotePostConfig), ","); got != "bin/warm-caches,script/prefetch" {
		t.Errorf("OptionalHooks(remote_post_config) = %q", got)
	}

	other, err := ApplyOverrides(&cfg, "acme/api")
	if err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	if got := strings.Join(other.OptionalHooks(StageRemotePostConfig), ","); got != "bin/warm-caches" {
		t.Errorf("OptionalHooks(remote_post_config) for acme/api = %q", got)
	}
}

func TestLoadFile_BlankHookWarns(t *testing.T) {
	t.Parallel()

	cfg, err := loadFile(writeConfig(t, "[hooks]\nlocal_pre = [\"echo ok\", \"  \"]"))
	if err != nil {
		t.Fatalf("loadFile() error = %v", err)
	}
	if got := cfg.Hooks[StageLocalPre]; len(got) != 1 || got[0] != "echo ok" {
		t.Errorf("Hooks[local_pre] = %q, want only the non-blank entry", got)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "hooks.local_pre[1]") {
		t.Errorf("Warnings = %q, want one for hooks.local_pre[1]", cfg.Warnings)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	// Cannot use t.Parallel(): t.Setenv mutates process env
	t.Run("env vars replace file values", func(t *testing.T) {
		t.Setenv(EnvRepo, "octo/env")
		t.Setenv(EnvMachine, "largePremiumLinux")
		t.Setenv(EnvDevcontainerPath, ".devcontainer/env.json")

		cfg, err := LoadFile(writeConfig(t, `repo = "octo/file"`+"\n"+`machine = "basicLinux32gb"`))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Repo != "octo/env" {
			t.Errorf("Repo = %q, want %q", cfg.Repo, "octo/env")
		}
		if cfg.Machine != "largePremiumLinux" {
			t.Errorf("Machine = %q, want %q", cfg.Machine, "largePremiumLinux")
		}
		if cfg.DevcontainerPath != ".devcontainer/env.json" {
			t.Errorf("DevcontainerPath = %q", cfg.DevcontainerPath)
		}
	})

	t.Run("empty env vars leave config unchanged", func(t *testing.T) {
		t.Setenv(EnvRepo, "")
		t.Setenv(EnvMachine, "")
		t.Setenv(EnvDevcontainerPath, "")
		cfg := Default()
		applyEnvOverrides(&cfg)
		if cfg.Repo != DefaultRepo || cfg.Machine != DefaultMachine {
			t.Errorf("config changed: %q/%q", cfg.Repo, cfg.Machine)
		}
	})
}

func TestPath(t *testing.T) {
	t.Run("explicit override", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/tmp/custom.toml")
		got, err := Path()
		if err != nil || got != "/tmp/custom.toml" {
			t.Errorf("Path() = %q, %v", got, err)
		}
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		got, err := Path()
		if err != nil || got != "/xdg/cspace/config.toml" {
			t.Errorf("Path() = %q, %v", got, err)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		got, err := Path()
		if err != nil || got != filepath.Join(home, ".config", "cspace", "config.toml") {
			t.Errorf("Path() = %q, %v", got, err)
		}
	})
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	t.Setenv(EnvConfigPath, path)

	got, err := Init(false)
	if err != nil {
		t.Fatalf("Init(false) error = %v", err)
	}
	if got != path {
		t.Errorf("Init() path = %q, want %q", got, path)
	}

	if _, err := Init(false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second Init(false) error = %v, want already exists", err)
	}
	if _, err := Init(true); err != nil {
		t.Errorf("Init(true) error = %v, want overwrite", err)
	}

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("written template does not load: %v", err)
	}
	if cfg.Machine != DefaultMachine {
		t.Errorf("template Machine = %q, want default", cfg.Machine)
	}
}

func TestTemplateIsValidTOML(t *testing.T) {
	t.Parallel()
	var raw rawConfig
	if _, err := toml.Decode(Template(), &raw); err != nil {
		t.Errorf("Template() is not valid TOML: %v", err)
	}
}

func TestParseStage(t *testing.T) {
	t.Parallel()

	for _, s := range Stages {
		got, err := ParseStage(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStage(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseStage("remote_pre_config"); err == nil {
		t.Error("ParseStage(unknown) = nil error")
	}
	if !StageRemotePostConfig.Remote() || StageLocalPostReady.Remote() {
		t.Error("Stage.Remote() misclassifies stages")
	}
}

func TestParseEnvVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry string
		want  EnvVar
		valid bool
	}{
		{"EDITOR", EnvVar{Name: "EDITOR"}, true},
		{"RAILS_ENV=test", EnvVar{Name: "RAILS_ENV", Value: "test", HasValue: true}, true},
		{"URL=a=b", EnvVar{Name: "URL", Value: "a=b", HasValue: true}, true},
		{"EMPTY=", EnvVar{Name: "EMPTY", HasValue: true}, true},
		{"  _X1  ", EnvVar{Name: "_X1"}, true},
		{"1BAD", EnvVar{Name: "1BAD"}, false},
		{"BAD-NAME=x", EnvVar{Name: "BAD-NAME", Value: "x", HasValue: true}, false},
		{"", EnvVar{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			t.Parallel()
			got := ParseEnvVar(tt.entry)
			if got != tt.want {
				t.Errorf("ParseEnvVar(%q) = %+v, want %+v", tt.entry, got, tt.want)
			}
			if ValidEnvName(got.Name) != tt.valid {
				t.Errorf("ValidEnvName(%q) = %v, want %v", got.Name, !tt.valid, tt.valid)
			}
		})
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}
	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}
