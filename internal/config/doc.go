// Package config handles loading and resolution of cspace configuration.
//
// Configuration is read from ${XDG_CONFIG_HOME:-~/.config}/cspace/config.toml
// (CSPACE_CONFIG overrides the path). A missing file yields the built-in
// defaults; an invalid file is a fatal error.
//
// # Configuration Sources (highest priority first)
//
//   - Command-line flags (applied by the caller)
//   - REPO, CODESPACE_SIZE and DEVCONTAINER_PATH env vars
//   - Config file settings
//   - Built-in defaults
//
// # Hooks
//
// Each stage holds an ordered list of shell commands:
//
//	[hooks]
//	local_pre = ["echo starting"]
//	remote_post_checkout = ["make bootstrap"]
//
// Stages: local_pre, local_post_ready, remote_pre_checkout,
// remote_post_checkout, remote_post_config.
//
// # Repository Overrides
//
// [[overrides]] tables are matched against the repository in order. Every
// matching rule contributes; later rules override scalars set by earlier
// ones and append to hook and env lists:
//
//	[[overrides]]
//	pattern = "github/*"
//	machine = "premiumLinux"
//	remote_env_vars = ["RAILS_ENV=development"]
//	[overrides.hooks]
//	remote_post_checkout = ["bin/setup"]
//
// Patterns are globs where * matches any run of characters, including "/".
// Code can register further rules with [Config.Register].
package config
