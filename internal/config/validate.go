package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// rawHooks maps stage names to command lists as they appear in TOML.
type rawHooks map[string][]string

// parseHooks validates stage names and drops blank commands.
// Dropped entries are reported as warnings.
func parseHooks(raw rawHooks, where string) (map[Stage][]string, []string, error) {
	hooks := make(map[Stage][]string)
	var warnings []string
	for _, s := range Stages {
		cmds, ok := raw[string(s)]
		if !ok {
			continue
		}
		for i, c := range cmds {
			if strings.TrimSpace(c) == "" {
				warnings = append(warnings, fmt.Sprintf("ignoring empty command %s.%s[%d]", where, s, i))
				continue
			}
			hooks[s] = append(hooks[s], c)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		if _, err := ParseStage(name); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", where, err)
		}
	}
	return hooks, warnings, nil
}

// validatePattern rejects patterns that can never be meaningful.
func validatePattern(pattern string, index int) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("invalid overrides[%d]: pattern must not be empty", index)
	}
	if strings.ContainsAny(pattern, " \t\n") {
		return fmt.Errorf("invalid overrides[%d] pattern %q: must not contain whitespace", index, pattern)
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
