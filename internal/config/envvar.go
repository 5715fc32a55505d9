package config

import (
	"regexp"
	"strings"
)

var envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EnvVar is one remote_env_vars entry. A bare NAME takes its value from
// the local environment at export time; NAME=value carries a literal.
type EnvVar struct {
	Name     string
	Value    string
	HasValue bool
}

// ParseEnvVar splits an entry at the first "=".
// Surrounding whitespace is trimmed; the name is not validated.
func ParseEnvVar(entry string) EnvVar {
	entry = strings.TrimSpace(entry)
	name, value, ok := strings.Cut(entry, "=")
	return EnvVar{Name: name, Value: value, HasValue: ok}
}

// ValidEnvName reports whether name is a shell identifier.
func ValidEnvName(name string) bool {
	return envNameRegex.MatchString(name)
}

// String renders the entry back into config form.
func (e EnvVar) String() string {
	if e.HasValue {
		return e.Name + "=" + e.Value
	}
	return e.Name
}
