package workflow

import (
	"regexp"
	"strings"
	"unicode"
)

var repoRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ValidateRepo checks the owner/name form.
func ValidateRepo(repo string) error {
	if repo == "" {
		return &ValidationError{Field: "repository", Reason: "must not be empty"}
	}
	if !repoRegex.MatchString(repo) {
		return &ValidationError{Field: "repository", Value: repo, Reason: "must be in owner/name form"}
	}
	return nil
}

// ValidateBranch rejects names git would misread.
func ValidateBranch(branch string) error {
	switch {
	case branch == "":
		return &ValidationError{Field: "branch", Reason: "must not be empty"}
	case strings.ContainsFunc(branch, unicode.IsSpace):
		return &ValidationError{Field: "branch", Value: branch, Reason: "must not contain whitespace"}
	case strings.HasPrefix(branch, "-"):
		return &ValidationError{Field: "branch", Value: branch, Reason: "must not start with '-'"}
	}
	return nil
}
