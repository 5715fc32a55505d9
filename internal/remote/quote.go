// Package remote builds shell text that runs inside a codespace.
//
// Everything here produces strings handed to "gh cs ssh -- <command>",
// which the remote login shell parses once. Values are single-quoted so
// they survive that parse unchanged.
package remote

import (
	"regexp"
	"strings"
)

var safeWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote wraps s in single quotes, escaping embedded single quotes.
// e.g. it's becomes 'it'\''s'
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join renders argv as a shell command line, quoting only the words that
// need it.
func Join(args ...string) string {
	words := make([]string, len(args))
	for i, a := range args {
		if safeWord.MatchString(a) {
			words[i] = a
		} else {
			words[i] = Quote(a)
		}
	}
	return strings.Join(words, " ")
}
