package remote

import (
	"context"
	"os"
	"strings"

	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/log"
)

// Export is one variable exported before remote commands.
type Export struct {
	Name   string
	Value  string
	Secret bool
}

// Exports renders as "export NAME='value';" statements in order.
type Exports []Export

func (e Exports) String() string {
	return e.render(false)
}

// Redacted masks secret values.
func (e Exports) Redacted() string {
	return e.render(true)
}

// Names lists the exported names in order.
func (e Exports) Names() []string {
	names := make([]string, len(e))
	for i, x := range e {
		names[i] = x.Name
	}
	return names
}

func (e Exports) render(redact bool) string {
	stmts := make([]string, len(e))
	for i, x := range e {
		v := Quote(x.Value)
		if redact && x.Secret {
			v = "'***'"
		}
		stmts[i] = "export " + x.Name + "=" + v + ";"
	}
	return strings.Join(stmts, " ")
}

// PromptFunc asks for a secret value without echoing it. ok is false when
// the user aborted the prompt.
type PromptFunc func(ctx context.Context, name string) (value string, ok bool, err error)

// ExportOptions controls how values are obtained.
type ExportOptions struct {
	// Immediate disables prompting; unset secrets are skipped.
	Immediate bool
	// Lookup reads the local environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
	// Prompt asks for unset secrets. Nil behaves like Immediate.
	Prompt PromptFunc
}

// BuildExports resolves the effective remote_env_vars followed by the
// remote_secret_vars into export statements. Invalid names are skipped
// with a warning. A name exported twice keeps its last value and position.
func BuildExports(ctx context.Context, r *config.Resolved, opts ExportOptions) (Exports, error) {
	l := log.FromContext(ctx)
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var out Exports
	for _, v := range r.RemoteEnv() {
		if !config.ValidEnvName(v.Name) {
			l.Warnf("Skipping invalid remote env var name %q", v.Name)
			continue
		}
		if v.HasValue {
			out = append(out, Export{Name: v.Name, Value: v.Value})
			continue
		}
		if val, ok := lookup(v.Name); ok {
			out = append(out, Export{Name: v.Name, Value: val})
		}
	}

	for _, name := range r.SecretVars() {
		if !config.ValidEnvName(name) {
			l.Warnf("Skipping invalid secret var name %q", name)
			continue
		}
		if val, ok := lookup(name); ok {
			out = append(out, Export{Name: name, Value: val, Secret: true})
			continue
		}
		if opts.Immediate || opts.Prompt == nil {
			l.Warnf("Secret %s is not set, skipping", name)
			continue
		}
		val, ok, err := opts.Prompt(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			l.Warnf("No value entered for secret %s, skipping", name)
			continue
		}
		out = append(out, Export{Name: name, Value: val, Secret: true})
	}

	return dedupExports(out), nil
}

func dedupExports(in Exports) Exports {
	last := make(map[string]int, len(in))
	for i, x := range in {
		last[x.Name] = i
	}
	out := make(Exports, 0, len(last))
	for i, x := range in {
		if last[x.Name] == i {
			out = append(out, x)
		}
	}
	return out
}
