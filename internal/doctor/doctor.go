package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/atotto/clipboard"

	"github.com/raphi011/cspace/internal/cmd"
	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/config"
	"github.com/raphi011/cspace/internal/ui/styles"
)

// ErrIssuesFound is returned by Run when at least one error-severity
// issue was found.
var ErrIssuesFound = errors.New("doctor found blocking issues")

// Env is the host state the checks look at.
type Env struct {
	LookPath  func(file string) (string, error)
	CheckGH   func() error
	Infocmp   func(ctx context.Context, name string) error
	Clipboard func() bool
}

// DefaultEnv inspects the real machine.
func DefaultEnv() Env {
	return Env{
		LookPath: exec.LookPath,
		CheckGH:  codespace.CheckGH,
		Infocmp: func(ctx context.Context, name string) error {
			return cmd.RunContext(ctx, "", "infocmp", "-x", name)
		},
		Clipboard: func() bool { return !clipboard.Unsupported },
	}
}

// Run checks the environment and writes a report to w. cfgErr is the
// error from loading the config file, if any; cfg is then ignored.
func Run(ctx context.Context, w io.Writer, env Env, cfg *config.Config, cfgErr error) (IssueStats, error) {
	var stats IssueStats
	var allIssues []Issue

	record := func(category IssueCategory, pass string, issues []Issue) {
		for i := range issues {
			issues[i].Category = category
		}
		if len(issues) == 0 {
			stats.Passed++
			fmt.Fprintf(w, "  %s %s\n", styles.SuccessStyle.Render("✓"), pass)
			return
		}
		for _, issue := range issues {
			if issue.Severity == SeverityError {
				stats.Errors++
				fmt.Fprintf(w, "  %s %s\n", styles.ErrorStyle.Render("✗"), issue.Description)
			} else {
				stats.Warnings++
				fmt.Fprintf(w, "  %s %s\n", styles.WarningStyle.Render("⚠"), issue.Description)
			}
		}
		allIssues = append(allIssues, issues...)
	}

	fmt.Fprintln(w, "Checking tools...")
	ghIssues := checkGH(env)
	record(CategoryTools, "gh is installed and authenticated", ghIssues)

	fmt.Fprintln(w, "Checking configuration...")
	record(CategoryConfig, "config file is valid", checkConfig(cfg, cfgErr))

	fmt.Fprintln(w, "Checking terminal...")
	if cfgErr == nil && cfg.Terminfo != "" {
		record(CategoryTerminal, "terminfo "+cfg.Terminfo+" is available", checkTerminfo(ctx, env, cfg.Terminfo))
	}
	record(CategoryTerminal, "clipboard is available", checkClipboard(env))

	fmt.Fprintf(w, "\n%d passed, %d warnings, %d errors\n", stats.Passed, stats.Warnings, stats.Errors)

	if len(allIssues) > 0 {
		fmt.Fprintln(w, "\nTo fix:")
		for _, issue := range allIssues {
			if issue.FixAction != "" {
				fmt.Fprintf(w, "  • %s: %s\n", issue.Key, issue.FixAction)
			}
		}
	}

	if stats.Errors > 0 {
		return stats, ErrIssuesFound
	}
	return stats, nil
}

func checkGH(env Env) []Issue {
	if _, err := env.LookPath("gh"); err != nil {
		return []Issue{{
			Key:         "gh",
			Description: "gh is not installed",
			FixAction:   "install GitHub CLI from https://cli.github.com",
			Severity:    SeverityError,
		}}
	}
	if err := env.CheckGH(); err != nil {
		return []Issue{{
			Key:         "gh",
			Description: err.Error(),
			FixAction:   "run 'gh auth login'",
			Severity:    SeverityError,
		}}
	}
	return nil
}

func checkConfig(cfg *config.Config, cfgErr error) []Issue {
	if cfgErr != nil {
		return []Issue{{
			Key:         "config",
			Description: cfgErr.Error(),
			FixAction:   "fix the file or regenerate it with 'cspace config init --force'",
			Severity:    SeverityError,
		}}
	}
	var issues []Issue
	for _, w := range cfg.Warnings {
		issues = append(issues, Issue{Key: "config", Description: w, Severity: SeverityWarning})
	}
	return issues
}

func checkTerminfo(ctx context.Context, env Env, name string) []Issue {
	if _, err := env.LookPath("infocmp"); err != nil {
		return []Issue{{
			Key:         "infocmp",
			Description: "infocmp is not installed, terminfo will not be uploaded",
			FixAction:   "install ncurses or set terminfo = \"\" in the config",
			Severity:    SeverityWarning,
		}}
	}
	if err := env.Infocmp(ctx, name); err != nil {
		return []Issue{{
			Key:         "terminfo",
			Description: fmt.Sprintf("terminfo entry %s not found locally", name),
			FixAction:   "set terminfo to your terminal's $TERM or to \"\" to disable the upload",
			Severity:    SeverityWarning,
		}}
	}
	return nil
}

func checkClipboard(env Env) []Issue {
	if env.Clipboard() {
		return nil
	}
	return []Issue{{
		Key:         "clipboard",
		Description: "no clipboard utility found, 'create --copy' will not work",
		FixAction:   "install xclip, xsel or wl-clipboard",
		Severity:    SeverityWarning,
	}}
}
