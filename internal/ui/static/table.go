// Package static renders non-interactive terminal output such as the
// codespace table.
package static

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/cspace/internal/codespace"
	"github.com/raphi011/cspace/internal/ui/styles"
)

// CodespaceHeaders are the columns of "cspace list".
var CodespaceHeaders = []string{"", "NAME", "REPOSITORY", "BRANCH", "STATE", "MACHINE", "LAST USED"}

// CodespaceRow formats one codespace for RenderTable.
func CodespaceRow(cs codespace.Codespace, now time.Time) []string {
	branch := cs.Branch()
	if cs.GitStatus.HasUncommittedChanges || cs.GitStatus.HasUnpushedChanges {
		branch += "*"
	}
	return []string{
		styles.StateSymbol(cs.State),
		cs.Name,
		cs.Repository,
		branch,
		cs.State,
		cs.MachineName,
		Age(cs.LastUsedAt, now),
	}
}

// Age renders the time since t in its largest unit, e.g. "3h ago".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// RenderTable aligns rows under bold headers without borders.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}
