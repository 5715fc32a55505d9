package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryTools represents missing or unusable external commands.
	CategoryTools IssueCategory = "tools"
	// CategoryConfig represents problems with the config file.
	CategoryConfig IssueCategory = "config"
	// CategoryTerminal represents terminal integration problems.
	CategoryTerminal IssueCategory = "terminal"
)

// Severity says whether an issue blocks cspace or only a feature.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // tool, file or setting
	Description string        // human-readable description
	FixAction   string        // what the user can do about it
	Category    IssueCategory // issue category
	Severity    Severity
}

// IssueStats tracks counts by severity.
type IssueStats struct {
	Passed   int
	Warnings int
	Errors   int
}
