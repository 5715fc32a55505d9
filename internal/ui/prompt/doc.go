// Package prompt provides the interactive prompts cspace uses.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input (branch names)
//   - [Secret]: Hidden input for secret env values
//   - [Select]: Single selection from a list (codespaces)
//
// Every prompt renders on stderr and fails with [ErrNotInteractive] when
// stdin is not a terminal, so callers can fall back to flags.
package prompt
