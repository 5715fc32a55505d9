// Package styles provides shared lipgloss styles for UI components.
//
// Colors are defined once here so log prefixes, prompts, the spinner and
// the codespace table render consistently.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent highlights selected items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success marks positive outcomes and info prefixes (green)
	Success color.Color = lipgloss.Color("82")

	// Warning marks recoverable problems (yellow)
	Warning color.Color = lipgloss.Color("214")

	// Error marks failures (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for secondary text (gray)
	Muted color.Color = lipgloss.Color("240")

	// Debug marks verbose diagnostics (blue)
	Debug color.Color = lipgloss.Color("33")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	DebugStyle = lipgloss.NewStyle().Foreground(Debug)
)

// Log level prefixes, rendered once.
var (
	InfoPrefix    = SuccessStyle.Render("[INFO]")
	WarningPrefix = WarningStyle.Render("[WARNING]")
	ErrorPrefix   = ErrorStyle.Render("[ERROR]")
	DebugPrefix   = DebugStyle.Render("[DEBUG]")
)
