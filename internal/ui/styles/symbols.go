package styles

// State symbols for codespace listings.
const (
	SymbolAvailable = "●"
	SymbolStarting  = "◌"
	SymbolShutdown  = "○"
	SymbolUnknown   = "?"
)

// StateSymbol returns a colored symbol for a codespace state as reported
// by gh (Available, Shutdown, Starting, ...).
func StateSymbol(state string) string {
	switch state {
	case "Available":
		return SuccessStyle.Render(SymbolAvailable)
	case "Starting", "Provisioning", "Rebuilding", "Queued", "Awaiting":
		return WarningStyle.Render(SymbolStarting)
	case "Shutdown", "ShuttingDown":
		return MutedStyle.Render(SymbolShutdown)
	default:
		return MutedStyle.Render(SymbolUnknown)
	}
}
