package tui

import "github.com/charmbracelet/lipgloss"

var (
	borderColor  = lipgloss.Color("#3a3a42")
	surfaceColor = lipgloss.Color("#17171c")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f2f2f2"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c8c8d0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6a6a74"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a94"))

	// Auction accents: red for prices, amber for countdowns about to end.
	priceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e5484d"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5484d"))
	urgentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f5a524"))

	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f2555a"))

	helpKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#b0b0ba"))
	helpLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5a5a64"))

	inputPromptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5484d"))
	inputPlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4a4a54"))
)

// helpEntry renders one "key label" pair for the help line.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
