package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	selectedStyle = accentStyle.Copy().Bold(true)
	missingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	clockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(0, 2)
	panelStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	activePanelStyle = panelStyle.Copy().BorderForeground(lipgloss.Color("#C89A3A"))
	chipStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Padding(0, 1)
	activeChipStyle  = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Background(lipgloss.Color("#4A4A4A")).
				Bold(true).
				Padding(0, 1)
)

// accent returns a style coloured with a routine's accent, falling back to the
// default accent when the routine has none.
func accent(color string) lipgloss.Style {
	if strings.TrimSpace(color) == "" {
		return accentStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func cursorLine(selected bool, line string) string {
	if selected {
		return selectedStyle.Render("› " + line)
	}
	return "  " + textStyle.Render(line)
}
