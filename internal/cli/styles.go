package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitnudge/internal/models"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	urgencyStyles = map[models.Urgency]lipgloss.Style{
		models.UrgencyGentle:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.UrgencyModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.UrgencyCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// Urgency renders an urgency level in its colour, padded for table output.
func Urgency(u models.Urgency) string {
	label := fmt.Sprintf("%-8s", u)
	if style, ok := urgencyStyles[u]; ok {
		return style.Render(label)
	}
	return label
}

// ProgressBar renders p (0..1) as a fixed-width bar.
func ProgressBar(p float64, width int) string {
	p = max(0, min(p, 1))
	filled := int(p*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if p >= 1 {
		return SuccessStyle.Render(bar)
	}
	return bar
}
