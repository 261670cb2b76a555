package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/service"
)

// Theme is the dashboard color palette, in ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	ErrorText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	SelectedBorder   lipgloss.Color
	CompletedText    lipgloss.Color

	PriorityHigh   lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityLow    lipgloss.Color

	ModalBackground lipgloss.Color
}

// DefaultTheme targets dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	ErrorText:  lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	SelectedBorder:   lipgloss.Color("75"),
	CompletedText:    lipgloss.Color("242"),

	PriorityHigh:   lipgloss.Color("196"), // red
	PriorityMedium: lipgloss.Color("220"), // amber
	PriorityLow:    lipgloss.Color("114"), // green

	ModalBackground: lipgloss.Color("237"),
}

// PriorityColor returns the badge color for p. Unknown values are faint.
func (theme Theme) PriorityColor(p service.Priority) lipgloss.Color {
	switch p {
	case service.PriorityHigh:
		return theme.PriorityHigh
	case service.PriorityMedium:
		return theme.PriorityMedium
	case service.PriorityLow:
		return theme.PriorityLow
	}
	return theme.FaintText
}
