// Package ui provides the live monitor watch screen for the wlmon CLI
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorError   = lipgloss.Color("196") // Red

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSubtle)

	FooterHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				MarginTop(1)

	EventStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	FailureStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			MarginTop(1)

	EnabledIndicator  = lipgloss.NewStyle().Foreground(ColorSuccess).Render("on")
	DisabledIndicator = lipgloss.NewStyle().Foreground(ColorSubtle).Render("off")
)
