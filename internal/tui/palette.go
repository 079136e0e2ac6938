package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorInk     = lipgloss.Color("#E8E3D8")
	ColorDim     = lipgloss.Color("#8A8577")
	ColorAccent  = lipgloss.Color("#D08770")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorWarn    = lipgloss.Color("#EBCB8B")
)
