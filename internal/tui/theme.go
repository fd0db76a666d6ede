package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mj1618/hintnav/internal/mode"
)

// ────────────────────────────────────────────────────────────
// Palette
// ────────────────────────────────────────────────────────────

var (
	colorBgSurface = lipgloss.Color("#1c2128")

	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorGold   = lipgloss.Color("#ffd700")
	colorPurple = lipgloss.Color("#bc8cff")
	colorBlack  = lipgloss.Color("#000000")
)

// ────────────────────────────────────────────────────────────
// Styles
// ────────────────────────────────────────────────────────────

var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGold)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

var (
	badgeStyle = lipgloss.NewStyle().
			Background(colorGold).
			Foreground(colorBlack).
			Bold(true).
			Padding(0, 1)

	badgeDimStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(colorText)

	rowDimStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	typedStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// modeStyle returns the indicator pill for m.
func modeStyle(m mode.Mode) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorBlack)
	switch m {
	case mode.Hint:
		return base.Background(colorGold)
	case mode.Insert:
		return base.Background(colorGreen)
	case mode.VisualCaret:
		return base.Background(colorPurple)
	default:
		return base.Background(colorBlue)
	}
}
