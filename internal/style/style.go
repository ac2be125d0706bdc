package style

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// --- Reusable Colors ---
var (
	colorPink      = lipgloss.Color("205")
	colorDarkGray  = lipgloss.Color("240")
	colorLightGray = lipgloss.Color("229")
	colorBlue      = lipgloss.Color("57")
	colorCyan      = lipgloss.Color("212")
	colorGreen     = lipgloss.Color("42")
	colorYellow    = lipgloss.Color("214")
	colorRed       = lipgloss.Color("196")
)

// --- General Purpose Styles ---
var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	SuccessStyle = lipgloss.NewStyle().Foreground(colorGreen)
	WarnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	HelpStyle    = lipgloss.NewStyle().Faint(true)
)

// --- Layout ---
var (
	DocStyle    = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	BaseStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorDarkGray)
)

// --- File List Styles ---
var (
	CursorStyle   = lipgloss.NewStyle().Foreground(colorCyan).SetString("> ")
	NoCursorStyle = lipgloss.NewStyle().SetString("  ")
	SelectedStyle = lipgloss.NewStyle().Foreground(colorLightGray).Background(colorBlue)
	FileStyle     = lipgloss.NewStyle().Foreground(colorLightGray)
)

// --- Input Styles ---
var (
	PromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	InputStyle  = lipgloss.NewStyle().Foreground(colorLightGray)
)

// NewHelp creates a help view with the faint footer look.
func NewHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(colorCyan)
	h.Styles.ShortDesc = HelpStyle
	h.Styles.ShortSeparator = HelpStyle
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(colorCyan)
	h.Styles.FullDesc = HelpStyle
	h.Styles.FullSeparator = HelpStyle
	return h
}
