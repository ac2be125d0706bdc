package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rescp17/tuifs/internal/app"
)

// KeyMap defines the keybindings shown in the help footer. The state
// machine owns their meaning; Quit and Help are also matched here.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Fetch     key.Binding
	Download  key.Binding
	Upload    key.Binding
	Configure key.Binding
	Submit    key.Binding
	Back      key.Binding
	Erase     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "fetch files"),
		),
		Download: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d/enter", "download"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Configure: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "server address"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "erase"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// screenKeys is the help.KeyMap for one screen.
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (s screenKeys) ShortHelp() []key.Binding  { return s.short }
func (s screenKeys) FullHelp() [][]key.Binding { return s.full }

func (k KeyMap) forScreen(screen app.Screen) screenKeys {
	switch screen.(type) {
	case app.StartScreen:
		return screenKeys{
			short: []key.Binding{k.Fetch, k.Upload, k.Configure, k.Quit},
			full: [][]key.Binding{
				{k.Fetch, k.Upload, k.Download},
				{k.Configure, k.Quit},
			},
		}
	case app.ServerFilesScreen:
		return screenKeys{
			short: []key.Binding{k.Up, k.Down, k.Download, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.Up, k.Down},
				{k.Download, k.Upload, k.Fetch},
				{k.Configure, k.Back, k.Quit},
			},
		}
	case app.ConfiguringScreen:
		// '?' is plain input while typing.
		bindings := []key.Binding{k.Submit, k.Erase, k.Back, k.Quit}
		return screenKeys{short: bindings, full: [][]key.Binding{bindings}}
	default:
		bindings := []key.Binding{k.Configure, k.Back, k.Quit}
		return screenKeys{short: bindings, full: [][]key.Binding{bindings}}
	}
}
