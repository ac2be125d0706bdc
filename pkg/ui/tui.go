package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rescp17/tuifs/internal/app"
	"github.com/rescp17/tuifs/internal/style"
	"github.com/rescp17/tuifs/internal/util"
)

const (
	defaultWidth = 80
	maxListRows  = 20
)

// initMsg asks Update to run the machine's Init on the render loop.
type initMsg struct{}

// runPendingMsg runs a queued transfer after the Uploading or Downloading
// screen has been drawn once.
type runPendingMsg struct{}

type model struct {
	ctx     context.Context
	machine *app.Machine
	keys    KeyMap
	help    help.Model
	width   int
}

// InitialModel wraps machine. Every machine call happens inside Update.
func InitialModel(ctx context.Context, machine *app.Machine) model {
	return model{
		ctx:     ctx,
		machine: machine,
		keys:    DefaultKeyMap(),
		help:    style.NewHelp(),
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case initMsg:
		m.machine.Init(m.ctx)
		return m, nil
	case runPendingMsg:
		m.machine.RunPending(m.ctx)
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if _, typing := m.machine.Screen().(app.ConfiguringScreen); !typing && key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if msg.Paste && msg.Type == tea.KeyRunes {
		m.machine.Paste(string(msg.Runes))
		return m, nil
	}

	for _, k := range translateKey(msg) {
		m.machine.HandleKey(m.ctx, k)
		if m.machine.Exited() {
			return m, tea.Quit
		}
	}
	if m.machine.HasPending() {
		return m, func() tea.Msg { return runPendingMsg{} }
	}
	return m, nil
}

// translateKey maps a terminal key onto machine keys. Several runes arrive
// together when the terminal has no bracketed paste.
func translateKey(msg tea.KeyMsg) []app.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return []app.Key{{Type: app.KeyEnter}}
	case tea.KeyEsc:
		return []app.Key{{Type: app.KeyEsc}}
	case tea.KeyBackspace:
		return []app.Key{{Type: app.KeyBackspace}}
	case tea.KeyUp:
		return []app.Key{{Type: app.KeyUp}}
	case tea.KeyDown:
		return []app.Key{{Type: app.KeyDown}}
	case tea.KeySpace:
		return []app.Key{app.Rune(' ')}
	case tea.KeyRunes:
		keys := make([]app.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, app.Rune(r))
		}
		return keys
	}
	return nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(style.TitleStyle.Render("tuifs"))
	b.WriteString("  ")
	if m.machine.Connected() {
		b.WriteString(style.HelpStyle.Render(m.machine.Config().ServerAddress))
	} else {
		b.WriteString(style.WarnStyle.Render("not connected"))
	}
	b.WriteString("\n\n")

	switch s := m.machine.Screen().(type) {
	case app.StartScreen:
		b.WriteString(m.startView())
	case app.ServerFilesScreen:
		b.WriteString(m.filesView())
	case app.ConfiguringScreen:
		b.WriteString(m.configuringView(s.Target))
	case app.UploadingScreen:
		b.WriteString(fmt.Sprintf("Uploading %s ...", m.machine.Config().UploadPath))
	case app.DownloadingScreen:
		name, _ := m.machine.Selected()
		b.WriteString(fmt.Sprintf("Downloading %s to %s ...", name, m.machine.Config().DownloadDir))
	}
	b.WriteString("\n\n")

	if level, text := describeStatus(m.machine.Status()); text != "" {
		b.WriteString(renderStatus(level, text))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys.forScreen(m.machine.Screen())))

	return style.DocStyle.Render(b.String())
}

func (m model) startView() string {
	return style.HeaderStyle.Render("Browse, upload and download files on a tuifs server.")
}

func (m model) filesView() string {
	var b strings.Builder
	header := "Server files"
	if m.machine.Stale() {
		header += style.WarnStyle.Render(" (stale)")
	}
	b.WriteString(style.HeaderStyle.Render(header))
	b.WriteString("\n")

	files := m.machine.Files()
	if len(files) == 0 {
		b.WriteString(style.HelpStyle.Render("  no files"))
		return b.String()
	}

	cursor, _ := m.machine.Cursor()
	start, end := visibleRange(len(files), cursor, maxListRows)
	width := m.width - 8
	for i := start; i < end; i++ {
		name := util.PadRight(files[i], width)
		if i == cursor {
			b.WriteString(style.CursorStyle.String())
			b.WriteString(style.SelectedStyle.Render(name))
		} else {
			b.WriteString(style.NoCursorStyle.String())
			b.WriteString(style.FileStyle.Render(name))
		}
		b.WriteString("\n")
	}
	if end-start < len(files) {
		b.WriteString(style.HelpStyle.Render(fmt.Sprintf("  %d/%d", cursor+1, len(files))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// visibleRange returns the window of rows that keeps cursor on screen.
func visibleRange(total, cursor, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func (m model) configuringView(target app.ConfigTarget) string {
	var prompt, current string
	cfg := m.machine.Config()
	switch target {
	case app.ServerLocation:
		prompt, current = "Server address", cfg.ServerAddress
	case app.DownloadLocation:
		prompt, current = "Download directory", cfg.DownloadDir
	case app.UploadLocation:
		prompt, current = "File to upload", cfg.UploadPath
	}

	var b strings.Builder
	b.WriteString(style.PromptStyle.Render(prompt + ": "))
	if m.machine.InputIsError() {
		b.WriteString(style.ErrorStyle.Render(m.machine.Input()))
	} else {
		b.WriteString(style.InputStyle.Render(m.machine.Input() + "_"))
	}
	if current != "" {
		b.WriteString("\n")
		b.WriteString(style.HelpStyle.Render("current: " + current))
	}
	return b.String()
}
