package ui

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescp17/tuifs/api"
	"github.com/rescp17/tuifs/internal/app"
	"github.com/rescp17/tuifs/pkg/storage"
)

func newTestModel(t *testing.T, names ...string) (model, string) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("data:"+n), 0o644))
	}
	store, err := storage.New(dir)
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewAPI(store))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	tr, err := app.DialHTTP(ctx, srv.Listener.Addr().String())
	require.NoError(t, err)
	machine := app.New(tr, nil, app.PendingConfig{DownloadDir: t.TempDir()})
	t.Cleanup(func() { _ = machine.Close() })

	m := InitialModel(ctx, machine)
	m = update(t, m, m.Init()())
	return m, dir
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func press(t *testing.T, m model, msg tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitShowsStart(t *testing.T) {
	m, _ := newTestModel(t, "a.txt")
	assert.Equal(t, app.StartScreen{}, m.machine.Screen())
	assert.Contains(t, m.View(), "1 file(s) on server")
}

func TestModel_ListingView(t *testing.T) {
	m, _ := newTestModel(t, "b.png", "a.txt")
	m, _ = press(t, m, runes("g"))

	view := m.View()
	assert.Contains(t, view, "Server files")
	assert.Contains(t, view, "a.txt")
	assert.Contains(t, view, "b.png")
	assert.Contains(t, view, "move up")
}

func TestModel_DownloadRunsAfterOneRender(t *testing.T) {
	m, _ := newTestModel(t, "a.txt")
	m, _ = press(t, m, runes("g"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, app.DownloadingScreen{}, m.machine.Screen())
	assert.Contains(t, m.View(), "Downloading a.txt")
	require.NotNil(t, cmd)

	m = update(t, m, cmd())
	assert.Equal(t, app.ServerFilesScreen{}, m.machine.Screen())
	assert.Contains(t, m.View(), "Saved a.txt")

	got, err := os.ReadFile(filepath.Join(m.machine.Config().DownloadDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data:a.txt", string(got))
}

func TestModel_UploadDirectoryShowsInlineError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("u"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, app.ConfiguringScreen{Target: app.UploadLocation}, m.machine.Screen())
	assert.Contains(t, m.View(), "cannot open")
}

func TestModel_PasteIsInput(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, runes("u"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/q/a.txt"), Paste: true})
	assert.Nil(t, cmd)
	assert.Equal(t, "/q/a.txt", m.machine.Input())
	assert.False(t, m.machine.Exited())
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = newTestModel(t)
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := newTestModel(t, "a.txt")
	m, _ = press(t, m, runes("g"))
	m, _ = press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)

	m, _ = press(t, m, runes("c"))
	m, _ = press(t, m, runes("?"))
	assert.Equal(t, "?", m.machine.Input(), "'?' is input while configuring")
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		total, cursor, rows int
		start, end          int
	}{
		{total: 3, cursor: 2, rows: 5, start: 0, end: 3},
		{total: 30, cursor: 0, rows: 10, start: 0, end: 10},
		{total: 30, cursor: 15, rows: 10, start: 10, end: 20},
		{total: 30, cursor: 29, rows: 10, start: 20, end: 30},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.total, tt.cursor, tt.rows)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
