package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rescp17/tuifs/api"
	appevents "github.com/rescp17/tuifs/internal/app_events"
	"github.com/rescp17/tuifs/internal/util"
	"github.com/rescp17/tuifs/pkg/navlist"
)

var ErrNotConnected = errors.New("not connected to a server")

// Transport is the narrow, synchronous network surface the machine drives.
// *api.Client implements it.
type Transport interface {
	ListFiles(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, src *api.UploadSource) error
	Download(ctx context.Context, name, destDir string) (string, int64, error)
	Address() string
	Close() error
}

var _ Transport = (*api.Client)(nil)

// Dialer opens a Transport to address.
type Dialer func(ctx context.Context, address string) (Transport, error)

// DialHTTP connects an *api.Client.
func DialHTTP(ctx context.Context, address string) (Transport, error) {
	c, err := api.Connect(ctx, address)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type KeyType int

const (
	KeyRune KeyType = iota
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyUp
	KeyDown
)

// Key is one decoded key press.
type Key struct {
	Type KeyType
	Rune rune
}

// Rune builds a printable key.
func Rune(r rune) Key {
	return Key{Type: KeyRune, Rune: r}
}

type pendingKind int

const (
	noPending pendingKind = iota
	pendingUpload
	pendingDownload
)

type pendingOp struct {
	kind    pendingKind
	upload  *api.UploadSource
	name    string
	destDir string
}

// Machine is the client interaction state machine. It is not safe for
// concurrent use; the render loop owns it.
type Machine struct {
	screen    Screen
	files     *navlist.List[string]
	input     []rune
	inputErr  bool
	config    PendingConfig
	transport Transport
	dial      Dialer
	pending   pendingOp
	status    appevents.AppUIMessage
	stale     bool
	exited    bool
}

// New builds a machine. transport may be nil when no address was given;
// dial defaults to DialHTTP.
func New(transport Transport, dial Dialer, cfg PendingConfig) *Machine {
	if dial == nil {
		dial = DialHTTP
	}
	if transport != nil {
		cfg.ServerAddress = transport.Address()
	}
	return &Machine{
		screen:    StartScreen{},
		files:     navlist.New[string](nil),
		config:    cfg,
		transport: transport,
		dial:      dial,
	}
}

// Init sets the initial screen. Without a transport the user is sent
// straight to Configuring(ServerLocation); otherwise the listing is fetched.
func (m *Machine) Init(ctx context.Context) {
	if m.transport == nil {
		m.screen = ConfiguringScreen{Target: ServerLocation}
		return
	}
	m.screen = StartScreen{}
	m.refresh(ctx)
}

// HandleKey applies one key press. Network calls made here run to completion
// before it returns.
func (m *Machine) HandleKey(ctx context.Context, k Key) {
	if m.exited {
		return
	}
	if k.Type == KeyRune && k.Rune == 'q' {
		m.exit()
		return
	}

	switch s := m.screen.(type) {
	case StartScreen:
		m.handleStart(ctx, k)
	case ServerFilesScreen:
		m.handleServerFiles(ctx, k)
	case ConfiguringScreen:
		m.handleConfiguring(ctx, s.Target, k)
	case UploadingScreen, DownloadingScreen:
		m.handleTransfer(k)
	}
}

// Paste appends text to the input buffer of a Configuring screen. Unlike
// typed keys, a pasted 'q' is input. Elsewhere pastes are ignored.
func (m *Machine) Paste(text string) {
	if m.exited {
		return
	}
	if _, ok := m.screen.(ConfiguringScreen); !ok {
		return
	}
	if m.inputErr {
		m.clearInput()
	}
	m.input = append(m.input, []rune(text)...)
}

func (m *Machine) handleStart(ctx context.Context, k Key) {
	if k.Type != KeyRune {
		return
	}
	switch k.Rune {
	case 'g':
		m.openListing(ctx)
	case 'u':
		m.configure(UploadLocation)
	case 'd':
		m.configure(DownloadLocation)
	case 'c':
		m.configure(ServerLocation)
	}
}

func (m *Machine) handleServerFiles(ctx context.Context, k Key) {
	switch k.Type {
	case KeyUp:
		m.files.Previous()
	case KeyDown:
		m.files.Next()
	case KeyEnter:
		m.configure(DownloadLocation)
	case KeyEsc:
		m.screen = StartScreen{}
	case KeyRune:
		switch k.Rune {
		case 'k':
			m.files.Previous()
		case 'j':
			m.files.Next()
		case 'd':
			m.configure(DownloadLocation)
		case 'u':
			m.configure(UploadLocation)
		case 'c':
			m.configure(ServerLocation)
		case 'g':
			m.refresh(ctx)
		}
	}
}

func (m *Machine) handleConfiguring(ctx context.Context, target ConfigTarget, k Key) {
	switch k.Type {
	case KeyRune:
		if m.inputErr {
			m.clearInput()
		}
		m.input = append(m.input, k.Rune)
	case KeyBackspace:
		if m.inputErr {
			m.clearInput()
			return
		}
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case KeyEsc:
		m.clearInput()
		m.screen = StartScreen{}
	case KeyEnter:
		value := strings.TrimSpace(string(m.input))
		if m.inputErr {
			value = ""
		}
		m.clearInput()
		switch target {
		case ServerLocation:
			m.commitServer(ctx, value)
		case DownloadLocation:
			m.commitDownload(value)
		case UploadLocation:
			m.commitUpload(value)
		}
	}
}

func (m *Machine) handleTransfer(k Key) {
	switch {
	case k.Type == KeyRune && k.Rune == 'c':
		m.dropPending()
		m.configure(ServerLocation)
	case k.Type == KeyEsc:
		m.dropPending()
		m.screen = ServerFilesScreen{}
	}
}

func (m *Machine) configure(target ConfigTarget) {
	m.clearInput()
	m.screen = ConfiguringScreen{Target: target}
}

// commitServer replaces the transport. The old connection is closed only
// after the new one is up, so a failed attempt leaves the session usable.
func (m *Machine) commitServer(ctx context.Context, address string) {
	t, err := m.dial(ctx, address)
	if err != nil {
		slog.Warn("Connect failed", "address", address, "error", err)
		m.status = appevents.AppErrorMsg{Err: err}
		m.screen = ConfiguringScreen{Target: ServerLocation}
		return
	}

	if m.transport != nil {
		if err := m.transport.Close(); err != nil {
			slog.Debug("failed to close previous connection", "address", m.transport.Address(), "error", err)
		}
	}
	m.transport = t
	m.config.ServerAddress = t.Address()
	m.files.Replace(nil)
	m.status = appevents.ConnectedMsg{Address: t.Address()}
	m.screen = ServerFilesScreen{}
	m.refresh(ctx)
}

func (m *Machine) commitDownload(dir string) {
	if dir != "" {
		abs, err := util.EnsureDir(util.ExpandHome(dir))
		if err != nil {
			m.status = appevents.AppErrorMsg{Err: err}
			m.screen = ConfiguringScreen{Target: DownloadLocation}
			return
		}
		m.config.DownloadDir = abs
		m.status = appevents.DownloadDirSetMsg{Dir: abs}
	}

	name, ok := m.files.Selected()
	if !ok {
		m.status = appevents.AppErrorMsg{Err: api.ErrNoSelection}
		m.screen = ServerFilesScreen{}
		return
	}
	m.pending = pendingOp{kind: pendingDownload, name: name, destDir: m.config.DownloadDir}
	m.screen = DownloadingScreen{}
}

// commitUpload validates the local path before anything is queued. A path
// that cannot be opened is reported in the input buffer and the screen stays.
func (m *Machine) commitUpload(path string) {
	path = util.ExpandHome(path)
	src, err := api.OpenUpload(path)
	if err != nil {
		m.input = []rune(err.Error())
		m.inputErr = true
		return
	}
	m.config.UploadPath = path
	m.pending = pendingOp{kind: pendingUpload, upload: src}
	m.screen = UploadingScreen{}
}

// HasPending reports whether a transfer waits for RunPending.
func (m *Machine) HasPending() bool {
	return m.pending.kind != noPending
}

// RunPending executes the queued transfer and returns to ServerFiles.
// A successful upload refreshes the listing.
func (m *Machine) RunPending(ctx context.Context) {
	op := m.pending
	m.pending = pendingOp{}
	if op.kind == noPending || m.exited {
		return
	}

	if m.transport == nil {
		if op.upload != nil {
			_ = op.upload.Close()
		}
		m.status = appevents.AppErrorMsg{Err: ErrNotConnected}
		m.screen = ConfiguringScreen{Target: ServerLocation}
		return
	}

	m.screen = ServerFilesScreen{}
	switch op.kind {
	case pendingUpload:
		if err := m.transport.Upload(ctx, op.upload); err != nil {
			m.status = appevents.AppErrorMsg{Err: err}
			return
		}
		if m.refresh(ctx) {
			m.status = appevents.UploadCompleteMsg{Name: op.upload.FullName(), Bytes: op.upload.Size}
		}
	case pendingDownload:
		path, n, err := m.transport.Download(ctx, op.name, op.destDir)
		if err != nil {
			m.status = appevents.AppErrorMsg{Err: err}
			return
		}
		m.status = appevents.DownloadCompleteMsg{Name: op.name, Path: path, Bytes: n}
	}
}

// openListing is the Start screen's fetch: it needs a connection first.
func (m *Machine) openListing(ctx context.Context) {
	if m.transport == nil {
		m.status = appevents.AppErrorMsg{Err: ErrNotConnected}
		m.configure(ServerLocation)
		return
	}
	m.screen = ServerFilesScreen{}
	m.refresh(ctx)
}

// refresh re-fetches the listing. On failure the previous listing is kept
// and marked stale.
func (m *Machine) refresh(ctx context.Context) bool {
	if m.transport == nil {
		m.status = appevents.AppErrorMsg{Err: ErrNotConnected}
		return false
	}
	names, err := m.transport.ListFiles(ctx)
	if err != nil {
		slog.Warn("Listing failed", "address", m.transport.Address(), "error", err)
		m.stale = true
		m.status = appevents.AppErrorMsg{Err: err}
		return false
	}
	m.files.Replace(names)
	m.stale = false
	m.status = appevents.ListingRefreshedMsg{Count: len(names)}
	return true
}

func (m *Machine) dropPending() {
	if m.pending.upload != nil {
		if err := m.pending.upload.Close(); err != nil {
			slog.Debug("failed to close upload source", "error", err)
		}
	}
	m.pending = pendingOp{}
}

func (m *Machine) clearInput() {
	m.input = m.input[:0]
	m.inputErr = false
}

func (m *Machine) exit() {
	m.dropPending()
	m.exited = true
}

// Close releases the connection.
func (m *Machine) Close() error {
	m.dropPending()
	if m.transport == nil {
		return nil
	}
	return m.transport.Close()
}

func (m *Machine) Screen() Screen { return m.screen }

func (m *Machine) Exited() bool { return m.exited }

// Stale reports whether the shown listing survived a failed refresh.
func (m *Machine) Stale() bool { return m.stale }

// Status is the last message for the status line, or nil.
func (m *Machine) Status() appevents.AppUIMessage { return m.status }

// Input returns the input buffer. When InputIsError is true it holds an
// error message instead of typed text.
func (m *Machine) Input() string { return string(m.input) }

func (m *Machine) InputIsError() bool { return m.inputErr }

// Files returns a copy of the current listing.
func (m *Machine) Files() []string { return m.files.Items() }

func (m *Machine) Cursor() (int, bool) { return m.files.Cursor() }

func (m *Machine) Selected() (string, bool) { return m.files.Selected() }

func (m *Machine) Config() PendingConfig { return m.config }

// Connected reports whether a transport is set.
func (m *Machine) Connected() bool { return m.transport != nil }
