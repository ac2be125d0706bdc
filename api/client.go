package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rescp17/tuifs/pkg/fileInfo"
)

const (
	sessionIDHeader = "X-Session-ID"
	defaultPort     = "80"
	dialTimeout     = 10 * time.Second
	maxErrorBody    = 512
)

// sessionIDInjector is a custom http.RoundTripper that tags every request with the client session.
type sessionIDInjector struct {
	sessionID string
	next      http.RoundTripper
}

// RoundTrip adds the session header and passes the request to the next transport.
func (t *sessionIDInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(sessionIDHeader, t.sessionID)
	return t.next.RoundTrip(req)
}

// pinnedDialer hands the connection opened by Connect to the transport once.
// Later dials (after the server closed the connection) open a new one.
type pinnedDialer struct {
	mu     sync.Mutex
	conn   net.Conn
	dialer *net.Dialer
}

func (d *pinnedDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	d.mu.Lock()
	conn := d.conn
	d.conn = nil
	d.mu.Unlock()
	if conn != nil {
		return conn, nil
	}
	slog.Debug("Redialing server", "addr", addr)
	return d.dialer.DialContext(ctx, network, addr)
}

func (d *pinnedDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Client owns one persistent HTTP/1.1 connection to a single server.
// A Client is never re-pointed; connect a new one to change address.
type Client struct {
	address    string
	sessionID  string
	dialer     *pinnedDialer
	transport  *http.Transport
	httpClient *http.Client
}

// ParseAddress normalises host, host:port or http://host:port into host:port.
// The port defaults to 80.
func ParseAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.New("address is empty")
	}
	hostport := address
	if strings.Contains(address, "://") {
		u, err := url.Parse(address)
		if err != nil {
			return "", fmt.Errorf("failed to parse address: %w", err)
		}
		if u.Scheme != "http" {
			return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
		}
		hostport = u.Host
	}

	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = hostport, defaultPort
		if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1]
		}
	}
	if host == "" || strings.ContainsAny(host, "/ ") {
		return "", fmt.Errorf("invalid host in %q", address)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("invalid port %q", port)
	}
	return net.JoinHostPort(host, port), nil
}

// Connect parses address and opens the connection. Every failure is a *ConnectError.
func Connect(ctx context.Context, address string) (*Client, error) {
	hostport, err := ParseAddress(address)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	dialer := &net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", hostport)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	pinned := &pinnedDialer{conn: conn, dialer: dialer}
	transport := &http.Transport{
		DialContext:         pinned.DialContext,
		MaxConnsPerHost:     1,
		MaxIdleConnsPerHost: 1,
		DisableCompression:  true,
	}
	sessionID := uuid.New().String()

	slog.Info("Connected to server", "addr", hostport, "session", sessionID)
	return &Client{
		address:   hostport,
		sessionID: sessionID,
		dialer:    pinned,
		transport: transport,
		httpClient: &http.Client{
			Transport: &sessionIDInjector{sessionID: sessionID, next: transport},
		},
	}, nil
}

func (c *Client) Address() string {
	return c.address
}

func (c *Client) SessionID() string {
	return c.sessionID
}

// Close drops the connection. Requests still running on it are abandoned.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return c.dialer.Close()
}

func (c *Client) url(path string) string {
	return "http://" + c.address + path
}

// ListFiles fetches the remote listing.
func (c *Client) ListFiles(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(PathGetFiles), nil)
	if err != nil {
		return nil, &ListError{Kind: ListTransport, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ListError{Kind: ListTransport, Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &ListError{Kind: ListStatus, Status: resp.StatusCode, Err: statusError(resp)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ListError{Kind: ListBody, Status: resp.StatusCode, Err: err}
	}
	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, &ListError{Kind: ListDecode, Status: resp.StatusCode, Err: err}
	}
	if names == nil {
		names = []string{}
	}
	slog.Info("Fetched listing", "count", len(names))
	return names, nil
}

// UploadSource is a local file opened for upload.
type UploadSource struct {
	fileInfo.FileNode
	file *os.File
}

// Close releases the file. Safe to call after the transport already closed it.
func (s *UploadSource) Close() error {
	if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

// OpenUpload opens a local file for Upload. A directory or unreadable path is
// an *UploadError of kind UploadCannotOpen.
func OpenUpload(path string) (*UploadSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &UploadError{Kind: UploadCannotOpen, Path: path, Err: errors.New("no path given")}
	}
	node, err := fileInfo.CreateNode(path)
	if err != nil {
		return nil, &UploadError{Kind: UploadCannotOpen, Path: path, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &UploadError{Kind: UploadCannotOpen, Path: path, Err: err}
	}
	return &UploadSource{FileNode: node, file: f}, nil
}

// Upload streams src to the server and closes it. It does not retry.
func (c *Client) Upload(ctx context.Context, src *UploadSource) error {
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("failed to close upload source", "path", src.Path, "error", err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(PathAddFile), src.file)
	if err != nil {
		return &UploadError{Kind: UploadTransport, Path: src.Path, Err: err}
	}
	req.ContentLength = src.Size
	if src.Size == 0 {
		req.Body = http.NoBody
	}
	req.Header.Set(HeaderFileName, url.PathEscape(src.Name))
	req.Header.Set(HeaderFileType, url.PathEscape(src.Ext))
	req.Header.Set("Content-Type", src.MimeType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UploadError{Kind: UploadTransport, Path: src.Path, Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &UploadError{Kind: UploadTransport, Path: src.Path, Err: statusError(resp)}
	}
	slog.Info("Uploaded file", "file", src.FullName(), "bytes", src.Size, "took", time.Since(start))
	return nil
}

// Download streams the remote file name into destDir, replacing any local
// file of the same name. It returns the local path and the bytes written.
func (c *Client) Download(ctx context.Context, name, destDir string) (string, int64, error) {
	if name == "" {
		return "", 0, &DownloadError{Name: name, Err: ErrNoSelection}
	}
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", 0, &DownloadError{Name: name, Err: fmt.Errorf("refusing to write %q", name)}
	}
	local := filepath.Join(destDir, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(PathDownloadFile), nil)
	if err != nil {
		return "", 0, &DownloadError{Name: name, Err: err}
	}
	req.Header.Set(HeaderFile, url.PathEscape(name))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, &DownloadError{Name: name, Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", 0, &DownloadError{Name: name, Err: statusError(resp)}
	}

	f, err := os.Create(local)
	if err != nil {
		return "", 0, &DownloadError{Name: name, Err: err}
	}
	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		return local, n, &DownloadError{Name: name, Err: fmt.Errorf("failed to stream body: %w", err)}
	}
	if err := f.Close(); err != nil {
		return local, n, &DownloadError{Name: name, Err: err}
	}
	slog.Info("Downloaded file", "file", name, "path", local, "bytes", n)
	return local, n, nil
}

// statusError builds an ErrUnexpectedStatus error carrying the start of the body.
func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(msg))
	if text == "" {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, text)
}

// drainAndClose lets the transport reuse the connection.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	if err := body.Close(); err != nil {
		slog.Debug("failed to close response body", "error", err)
	}
}
