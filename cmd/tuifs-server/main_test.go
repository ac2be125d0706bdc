package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescp17/tuifs/api"
	"github.com/rescp17/tuifs/internal/config"
	"github.com/rescp17/tuifs/pkg/discovery"
	"github.com/rescp17/tuifs/pkg/storage"
)

type recordingAdapter struct {
	announced chan discovery.ServiceInfo
}

func (r *recordingAdapter) Announce(ctx context.Context, service discovery.ServiceInfo) error {
	r.announced <- service
	<-ctx.Done()
	return nil
}

func (r *recordingAdapter) Discover(ctx context.Context, service string) <-chan discovery.DiscoveryResult {
	ch := make(chan discovery.DiscoveryResult)
	close(ch)
	return ch
}

func TestServe_ServesUntilCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	store, err := storage.New(dir)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := config.DefaultServerConfig()
	cfg.Announce = true
	cfg.Watch = true
	adapter := &recordingAdapter{announced: make(chan discovery.ServiceInfo, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, store, &cfg, adapter) }()

	select {
	case info := <-adapter.announced:
		assert.Equal(t, ln.Addr().(*net.TCPAddr).Port, info.Port)
		assert.Equal(t, discovery.DefaultServiceType, info.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("server was not announced")
	}

	client, err := api.Connect(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	names, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, names)
	require.NoError(t, client.Close())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	closeLog, err := setupLogger(path, true)
	require.NoError(t, err)
	closeLog()
	assert.FileExists(t, path)

	_, err = setupLogger(filepath.Join(t.TempDir(), "missing", "x.log"), false)
	assert.Error(t, err)
}
