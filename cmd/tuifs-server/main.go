package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rescp17/tuifs/api"
	"github.com/rescp17/tuifs/internal/config"
	"github.com/rescp17/tuifs/pkg/discovery"
	"github.com/rescp17/tuifs/pkg/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "tuifs-server [storage-dir]",
		Short: "Serve a directory to tuifs clients",
		Long: `tuifs-server keeps uploaded files as plain files in one storage directory
and serves them over HTTP to tuifs clients.

The storage directory defaults to "storage" next to the executable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.StorageDir = args[0]
			}

			closeLog, err := setupLogger(cfg.LogFile, cfg.Debug)
			if err != nil {
				return err
			}
			defer closeLog()

			dir, err := storage.ResolveDir(cfg.StorageDir)
			if err != nil {
				return err
			}
			store, err := storage.New(dir)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(cfg.Port)))
			if err != nil {
				return fmt.Errorf("failed to listen on port %d: %w", cfg.Port, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, store, cfg, &discovery.MDNSAdapter{})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tuifs.yaml)")
	flags.Int("port", config.DefaultPort, "Port to listen on")
	flags.Bool("announce", false, "Announce the server over mDNS")
	flags.Bool("watch", false, "Log changes made to the storage directory outside the server")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.Bool("debug", false, "Log every request")
	return cmd
}

// serve runs the HTTP server plus the optional announcer and watcher until
// ctx is cancelled or one of them fails.
func serve(ctx context.Context, ln net.Listener, store *storage.Service, cfg *config.ServerConfig, announcer discovery.Adapter) error {
	srv := &http.Server{
		Handler:           api.NewAPI(store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "addr", ln.Addr().String(), "storage", store.Dir())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Announce {
		g.Go(func() error {
			port := ln.Addr().(*net.TCPAddr).Port
			return announcer.Announce(ctx, discovery.NewServerInfo(port))
		})
	}

	if cfg.Watch {
		g.Go(func() error {
			return store.Watch(ctx, nil)
		})
	}

	return g.Wait()
}

// setupLogger sends slog and log output to path, or stderr when path is empty.
func setupLogger(path string, debug bool) (func(), error) {
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
			}
		}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	log.SetOutput(w)
	return closeFn, nil
}
