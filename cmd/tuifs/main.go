package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/rescp17/tuifs/internal/app"
	"github.com/rescp17/tuifs/internal/config"
	"github.com/rescp17/tuifs/internal/util"
	"github.com/rescp17/tuifs/pkg/discovery"
	"github.com/rescp17/tuifs/pkg/ui"
)

const connectTimeout = 10 * time.Second

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "tuifs [host:port]",
		Short: "Browse, upload and download files on a tuifs server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.ServerAddress = args[0]
			}

			f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
				}
			}()
			setupLogger(f, cfg.Debug)

			return runTUI(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tuifs.yaml)")
	cmd.Flags().String("download-dir", ".", "Directory downloads are written to")
	cmd.Flags().String("log-file", "tuifs.log", "Log file; the terminal belongs to the UI")
	cmd.Flags().Bool("debug", false, "Log at debug level")

	cmd.AddCommand(newDiscoverCmd(&cfgFile))
	return cmd
}

func runTUI(ctx context.Context, cfg *config.ClientConfig) error {
	downloadDir, err := util.EnsureDir(util.ExpandHome(cfg.DownloadDir))
	if err != nil {
		return err
	}

	var transport app.Transport
	if cfg.ServerAddress != "" {
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		transport, err = app.DialHTTP(dialCtx, cfg.ServerAddress)
		cancel()
		if err != nil {
			// Start unconnected; the user is asked for an address.
			slog.Warn("Initial connect failed", "address", cfg.ServerAddress, "error", err)
			transport = nil
		}
	}

	machine := app.New(transport, app.DialHTTP, app.PendingConfig{
		ServerAddress: cfg.ServerAddress,
		DownloadDir:   downloadDir,
	})
	defer func() {
		if err := machine.Close(); err != nil {
			slog.Debug("failed to close connection", "error", err)
		}
	}()

	p := tea.NewProgram(ui.InitialModel(ctx, machine))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}

func newDiscoverCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List tuifs servers announced on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			setupLogger(io.Discard, false)
			services, err := discovery.Collect(cmd.Context(), &discovery.MDNSAdapter{}, discovery.DefaultServiceType, cfg.DiscoverTimeout)
			if err != nil {
				return err
			}
			printServices(cmd.OutOrStdout(), services)
			return nil
		},
	}
	cmd.Flags().Duration("discover-timeout", 3*time.Second, "How long to listen for announcements")
	return cmd
}

func printServices(w io.Writer, services []discovery.ServiceInfo) {
	if len(services) == 0 {
		fmt.Fprintln(w, "No servers found")
		return
	}
	fmt.Fprintf(w, "%s %s\n", util.PadRight("NAME", 32), "ADDRESS")
	for _, s := range services {
		fmt.Fprintf(w, "%s %s\n", util.PadRight(s.Name, 32), s.Address())
	}
}

func setupLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	log.SetOutput(w)
}
