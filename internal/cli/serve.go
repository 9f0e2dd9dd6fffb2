package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tally-ledger/tally/internal/api"
)

// ─── serve ──────────────────────────────────────────────────────────────────

var (
	flagHost string
	flagPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve FILE",
	Short: "Replay a transaction file and serve the result over HTTP",
	Long: `Serve replays FILE exactly like the replay command, then exposes the
resulting ledger read-only over HTTP until interrupted: account snapshots,
journal entries, run statistics, and Prometheus metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (default from config)")
	serveCmd.Flags().BoolVar(&flagStrict, "strict", false, "enable all strict gates")
	serveCmd.Flags().StringVar(&flagAuditDB, "audit-db", "", "sqlite file to export the run into")
	serveCmd.Flags().IntVar(&flagPrecision, "precision", -1, "fractional digits in rendered amounts")
}

func runServe(cmd *cobra.Command, args []string) error {
	engine, report, err := replayFile(args[0])
	if err != nil {
		return err
	}
	if err := exportAudit(engine, report); err != nil {
		return err
	}

	server := api.NewServer(engine.Accounts(), engine.Journal(), report, outputPrecision())
	if cfg.API.Metrics {
		server.EnableMetrics()
	}

	host := cfg.API.Host
	if flagHost != "" {
		host = flagHost
	}
	port := cfg.API.Port
	if flagPort != 0 {
		port = flagPort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("inspection server listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
