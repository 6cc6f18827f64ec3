package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"drawboard/auth"
	"drawboard/config"
	"drawboard/gateway"
	"drawboard/server"
	"drawboard/store"
	"drawboard/transport"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr string
	dsn  string
}

// Cmd represents the serve command.
var Cmd = NewCommand()

// NewCommand returns a new serve command instance.
func NewCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the drawing gateway",
		Long: `Serve websocket clients on /ws along with /health, /stats and
/rooms/:roomId/events. Settings come from the environment or a .env file;
flags override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default: $SERVER_ADDR or :8080)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", `SQLite database path, or "memory" (default: $DATABASE_DSN)`)

	return cmd
}

func runServe(opts *serveOptions) error {
	cfg := config.Load()
	if opts.addr != "" {
		cfg.ServerAddr = opts.addr
	}
	if opts.dsn != "" {
		cfg.DatabaseDSN = opts.dsn
	}
	setupLogger(cfg.SlogLevel())

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	gw := gateway.New(auth.NewJWT(cfg.JWTSecret), st, gateway.Options{
		HistoryLimit:   cfg.HistoryLimit,
		PingInterval:   cfg.PingInterval,
		MaxMissedPongs: cfg.MaxMissedPongs,
	})
	api := server.New(gw, st, cfg.HistoryLimit, transport.Options{
		WriteTimeout:   cfg.WriteTimeout,
		MaxMessageSize: cfg.MaxMessageSize,
		SendBuffer:     cfg.ClientSendBuffer,
	})

	gwCtx, stopGateway := context.WithCancel(context.Background())
	defer stopGateway()
	gwDone := make(chan struct{})
	go func() {
		defer close(gwDone)
		gw.Run(gwCtx)
	}()

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: api.Handler(),
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.ServerAddr, "dsn", cfg.DatabaseDSN)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		stopGateway()
		<-gwDone
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	// Hijacked websockets are not tracked by the http server; the gateway
	// closes them.
	stopGateway()
	<-gwDone
	return nil
}

func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
