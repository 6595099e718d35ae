package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/emoji"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/server"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
)

func run(cmd *cobra.Command, app application.Application, cfg server.Config) error {
	logger := app.Logger()
	logger.Info().
		Str("addr", addr(cfg)).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.APIKey != "").
		Int64("max_body_bytes", cfg.MaxBodyBytes).
		Msg("Starting review API")

	srv, err := server.New(app, cfg)
	if err != nil {
		return errors.WrapResource("create", "server", addr(cfg), err)
	}

	httpServer := &http.Server{
		Addr:         addr(cfg),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return errors.WrapIO("listen", httpServer.Addr, err)
	}
	return serveWithGracefulShutdown(cmd, httpServer, ln, srv)
}

// serveWithGracefulShutdown serves on ln until the command context is
// canceled, then drains in-flight requests.
func serveWithGracefulShutdown(cmd *cobra.Command, httpServer *http.Server, ln net.Listener, srv *server.Server) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.ErrOrStderr()

	serverErr := make(chan error, 1)
	go func() {
		_, _ = fmt.Fprintf(out, "%s Review API listening on http://%s\n", emoji.Success, ln.Addr())
		_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		_, _ = fmt.Fprintf(out, "\n%s Shutting down review API...\n", emoji.Stop)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		<-serverErr
		_ = srv.Shutdown(shutdownCtx)

		_, _ = fmt.Fprintf(out, "%s Review API stopped\n", emoji.Success)
		return nil
	}
}
