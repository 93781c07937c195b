package serviceutil

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

	"github.com/labstack/echo/v4"
)

// SignalContext is cancelled on the first SIGINT or SIGTERM. A second signal falls
// through to the default handler and kills the process.
func SignalContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx
}

// StartHttpServer serves e on port until ctx is done, then gives in-flight requests
// `grace` to finish.
func StartHttpServer(ctx context.Context, e *echo.Echo, port int, grace time.Duration) error {
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	slog.Info("listening to http...", "addr", addr)

	errs := make(chan error, 1)
	go func() {
		errs <- e.Start(addr)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}
