// Command bangtin-stub serves a local stand-in for the hosted bangtin
// service. Point the dashboard at it with RAOVAT_SERVICE_URL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raovat-dev/raovat/internal/logging"
	"github.com/raovat-dev/raovat/internal/stubserver"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	anonKey := flag.String("anon-key", "", "require this apikey header on every request (optional)")
	latency := flag.Duration("latency", 0, "artificial delay per request, e.g. 300ms (optional)")
	datasetPath := flag.String("dataset", "", "serve this dataset file instead of the bundled one (optional)")
	verbose := flag.Bool("verbose", false, "debug-level logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.ConsoleLogger(os.Stderr, level)

	dataset, err := loadDataset(*datasetPath)
	if err != nil {
		logger.Error("loading dataset failed", "error", err)
		return 1
	}

	srv := stubserver.New(stubserver.Options{
		AnonKey: *anonKey,
		Latency: *latency,
		Logger:  logger,
		Dataset: dataset,
	})

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	logger.Info("bangtin stub listening",
		"addr", *addr,
		"posts", len(dataset.Posts),
		"users", len(dataset.Users),
		"apikey_required", *anonKey != "",
	)

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return 1
		}
		logger.Info("stopped")
		return 0
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "bangtin-stub: %v\n", err)
			return 1
		}
		return 0
	}
}

func loadDataset(path string) (stubserver.Dataset, error) {
	if path == "" {
		return stubserver.DefaultDataset()
	}
	return stubserver.LoadDatasetFile(path)
}
