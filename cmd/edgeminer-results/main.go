// Command edgeminer-results serves the results directory over a small
// read-only HTTP API
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edgeminer/internal/platform/config"
	"edgeminer/internal/platform/httpx"
	"edgeminer/internal/platform/logger"
	"edgeminer/internal/services/results"
)

func main() {
	dir := flag.String("dir", "results", "results directory to serve")
	flag.Parse()

	logger.Init(logger.FromEnv())
	log := logger.Named("edgeminer-results")

	addr := config.New().Prefix("RESULTS_").MayString("ADDR", ":4100")
	srv := httpx.NewServer(addr)
	results.NewHandler(*dir, *log).Mount(srv.Mux())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
		log.Info().Msg("server stopped")
	}
}
