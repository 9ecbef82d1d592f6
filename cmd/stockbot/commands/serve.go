package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsatya/ved/internal/api"
	"github.com/opsatya/ved/internal/api/handlers"
	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/internal/scheduler"
	"github.com/opsatya/ved/internal/scheduler/jobs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket chat API",
	Long: `Starts the chat API.

Endpoints:
  GET    /health      - Service and database health
  POST   /chat        - {"query": "..."} -> {"response": "..."}
  GET    /ws/chat     - WebSocket chat, one frame per answer line
  DELETE /api/cache   - Flush the completion cache
  GET    /api/stocks  - Loaded stock names

When CACHE_FLUSH_SCHEDULE is set, the completion cache is flushed on that cron schedule.

Example:
  go run ./cmd/stockbot serve
  go run ./cmd/stockbot serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, render.Plain)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewPriceCacheCleanupJob(a.quotes, a.log)); err != nil {
		return fmt.Errorf("schedule price cache cleanup: %w", err)
	}
	if spec := a.cfg.LLM.FlushCron; spec != "" {
		if err := sched.AddJob(jobs.NewCacheFlushJob(a.narrator, spec, a.log)); err != nil {
			return fmt.Errorf("schedule cache flush: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	var health handlers.HealthChecker
	if a.db != nil {
		health = a.db
	}
	router := api.NewRouter(api.Handlers{
		Health: handlers.NewHealthHandler(health, a.stocks.Len(), a.rulesHash),
		Chat:   handlers.NewChatHandler(a.router, a.log),
		Stream: handlers.NewStreamHandler(a.router, a.cfg.AllowedOrigins, a.log),
		Cache:  handlers.NewCacheHandler(a.narrator, a.log),
		Stocks: handlers.NewStockHandler(a.stocks),
	}, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ stockbot listening on http://localhost:%s (%d stocks)\n", a.cfg.Port, a.stocks.Len())
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
