package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/config"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/di"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/turn"
)

const backgroundDrainTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err := di.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}

	err = container.Invoke(func(router http.Handler, turns *turn.Service, closers *di.Closers) {
		startServer(ctx, cfg.Server, router)

		// 等待后台情绪校准和记忆写入完成
		drainCtx, cancel := context.WithTimeout(context.Background(), backgroundDrainTimeout)
		defer cancel()
		if err := turns.Shutdown(drainCtx); err != nil {
			log.Printf("warning: background tasks still running at shutdown: %v", err)
		}
		if err := closers.Close(drainCtx); err != nil {
			log.Printf("warning: failed to release resources: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("SoulSync backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
