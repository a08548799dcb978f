package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielpatrickdp/modeshift/internal/config"
	"github.com/danielpatrickdp/modeshift/internal/engine"
	"github.com/danielpatrickdp/modeshift/internal/httpapi"
	"github.com/danielpatrickdp/modeshift/internal/journal"
	"github.com/danielpatrickdp/modeshift/internal/signals"
)

// #region main
func main() {
	configPath := flag.String("config", "modeshift.toml", "path to TOML config")
	demo := flag.Bool("demo", false, "feed the engine synthetic signals instead of waiting for /v1/tick")
	demoInterval := flag.Duration("demo-interval", 500*time.Millisecond, "tick interval for --demo")
	demoSeed := flag.Int64("demo-seed", 0, "seed for the demo signal generator (0 = wall time)")
	flag.Parse()

	// .env is optional; real env always wins inside config.Load.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		log.Fatalf("invalid engine config: %v", err)
	}
	eng, err := engine.New(engineCfg)
	if err != nil {
		log.Fatalf("failed to build engine: %v", err)
	}

	var jnl *journal.Journal
	if cfg.Server.DBPath != "" {
		jnl, err = journal.Open(cfg.Server.DBPath)
		if err != nil {
			log.Fatalf("failed to open journal: %v", err)
		}
		defer jnl.Close()
	}

	srv := httpapi.NewServer(eng, jnl)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *demo {
		seed := *demoSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		go runDemo(ctx, srv, seed, *demoInterval)
	}

	go func() {
		log.Printf("[MODED] listening on %s (db=%q, initial=%s)",
			cfg.Server.Addr, cfg.Server.DBPath, cfg.Engine.InitialMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[MODED] http server error: %v", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("[MODED] received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MODED] shutdown failed: %v", err)
	}
}

// #endregion main

// #region demo

// runDemo feeds the server a synthetic signal walk until ctx is cancelled.
func runDemo(ctx context.Context, srv *httpapi.Server, seed int64, interval time.Duration) {
	log.Printf("[MODED] demo generator on (seed=%d, interval=%s)", seed, interval)
	producer := signals.NewProducer(seed, signals.DefaultProducerConfig())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			frame := producer.Next(now)
			decided, prog, _ := srv.Tick(frame, nil, nil)
			if prog.InTransition && prog.Fraction == 0 {
				log.Printf("[MODED] demo: %s → %s (emergency=%v)", prog.From, decided, prog.IsEmergency)
			}
		}
	}
}

// #endregion demo
