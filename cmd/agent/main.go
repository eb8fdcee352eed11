package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/trimdeck/trimdeck-agent/internal/api"
	"github.com/trimdeck/trimdeck-agent/internal/config"
	"github.com/trimdeck/trimdeck-agent/internal/db"
	"github.com/trimdeck/trimdeck-agent/internal/library"
	"github.com/trimdeck/trimdeck-agent/internal/logging"
	"github.com/trimdeck/trimdeck-agent/internal/media"
	"github.com/trimdeck/trimdeck-agent/internal/playback"
	"github.com/trimdeck/trimdeck-agent/internal/sequence"
	"github.com/trimdeck/trimdeck-agent/internal/stream"
	"github.com/trimdeck/trimdeck-agent/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting trimdeck agent", "version", config.Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := library.NewRepository(database.Conn())

	deviceID, err := ensureDeviceID(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                   TRIMDECK AGENT v0.1.0                   ║")
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	var prober media.Prober
	if p, err := media.NewFFprobe(cfg.FFprobePath(), logger); err != nil {
		logger.Warn("ffprobe unavailable, files will carry no duration metadata", "error", err)
		prober = media.NewStubProber(logger)
	} else {
		prober = p
	}

	librarySvc := library.NewService(repo, prober, logging.WithComponent(logger, "library"))
	streamSvc := stream.NewServer(logging.WithComponent(logger, "stream"))

	seqLogger := logging.WithComponent(logger, "sequence")
	seq := sequence.NewManager(seqLogger)
	seq.OnChange(func(ev sequence.Event) {
		seqLogger.Debug("sequence changed", "fields", len(ev.Fields))
	})

	queueLogger := logging.WithComponent(logger, "queue")
	queue := playback.NewManager(queueLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := library.NewRunner(librarySvc, repo, logging.WithComponent(logger, "runner"))
	go runner.Start(ctx)

	mu := &sync.Mutex{}

	apiServer := api.NewServer(api.ServerConfig{
		Port:           cfg.Port(),
		Sequence:       seq,
		Queue:          queue,
		LibraryService: librarySvc,
		Repository:     repo,
		Runner:         runner,
		Stream:         streamSvc,
		Logger:         logging.WithComponent(logger, "api"),
		StartTime:      startTime,
		DeviceID:       deviceID,
		FrameRate:      cfg.FrameRate(),
		Mu:             mu,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Queue:   queue,
			QueueMu: mu,
			Runner:  runner,
			Logger:  logging.WithComponent(logger, "tray"),
			OnQuit: func() {
				close(quitCh)
			},
		})
		queue.OnChange(func(ev playback.Event) {
			// Listener runs with mu already held by the mutating request,
			// so render on a fresh goroutine to avoid re-entrant locking.
			go tray.Refresh()
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func ensureDeviceID(repo library.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "device_id")
	if err == nil && existing != "" {
		return existing, nil
	}

	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", err
	}
	deviceID := hex.EncodeToString(idBytes)

	if err := repo.SetConfig(ctx, "device_id", deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(repo library.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, "auth_token")
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}

	return token, nil
}
