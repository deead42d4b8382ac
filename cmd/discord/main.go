package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"voice-warden/internal/config"
	"voice-warden/internal/discord"
	"voice-warden/internal/storage"
	v "voice-warden/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(backend)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if token := store.ClaimToken(); token != "" {
		log.Println("[WARN] THIS INSTALLATION IS UNCLAIMED")
		log.Printf("[WARN] To claim it, run:\n\n%s claim %s @admin_role\n", cfg.CommandPrefix, token)
	}

	bot := discord.NewBot(cfg, store)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Voice Warden exited cleanly")
}

func newBackend(cfg *config.Config) (storage.Backend, error) {
	if cfg.StorageBackend == "sqlite" {
		return storage.NewSQLiteBackend(cfg.SettingsPath)
	}
	return storage.NewFileBackend(cfg.SettingsPath)
}
