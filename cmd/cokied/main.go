// Package main provides the entry point for the Cokie conversation daemon.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DiazJL07/Braincare/internal/chat"
	"github.com/DiazJL07/Braincare/internal/config"
	"github.com/DiazJL07/Braincare/internal/conversation"
	"github.com/DiazJL07/Braincare/internal/gemini"
	"github.com/DiazJL07/Braincare/internal/server"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down gracefully...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Printf("Error: %v", err)
		return 1
	}
	return 0
}

func run(ctx context.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		log.Println("Debug logging enabled")
	}

	logger := slog.Default()

	persona, err := config.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return err
	}

	store := conversation.NewStore()

	if ttl := cfg.SessionTTL(); ttl > 0 {
		cleanup := conversation.NewCleanupService(store, ttl, logger)
		cleanup.Start(ctx)
		defer cleanup.Stop()
		logger.Info("Idle-conversation cleanup enabled", slog.Duration("ttl", ttl))
	}

	orchestratorOpts := []chat.Option{
		chat.WithPersona(persona),
		chat.WithLogger(logger),
	}

	if cfg.ModelReady() {
		client, clientErr := gemini.NewClient(cfg.GeminiAPIKey,
			gemini.WithModel(cfg.Model),
			gemini.WithTimeout(cfg.GenTimeout()),
		)
		if clientErr != nil {
			return clientErr
		}
		orchestratorOpts = append(orchestratorOpts, chat.WithGenerator(client))
		logger.Info("Generation client configured", slog.String("model", client.Model()))
	} else {
		// The rest of the service keeps working; the chat endpoint answers 503.
		logger.Warn("GEMINI_API_KEY not set; chat endpoint disabled")
	}

	if cfg.SecretKey != "" {
		logger.Debug("Session secret configured (unused: no cookies are issued)")
	}

	orchestrator, err := chat.NewOrchestrator(store, orchestratorOpts...)
	if err != nil {
		return err
	}

	srv, err := server.New(orchestrator, cfg.Addr, server.WithLogger(logger))
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
