package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurelabs/aura/internal/assistant"
	"github.com/aurelabs/aura/internal/config"
	"github.com/aurelabs/aura/internal/ingress"
	"github.com/aurelabs/aura/internal/memory"
	"github.com/aurelabs/aura/internal/model"
	"github.com/aurelabs/aura/internal/store"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Starts the long-running webhook server that handles voice-platform call events: greeting on call start, chat turns with memory recall, and end-of-call memory extraction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("config not loaded")
		}

		dataDir, err := store.ResolveDataDir(cfg.Store.DataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}

		lock, err := store.NewFileLock(dataDir, fileLockConfig())
		if err != nil {
			return fmt.Errorf("acquire data dir lock: %w", err)
		}
		defer lock.Unlock()

		sessions, err := store.NewSessionStore(dataDir)
		if err != nil {
			return fmt.Errorf("init session store: %w", err)
		}
		moods, err := store.NewMoodStore(dataDir)
		if err != nil {
			return fmt.Errorf("init mood store: %w", err)
		}
		index, err := store.NewVectorIndex(dataDir)
		if err != nil {
			return fmt.Errorf("init vector index: %w", err)
		}

		router, err := model.NewRouter(cfg.Models)
		if err != nil {
			return fmt.Errorf("init model router: %w", err)
		}

		loc, err := time.LoadLocation(cfg.Assistant.Timezone)
		if err != nil {
			slog.Warn("Unknown timezone, using local", "timezone", cfg.Assistant.Timezone, "error", err)
			loc = time.Local
		}

		memories := memory.NewVectorMemory(router, index, cfg.Models.Embedding, cfg.Memory.EmbeddingDimension)
		extractor := memory.NewExtractor(router, memories, memory.ExtractorConfig{
			Model:       cfg.Models.Extraction,
			Temperature: cfg.Assistant.ExtractionTemperature,
			MaxTokens:   cfg.Assistant.ExtractionMaxTokens,
		})
		analyzer := assistant.NewMoodAnalyzer(router, cfg.Models.Chat, cfg.Assistant.MoodTemperature, cfg.Assistant.MoodMaxTokens)
		assembler := assistant.NewAssembler(router, memories, sessions, moods, assistant.AssemblerConfig{
			ChatModel:           cfg.Models.Chat,
			GreetingTemperature: cfg.Assistant.GreetingTemperature,
			GreetingMaxTokens:   cfg.Assistant.GreetingMaxTokens,
			ContextMemories:     cfg.Assistant.ContextMemories,
		}, loc)
		handler := assistant.NewHandler(assembler, sessions, moods, memories, extractor, analyzer, router, assistant.HandlerConfig{
			ChatModel:       cfg.Models.Chat,
			ChatTemperature: cfg.Assistant.ChatTemperature,
			TurnMemories:    cfg.Assistant.TurnMemories,
		}, loc)

		server := ingress.NewHTTPServer(cfg.Server.Port, handler, httpTimeouts())

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server.Start()
		slog.Info("Aura is up", "port", cfg.Server.Port, "data_dir", dataDir)

		<-ctx.Done()
		slog.Info("Shutting down...")

		shutdownTimeout, _ := config.DurationOrDefault(cfg.Server.ShutdownTimeout, config.DefaultServerShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		slog.Info("Aura stopped gracefully")
		return nil
	},
}

func fileLockConfig() *store.FileLockConfig {
	lockTimeout, _ := config.DurationOrDefault(cfg.Store.LockTimeout, config.DefaultStoreLockTimeout)
	lockRetry, _ := config.DurationOrDefault(cfg.Store.LockRetry, config.DefaultStoreLockRetry)
	maxRetry := cfg.Store.LockMaxRetry
	if maxRetry <= 0 {
		maxRetry = config.DefaultStoreLockMaxRetry
	}
	return &store.FileLockConfig{
		LockTimeout:  lockTimeout,
		LockRetry:    lockRetry,
		LockMaxRetry: maxRetry,
	}
}

func httpTimeouts() ingress.Timeouts {
	read, _ := config.DurationOrDefault(cfg.Server.ReadTimeout, config.DefaultServerReadTimeout)
	write, _ := config.DurationOrDefault(cfg.Server.WriteTimeout, config.DefaultServerWriteTimeout)
	idle, _ := config.DurationOrDefault(cfg.Server.IdleTimeout, config.DefaultServerIdleTimeout)
	return ingress.Timeouts{Read: read, Write: write, Idle: idle}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
