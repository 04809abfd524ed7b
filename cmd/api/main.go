package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/noir-engine/internal/config"
	"github.com/jwebster45206/noir-engine/internal/game"
	"github.com/jwebster45206/noir-engine/internal/handlers"
	"github.com/jwebster45206/noir-engine/internal/logger"
	"github.com/jwebster45206/noir-engine/internal/middleware"
	"github.com/jwebster45206/noir-engine/internal/services"
	"github.com/jwebster45206/noir-engine/internal/storage"
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Noir Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	games, err := loadCartridges(cfg.CartridgePath)
	if err != nil {
		log.Error("Failed to load cartridges", "path", cfg.CartridgePath, "error", err)
		os.Exit(1)
	}
	log.Info("Cartridges loaded", "count", len(games))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var llmService services.LLMService
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case config.ProviderGemini:
		gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.ModelName, log)
		if err != nil {
			log.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llmService = gemini
		log.Info("Using Gemini LLM provider")
	default:
		log.Info("No LLM provider; narration is static and only plain commands are understood")
	}
	if llmService != nil {
		if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
			log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
			os.Exit(1)
		}
	}

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.StateTTL, log)
	if err := store.WaitForConnection(ctx, 10, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	svc := game.NewService(games, store, llmService, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, cfg.LLMProvider, log))
	mux.Handle("/v1/cartridges", handlers.NewCartridgesHandler(svc, log))
	gameHandler := handlers.NewGameHandler(svc, log)
	mux.Handle("/v1/games", gameHandler)
	mux.Handle("/v1/games/", gameHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// loadCartridges accepts a single cartridge file or a directory of them.
func loadCartridges(path string) (map[string]*cartridge.Game, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return cartridge.LoadDir(path)
	}
	g, err := cartridge.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return map[string]*cartridge.Game{g.ID: g}, nil
}
