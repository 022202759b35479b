package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/eltgood/line-sheet-bridge/internal/biz/usecase"
	"github.com/eltgood/line-sheet-bridge/internal/conf"
	"github.com/eltgood/line-sheet-bridge/internal/data"
	"github.com/eltgood/line-sheet-bridge/internal/server"
	"github.com/eltgood/line-sheet-bridge/internal/service"
	"github.com/eltgood/line-sheet-bridge/relay"
	"github.com/eltgood/line-sheet-bridge/sheetstore"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := conf.Load()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Structured logger
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize clients
	ctx := context.Background()
	store, err := sheetstore.New(ctx, cfg.Sheet.SpreadsheetID, cfg.Sheet.CredentialsFile)
	if err != nil {
		logger.Error("failed to create sheet store", "error", err)
		os.Exit(1)
	}

	lineAPI, err := messaging_api.NewMessagingApiAPI(cfg.Line.AccessToken)
	if err != nil {
		logger.Error("failed to create messaging client", "error", err)
		os.Exit(1)
	}

	var relayClient *relay.Client
	if cfg.Relay.APIKey != "" {
		relayClient = relay.NewClient(cfg.Relay.APIKey, cfg.Relay.BaseURL, cfg.Relay.Model, cfg.Relay.Timeout)
		logger.Info("prompt relay enabled", "model", relayClient.Model())
	}

	// Initialize repository layer
	repos := data.NewRepositories(store, lineAPI, relayClient,
		cfg.Sheet.GroupSheet, cfg.Sheet.RuleSheet, cfg.Sheet.MessageSheet)

	// Initialize usecase layer
	loc := cfg.Location()
	registryUC := usecase.NewRegistryUsecase(repos.Group, loc)
	publisherUC := usecase.NewPublisherUsecase(repos.Messenger, repos.Rule, loc)

	// Initialize service layer
	eventSvc := service.NewEventService(
		registryUC, repos.Messenger, repos.Relay, repos.MessageLog,
		cfg.Line.BotName, logger)

	srv := server.New(cfg.Line.ChannelSecret, eventSvc, publisherUC, logger, cfg.Server.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down")
		if err := srv.Stop(); err != nil {
			logger.Warn("shutdown error", "error", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
