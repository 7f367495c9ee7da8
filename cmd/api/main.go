package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"

	"headshot/internal/export"
	"headshot/internal/http/handlers"
	"headshot/internal/http/httpapi"
	"headshot/internal/infra"
	"headshot/internal/providers/genai"
	imageprovider "headshot/internal/providers/image"
	"headshot/internal/storage"
	"headshot/internal/upload"
	"headshot/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store storage.BlobStore
	staticDir := ""
	switch cfg.StorageBackend {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load AWS configuration")
		}
		store, err = storage.NewS3Store(awsCfg, cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize S3 blob store")
		}
	default:
		fileStore, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize file blob store")
		}
		store = fileStore
		staticDir = fileStore.BasePath()
	}

	genaiClient, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize Gemini client")
	}
	transformer := imageprovider.NewGeminiTransformer(genaiClient, store)

	previews := upload.NewPreviewStore()
	sessions := workflow.NewRegistry(previews, cfg.SessionTTL, logger)
	go sessions.Sweep(ctx, cfg.SessionSweepInterval)

	orchestrator := workflow.NewOrchestrator(store, transformer, logger)
	app := handlers.NewApp(
		logger,
		sessions,
		orchestrator,
		export.NewExporter(nil),
		upload.NewValidator(previews),
		previews,
	)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          staticDir,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
