package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/providers/llm"
	"github.com/sandevgo/taskchat/internal/service/assistant"
	"github.com/sandevgo/taskchat/internal/service/reports"
	"github.com/sandevgo/taskchat/internal/storage/sqlite"
	"github.com/sandevgo/taskchat/internal/transport/httpapi"
	"github.com/sandevgo/taskchat/pkg/log"
	"github.com/sandevgo/taskchat/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	httpCfg := config.NewHTTPConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	historyRepo := sqlite.NewHistoryRepo(db)
	activityRepo := sqlite.NewActivityRepo(db)
	reportRepo := sqlite.NewReportRepo(db)

	// 3. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg.LLMProvider, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Domain services
	chat := assistant.New(aiProvider, historyRepo, activityRepo, llmCfg)
	reporting := reports.NewService(aiProvider, reportRepo, llmCfg)

	// 5. Transport
	server := httpapi.NewServer(ctx, httpCfg, chat, reporting)
	services = append(services, server)

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
