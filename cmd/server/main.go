package main

import (
	"context"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/server"

	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	envErr := godotenv.Load()

	// 設定の読み込み
	cfg := config.LoadConfig()
	logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if envErr != nil {
		logger.Warn(logger.Fields{"error": envErr.Error()}, ".env file not found or could not be loaded")
	}

	r, err := server.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal(logger.Fields{"error": err.Error()}, "failed to initialize server")
	}

	logger.Info(logger.Fields{"port": cfg.Port, "environment": cfg.Environment}, "Starting food demand chat API server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal(logger.Fields{"error": err.Error()}, "Failed to start server")
	}
}
