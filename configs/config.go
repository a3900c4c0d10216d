package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	APIKey        string
	AdminUsername string
	AdminPassword string

	AWSRegion             string
	SageMakerEndpointName string
	SageMakerEndpointURL  string // 空ならAWSの標準エンドポイントを使用
	PredictTimeout        time.Duration

	SessionIdleTimeout time.Duration // 0で期限切れなし

	LogLevel string
	LogFile  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		APIKey:        getEnv("API_KEY", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		SageMakerEndpointName: getEnv("SAGEMAKER_ENDPOINT_NAME", "food-demand"),
		SageMakerEndpointURL:  getEnv("SAGEMAKER_ENDPOINT_URL", ""),
		PredictTimeout:        getDurationEnv("PREDICT_TIMEOUT", 30*time.Second),

		SessionIdleTimeout: getDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate は起動前に必須項目をチェックします。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SageMakerEndpointName) == "" {
		return errors.New("SAGEMAKER_ENDPOINT_NAME must be set")
	}
	if c.PredictTimeout <= 0 {
		return errors.New("PREDICT_TIMEOUT must be positive")
	}
	if c.SessionIdleTimeout < 0 {
		return errors.New("SESSION_IDLE_TIMEOUT must not be negative")
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv は "30s" や "5m" 形式の値を読み込みます。解析できない場合はデフォルト値。
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if value == "0" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
