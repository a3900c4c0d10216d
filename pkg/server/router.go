package server

import (
	"context"
	"fmt"
	"net/http"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/handlers"
	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/sagemaker"
	"food-demand-chat-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultAPIKey = "default_secret_key"

// Dependencies はルーターが使うサービス群です。テストではPredictorを差し替える。
type Dependencies struct {
	Config     *config.Config
	Predictor  services.Predictor
	Sessions   *services.SessionStore
	Monitoring *services.MonitoringService
}

// New は設定からSageMakerクライアントを含む全サービスを初期化し、ルーターを返します。
func New(ctx context.Context, cfg *config.Config) (*gin.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runtime, err := sagemaker.NewRuntimeClient(ctx, sagemaker.Options{
		Region:       cfg.AWSRegion,
		EndpointName: cfg.SageMakerEndpointName,
		EndpointURL:  cfg.SageMakerEndpointURL,
	})
	if err != nil {
		return nil, fmt.Errorf("SageMakerクライアントの初期化に失敗: %w", err)
	}
	logger.Info(logger.Fields{
		"endpoint": cfg.SageMakerEndpointName,
		"region":   cfg.AWSRegion,
		"timeout":  cfg.PredictTimeout.String(),
	}, "prediction endpoint configured")

	return NewRouter(Dependencies{
		Config:     cfg,
		Predictor:  services.NewPredictionService(runtime, cfg.SageMakerEndpointName, cfg.PredictTimeout),
		Sessions:   services.NewSessionStore(cfg.SessionIdleTimeout),
		Monitoring: services.NewMonitoringService(),
	}), nil
}

// NewRouter はハンドラーを登録したGinエンジンを返します。
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// ハンドラーの初期化
	forecastHandler := handlers.NewForecastHandler(
		services.NewForecastChatService(deps.Predictor),
		deps.Sessions,
		services.NewExportService(),
	)
	adminHandler := handlers.NewAdminHandler(cfg, deps.Sessions)
	monitoringHandler := handlers.NewMonitoringHandler(deps.Monitoring)

	// ミドルウェアの登録
	r.Use(deps.Monitoring.LoggingMiddleware())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("X-API-KEY")
	r.Use(cors.New(corsConfig))

	r.GET("/health", adminHandler.HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}

		forecast := v1.Group("")
		forecast.Use(adminHandler.MaintenanceGuard())
		{
			forecast.GET("/categories", forecastHandler.GetCategories)
			forecast.POST("/sessions", forecastHandler.CreateSession)
			forecast.DELETE("/sessions/:sessionID", forecastHandler.DeleteSession)
			forecast.POST("/sessions/:sessionID/predict", forecastHandler.Predict)
			forecast.GET("/sessions/:sessionID/prediction", forecastHandler.GetPrediction)
			forecast.POST("/sessions/:sessionID/ask", forecastHandler.Ask)
			forecast.GET("/sessions/:sessionID/export", forecastHandler.ExportPrediction)
		}
	}

	return r
}

// authMiddleware はAPIキーが設定されている場合のみX-API-KEYヘッダーを検証します。
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || apiKey == defaultAPIKey {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
