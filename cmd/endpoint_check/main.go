package main

import (
	"os"
	"time"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/sagemaker"
	"food-demand-chat-api/pkg/services"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// SageMakerエンドポイントに1件だけ予測を投げて疎通を確認するツール
func main() {
	app := &cli.App{
		Name:  "endpoint_check",
		Usage: "Send one prediction to the SageMaker endpoint and log the result",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Value: "monday", Usage: "day label"},
			&cli.StringFlag{Name: "weather", Value: "sunny", Usage: "weather label"},
			&cli.StringFlag{Name: "dish", Value: "pizza", Usage: "dish label"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		logger.Warn(logger.Fields{"error": err.Error()}, ".env file not found")
	}

	cfg := config.LoadConfig()
	logger.Setup(logger.Options{Level: "debug", File: cfg.LogFile})
	if err := cfg.Validate(); err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "invalid configuration")
		return err
	}

	runtime, err := sagemaker.NewRuntimeClient(c.Context, sagemaker.Options{
		Region:       cfg.AWSRegion,
		EndpointName: cfg.SageMakerEndpointName,
		EndpointURL:  cfg.SageMakerEndpointURL,
	})
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "failed to create SageMaker client")
		return err
	}

	day, weather, dish := c.String("day"), c.String("weather"), c.String("dish")
	logger.Info(logger.Fields{
		"endpoint": cfg.SageMakerEndpointName,
		"region":   cfg.AWSRegion,
		"day":      day,
		"weather":  weather,
		"dish":     dish,
	}, "sending prediction request")

	ps := services.NewPredictionService(runtime, cfg.SageMakerEndpointName, cfg.PredictTimeout)
	start := time.Now()
	result, err := ps.Predict(c.Context, services.NormalizeLabel(day), services.NormalizeLabel(weather), services.NormalizeLabel(dish))
	if err != nil {
		logger.Error(logger.Fields{
			"code":       services.ErrorCodeOf(err),
			"error":      err.Error(),
			"latency_ms": time.Since(start).Milliseconds(),
		}, "ERROR: prediction failed")
		return err
	}

	logger.Info(logger.Fields{
		"dish":       result.Dish,
		"day":        result.Day,
		"mean":       result.Mean,
		"low":        result.Low,
		"high":       result.High,
		"latency_ms": time.Since(start).Milliseconds(),
	}, "SUCCESS: endpoint responded")
	return nil
}
