package main

import (
	"os"

	config "food-demand-chat-api/configs"
	"food-demand-chat-api/pkg/logger"
	"food-demand-chat-api/pkg/sagemaker"
	"food-demand-chat-api/pkg/services"
	"food-demand-chat-api/pkg/shell"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	app := &cli.App{
		Name:  "forecast-shell",
		Usage: "Predict restaurant dish demand and ask questions about the forecast",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "SageMaker endpoint name",
				Value:   cfg.SageMakerEndpointName,
				EnvVars: []string{"SAGEMAKER_ENDPOINT_NAME"},
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region",
				Value:   cfg.AWSRegion,
				EnvVars: []string{"AWS_REGION"},
			},
			&cli.StringFlag{
				Name:    "endpoint-url",
				Usage:   "Override the SageMaker runtime base URL",
				Value:   cfg.SageMakerEndpointURL,
				EnvVars: []string{"SAGEMAKER_ENDPOINT_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Timeout for a single prediction call",
				Value:   cfg.PredictTimeout,
				EnvVars: []string{"PREDICT_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Action: func(c *cli.Context) error {
			logger.Setup(logger.Options{Level: c.String("log-level"), File: cfg.LogFile})

			cfg.SageMakerEndpointName = c.String("endpoint")
			cfg.PredictTimeout = c.Duration("timeout")
			if err := cfg.Validate(); err != nil {
				return cli.Exit(err.Error(), 1)
			}

			runtime, err := sagemaker.NewRuntimeClient(c.Context, sagemaker.Options{
				Region:       c.String("region"),
				EndpointName: cfg.SageMakerEndpointName,
				EndpointURL:  c.String("endpoint-url"),
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			predictor := services.NewPredictionService(runtime, cfg.SageMakerEndpointName, cfg.PredictTimeout)
			sh := shell.New(services.NewForecastChatService(predictor), services.NewExportService(), os.Stdin, os.Stdout)
			return sh.Run(c.Context)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(logger.Fields{"error": err.Error()}, "forecast-shell failed")
	}
}
