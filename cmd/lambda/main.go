// Command lambda serves the graph API as an API Gateway proxy function.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/oceanicsdotio/oceanics.io-sub000/config"
	"github.com/oceanicsdotio/oceanics.io-sub000/internal/app"
)

func main() {
	cfg, err := config.Load(os.Getenv("GRAPH_CONFIG"))
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	logger.Info("starting", "config", cfg)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not start", "error", err)
		os.Exit(1)
	}
	defer a.Close(ctx)

	lambda.Start(a.Handler.Lambda)
}
