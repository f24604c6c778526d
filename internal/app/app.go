// Package app wires configuration, the database and the request handler
// together for the command entry points.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oceanicsdotio/oceanics.io-sub000/auth"
	"github.com/oceanicsdotio/oceanics.io-sub000/config"
	"github.com/oceanicsdotio/oceanics.io-sub000/graph"
	"github.com/oceanicsdotio/oceanics.io-sub000/handler"
)

// App is a ready-to-serve handler and the resources behind it.
type App struct {
	Handler  *handler.Handler
	executor *graph.Neo4jExecutor
}

// New connects to Neo4j, applies migrations and builds the handler.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	key, err := auth.NewSigningKey([]byte(cfg.Auth.SigningKey))
	if err != nil {
		return nil, err
	}
	issuer := auth.NewIssuer(key, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	verifier := auth.NewVerifier(cfg.Auth.Iterations)

	executor, err := graph.NewNeo4jExecutor(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, err
	}
	if err := executor.Verify(ctx); err != nil {
		_ = executor.Close(ctx)
		return nil, fmt.Errorf("could not reach neo4j: %w", err)
	}

	store := graph.NewStore(executor)
	if err := store.Migrate(ctx, cfg.Neo4j.Labels...); err != nil {
		_ = executor.Close(ctx)
		return nil, err
	}
	logger.Info("database ready", "uri", cfg.Neo4j.URI, "labels", cfg.Neo4j.Labels)

	h, err := handler.New(store, issuer, verifier, logger)
	if err != nil {
		_ = executor.Close(ctx)
		return nil, err
	}
	return &App{Handler: h, executor: executor}, nil
}

// Close releases the database driver.
func (a *App) Close(ctx context.Context) error {
	return a.executor.Close(ctx)
}
