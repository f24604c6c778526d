// Package config loads service configuration from an optional YAML file and
// GRAPH_* environment variables.
package config

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration of the API.
type Config struct {
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Neo4j   Neo4jConfig   `mapstructure:"neo4j" yaml:"neo4j"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// AuthConfig holds token and credential settings.
type AuthConfig struct {
	// SigningKey is the HMAC key for bearer tokens. Never logged.
	SigningKey string        `mapstructure:"signing_key" yaml:"signing_key" validate:"required,min=32"`
	Issuer     string        `mapstructure:"issuer" yaml:"issuer" validate:"required"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" yaml:"token_ttl" validate:"min=1m"`
	Iterations int           `mapstructure:"iterations" yaml:"iterations" validate:"min=1000"`
}

// Neo4jConfig locates the database.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri" yaml:"uri" validate:"required,uri"`
	User     string `mapstructure:"user" yaml:"user" validate:"required"`
	Password string `mapstructure:"password" yaml:"password" validate:"required"`
	Database string `mapstructure:"database" yaml:"database"`
	// Labels get a uuid index at startup, in addition to User.
	Labels []string `mapstructure:"labels" yaml:"labels" validate:"dive,label"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`
}

// ServerConfig configures the standalone HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
}

// DefaultConfig returns a Config with every optional setting filled in.
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			Issuer:     "oceanics.io",
			TokenTTL:   time.Hour,
			Iterations: 600_000,
		},
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			User:     "neo4j",
			Database: "neo4j",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LogValue leaves out the signing key and the database password.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("issuer", c.Auth.Issuer),
		slog.Duration("token_ttl", c.Auth.TokenTTL),
		slog.Int("iterations", c.Auth.Iterations),
		slog.String("neo4j_uri", c.Neo4j.URI),
		slog.String("neo4j_user", c.Neo4j.User),
		slog.String("neo4j_database", c.Neo4j.Database),
		slog.Any("labels", c.Neo4j.Labels),
		slog.String("log_level", c.Logging.Level),
		slog.String("addr", c.Server.Addr),
	)
}

// NewLogger builds the process logger described by the logging settings.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (l LoggingConfig) level() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
