// Package main runs the OAuth 2.0 authorization server against PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-oauth2/pkg/client"
	"github.com/tendant/simple-oauth2/pkg/introspect"
	"github.com/tendant/simple-oauth2/pkg/scope"
	"github.com/tendant/simple-oauth2/pkg/token"
	"github.com/tendant/simple-oauth2/pkg/tokenexchange"
)

type OAuth2DbConfig struct {
	Host     string `env:"OAUTH2_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"OAUTH2_PG_PORT" env-default:"5432"`
	Database string `env:"OAUTH2_PG_DATABASE" env-default:"oauth2_db"`
	User     string `env:"OAUTH2_PG_USER" env-default:"oauth2"`
	Password string `env:"OAUTH2_PG_PASSWORD" env-default:"pwd"`
}

func (d OAuth2DbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type TokenConfig struct {
	AccessTokenLifetime int64 `env:"ACCESS_TOKEN_LIFETIME_SECONDS" env-default:"7200"`
}

type Config struct {
	OAuth2DbConfig OAuth2DbConfig
	TokenConfig    TokenConfig
	AppConfig      app.AppConfig
}

func main() {
	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed reading config from environment", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.OAuth2DbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	configs := client.NewPostgresConfigurationRepository(pool)
	secrets := client.NewPostgresSecretRepository(pool)
	authenticator := client.NewAuthenticationService(secrets, configs)

	tokens := token.NewPostgresRepository(pool)
	registry := scope.DefaultRegistry()

	tokenHandle := tokenexchange.NewHandle(tokens, registry,
		tokenexchange.WithAccessTokenLifetime(config.TokenConfig.AccessTokenLifetime))

	tokenexchange.Routes(server.R, tokenHandle, authenticator)
	introspect.Routes(server.R, introspect.NewHandle(tokens), authenticator)

	server.Run()
}
