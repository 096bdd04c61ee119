package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/httpserver"
	"github.com/microblog/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Deployment preconditions, not runtime errors.
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	dsn := os.Getenv("DATABASE_PATH")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_PATH must be set")
	}

	db, err := openDB(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	ttl := time.Duration(envInt("TOKEN_TTL_HOURS", 24)) * time.Hour
	codec, err := auth.NewCodec(secret, ttl, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("configure token codec")
	}

	srv := httpserver.New(store.New(db), codec, getEnv("CLIENT_ORIGIN", "http://localhost:5173"))
	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
