package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	queue_publisher "github.com/iliyamo/movie-catalog/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	// Redis backs the revocation set and the login rate limiter; without it
	// revocations live in process memory with a periodic sweep.
	rdb := config.NewRedisClient()
	var revocations auth.RevocationStore
	if rdb != nil {
		revocations = auth.NewRedisRevocations(rdb)
	} else {
		log.Printf("redis unavailable, using in-memory revocation store")
		mem := auth.NewMemoryRevocations()
		mem.StartSweeper(context.Background(), 10*time.Minute)
		revocations = mem
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute, revocations)
	creds, err := auth.NewCredentials(cfg.AuthUsers, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("load credentials: %v", err)
	}

	movies := repository.NewMovieRepo(db)
	directors := repository.NewDirectorRepo(db)
	actors := repository.NewActorRepo(db)
	companies := repository.NewCompanyRepo(db)
	genres := repository.NewGenreRepo(db)

	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(creds, tokens),
		Movies:    handler.NewMovieHandler(movies, queue_publisher.Publisher{}),
		Catalog:   handler.NewCatalogHandler(directors, actors, companies, genres),
		Tokens:    tokens,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
