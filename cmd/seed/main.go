// Command seed clears the catalog and fills it with synthetic data.  Used
// to get a realistic dataset in front of the API during development and as
// the population step of the benchmark workflow.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/seed"
)

func main() {
	movies := flag.Int("movies", 1000, "number of movies to create")
	keep := flag.Bool("keep", false, "do not clear existing data first")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	catalog := seed.Catalog{
		Movies:    repository.NewMovieRepo(db),
		Directors: repository.NewDirectorRepo(db),
		Actors:    repository.NewActorRepo(db),
		Companies: repository.NewCompanyRepo(db),
		Genres:    repository.NewGenreRepo(db),
	}

	if !*keep {
		if err := seed.Clear(ctx, catalog); err != nil {
			log.Fatalf("clear catalog: %v", err)
		}
	}

	start := time.Now()
	if _, err := seed.Populate(ctx, catalog, *movies); err != nil {
		log.Fatalf("populate catalog: %v", err)
	}
	log.Printf("seeded %d movies in %s", *movies, time.Since(start).Round(time.Millisecond))
}
