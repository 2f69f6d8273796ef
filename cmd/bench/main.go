// Command bench measures catalog operation latency at several dataset
// sizes.  For each record count it clears the store, populates it, then
// times a full list, a description update over half the movies, 100
// inserts and 100 deletes, printing seconds per phase.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/seed"
)

func main() {
	countsFlag := flag.String("counts", "1000,10000", "comma-separated record counts to benchmark")
	flag.Parse()

	counts, err := parseCounts(*countsFlag)
	if err != nil {
		log.Fatalf("invalid -counts: %v", err)
	}

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

	for _, count := range counts {
		fmt.Printf("\nbenchmark with %d records:\n", count)
		if err := seed.Clear(ctx, catalog); err != nil {
			log.Fatalf("clear catalog: %v", err)
		}
		refs, err := seed.Populate(ctx, catalog, count)
		if err != nil {
			log.Fatalf("populate catalog: %v", err)
		}

		fmt.Printf("SELECT: %.2fs\n", benchSelect(ctx, catalog))
		fmt.Printf("UPDATE: %.2fs\n", benchUpdate(ctx, catalog, count/2))
		fmt.Printf("INSERT: %.2fs\n", benchInsert(ctx, catalog, refs))
		fmt.Printf("DELETE: %.2fs\n", benchDelete(ctx, catalog))
	}
}

func benchSelect(ctx context.Context, c seed.Catalog) float64 {
	start := time.Now()
	if _, err := c.Movies.List(ctx); err != nil {
		log.Fatalf("list movies: %v", err)
	}
	return time.Since(start).Seconds()
}

func benchUpdate(ctx context.Context, c seed.Catalog, n int) float64 {
	movies, err := c.Movies.List(ctx)
	if err != nil {
		log.Fatalf("list movies: %v", err)
	}
	if n > len(movies) {
		n = len(movies)
	}
	start := time.Now()
	for _, m := range movies[:n] {
		if _, err := c.Movies.Update(ctx, m.ID, repository.MovieUpdate{Description: seed.RandomDescription()}); err != nil {
			log.Fatalf("update movie %d: %v", m.ID, err)
		}
	}
	return time.Since(start).Seconds()
}

func benchInsert(ctx context.Context, c seed.Catalog, refs seed.Refs) float64 {
	start := time.Now()
	for i := 0; i < 100; i++ {
		m := seed.RandomMovie(fmt.Sprintf("New_Movie_%d", i), refs)
		if err := c.Movies.Create(ctx, m); err != nil {
			log.Fatalf("create movie: %v", err)
		}
	}
	return time.Since(start).Seconds()
}

func benchDelete(ctx context.Context, c seed.Catalog) float64 {
	movies, err := c.Movies.List(ctx)
	if err != nil {
		log.Fatalf("list movies: %v", err)
	}
	n := 100
	if n > len(movies) {
		n = len(movies)
	}
	start := time.Now()
	for _, m := range movies[:n] {
		if err := c.Movies.Delete(ctx, m.ID); err != nil {
			log.Fatalf("delete movie %d: %v", m.ID, err)
		}
	}
	return time.Since(start).Seconds()
}

func parseCounts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad count %q", p)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no counts given")
	}
	return out, nil
}
