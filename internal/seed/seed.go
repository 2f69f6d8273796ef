// Package seed populates the catalog with synthetic data for the seed and
// benchmark tools.  Record shapes and counts mirror the reference dataset
// the service was originally measured with: 10 genres, 20 companies, 50
// directors, 100 actors, and movies carrying 2-5 actors and 1-3 genres.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// Catalog bundles the repositories the seeder writes through.
type Catalog struct {
	Movies    *repository.MovieRepo
	Directors *repository.DirectorRepo
	Actors    *repository.ActorRepo
	Companies *repository.CompanyRepo
	Genres    *repository.GenreRepo
}

// Refs holds the reference-entity ids created by Populate so callers can
// build movies pointing at them.
type Refs struct {
	DirectorIDs []uint64
	ActorIDs    []uint64
	CompanyIDs  []uint64
	GenreIDs    []uint64
}

// Clear wipes all catalog tables.  Movies and their association rows go
// first so the reference-table deletes do not trip FK constraints.
func Clear(ctx context.Context, c Catalog) error {
	if err := c.Movies.DeleteAll(ctx); err != nil {
		return err
	}
	if err := c.Actors.DeleteAll(ctx); err != nil {
		return err
	}
	if err := c.Directors.DeleteAll(ctx); err != nil {
		return err
	}
	if err := c.Companies.DeleteAll(ctx); err != nil {
		return err
	}
	return c.Genres.DeleteAll(ctx)
}

// Populate creates the reference entities and numMovies movies with random
// association sets.
func Populate(ctx context.Context, c Catalog, numMovies int) (Refs, error) {
	var refs Refs

	for i := 0; i < 10; i++ {
		g := &model.Genre{Name: fmt.Sprintf("Genre_%d", i), Description: strPtr(randString(50))}
		if err := c.Genres.Create(ctx, g); err != nil {
			return refs, err
		}
		refs.GenreIDs = append(refs.GenreIDs, g.ID)
	}

	for i := 0; i < 20; i++ {
		fd := randDate()
		company := &model.ProductionCompany{
			Name:         fmt.Sprintf("Company_%d", i),
			Country:      strPtr(randString(10)),
			FoundingDate: &fd,
			Description:  strPtr(randString(50)),
		}
		if err := c.Companies.Create(ctx, company); err != nil {
			return refs, err
		}
		refs.CompanyIDs = append(refs.CompanyIDs, company.ID)
	}

	for i := 0; i < 50; i++ {
		bd := randDate()
		d := &model.Director{
			FirstName:   randString(10),
			LastName:    randString(15),
			BirthDate:   &bd,
			Nationality: strPtr(randString(15)),
			Biography:   strPtr(randString(50)),
		}
		if err := c.Directors.Create(ctx, d); err != nil {
			return refs, err
		}
		refs.DirectorIDs = append(refs.DirectorIDs, d.ID)
	}

	for i := 0; i < 100; i++ {
		bd := randDate()
		a := &model.Actor{
			FirstName:   randString(10),
			LastName:    randString(15),
			BirthDate:   &bd,
			Nationality: strPtr(randString(15)),
			Biography:   strPtr(randString(50)),
		}
		if err := c.Actors.Create(ctx, a); err != nil {
			return refs, err
		}
		refs.ActorIDs = append(refs.ActorIDs, a.ID)
	}

	for i := 0; i < numMovies; i++ {
		if err := c.Movies.Create(ctx, RandomMovie(fmt.Sprintf("Movie_%d", i), refs)); err != nil {
			return refs, err
		}
	}
	return refs, nil
}

// RandomMovie builds a movie with random fields and 2-5 actors / 1-3 genres
// sampled from refs.
func RandomMovie(title string, refs Refs) *model.Movie {
	budget := 1_000_000 + rand.Float64()*299_000_000
	boxOffice := 1_000_000 + rand.Float64()*999_000_000
	duration := 80 + rand.Intn(161)
	directorID := refs.DirectorIDs[rand.Intn(len(refs.DirectorIDs))]
	companyID := refs.CompanyIDs[rand.Intn(len(refs.CompanyIDs))]
	return &model.Movie{
		Title:               title,
		Description:         strPtr(randString(200)),
		ReleaseDate:         randDate(),
		Budget:              &budget,
		BoxOffice:           &boxOffice,
		Duration:            &duration,
		DirectorID:          &directorID,
		ProductionCompanyID: &companyID,
		ActorIDs:            sample(refs.ActorIDs, 2+rand.Intn(4)),
		GenreIDs:            sample(refs.GenreIDs, 1+rand.Intn(3)),
	}
}

// RandomDescription returns a fresh 200-character description, matching the
// movie descriptions Populate writes.
func RandomDescription() *string {
	return strPtr(randString(200))
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// randDate returns a date between 1950 and 2024.  Day caps at 28 so every
// month is valid.
func randDate() time.Time {
	year := 1950 + rand.Intn(75)
	month := time.Month(1 + rand.Intn(12))
	day := 1 + rand.Intn(28)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// sample picks n distinct ids.
func sample(ids []uint64, n int) []uint64 {
	if n > len(ids) {
		n = len(ids)
	}
	perm := rand.Perm(len(ids))
	out := make([]uint64, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, ids[idx])
	}
	return out
}

func strPtr(s string) *string { return &s }
