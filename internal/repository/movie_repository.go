// This file implements persistence for movies and their actor/genre
// association sets.  All multi-statement writes run inside a transaction so
// a movie is never visible with half of its associations committed.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// movieColumns is the scalar column list shared by every movie SELECT.
const movieColumns = `id, title, description, release_date, budget, box_office, duration, director_id, production_company_id`

// MovieUpdate describes a partial update.  A nil field keeps the stored
// value.  A non-nil ActorIDs or GenreIDs replaces the whole association set
// with the resolved subset of the given ids (never merged with the old set).
type MovieUpdate struct {
	Title               *string
	Description         *string
	ReleaseDate         *time.Time
	Budget              *float64
	BoxOffice           *float64
	Duration            *int
	DirectorID          *uint64
	ProductionCompanyID *uint64
	ActorIDs            *[]uint64
	GenreIDs            *[]uint64
}

// MovieRepo encapsulates all database access for movies.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// querier is satisfied by both *sql.DB and *sql.Tx so reads can run inside
// or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Create inserts the movie and its association rows atomically.  The
// requested ActorIDs/GenreIDs are resolved against the actors and genres
// tables; ids that do not exist are dropped.  On success m.ID holds the
// assigned id and m.ActorIDs/m.GenreIDs hold the resolved sets.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO movies
		(title, description, release_date, budget, box_office, duration, director_id, production_company_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		m.Title, m.Description, m.ReleaseDate,
		m.Budget, m.BoxOffice, m.Duration,
		m.DirectorID, m.ProductionCompanyID)
	if err != nil {
		if isFKViolation(err) {
			err = ErrReferencedRowMissing
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if m.ActorIDs, err = replaceSet(ctx, tx, m.ID, "movie_actors", "actor_id", "actors", m.ActorIDs); err != nil {
		return err
	}
	if m.GenreIDs, err = replaceSet(ctx, tx, m.ID, "movie_genres", "genre_id", "genres", m.GenreIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns one movie with its association id sets, or
// ErrMovieNotFound when no row exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	return getMovie(ctx, r.db, id)
}

// List returns every movie ordered by id, association id sets included.
// The join tables are read with two grouped queries instead of one query
// per movie.
func (r *MovieRepo) List(ctx context.Context) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Movie, 0)
	byID := make(map[uint64]*model.Movie)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachSets(ctx, "movie_actors", "actor_id", byID, func(m *model.Movie, id uint64) {
		m.ActorIDs = append(m.ActorIDs, id)
	}); err != nil {
		return nil, err
	}
	if err := r.attachSets(ctx, "movie_genres", "genre_id", byID, func(m *model.Movie, id uint64) {
		m.GenreIDs = append(m.GenreIDs, id)
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial update and commits scalar changes and association
// replacement as one transaction.  The movie row is locked first so
// concurrent writers to the same id serialize into one consistent final
// state.  Returns the movie as stored after the update.
func (r *MovieRepo) Update(ctx context.Context, id uint64, upd MovieUpdate) (m *model.Movie, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM movies WHERE id = ? FOR UPDATE", id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrMovieNotFound
		}
		return nil, err
	}

	set := make([]string, 0, 8)
	args := make([]any, 0, 9)
	if upd.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.ReleaseDate != nil {
		set = append(set, "release_date = ?")
		args = append(args, *upd.ReleaseDate)
	}
	if upd.Budget != nil {
		set = append(set, "budget = ?")
		args = append(args, *upd.Budget)
	}
	if upd.BoxOffice != nil {
		set = append(set, "box_office = ?")
		args = append(args, *upd.BoxOffice)
	}
	if upd.Duration != nil {
		set = append(set, "duration = ?")
		args = append(args, *upd.Duration)
	}
	if upd.DirectorID != nil {
		set = append(set, "director_id = ?")
		args = append(args, *upd.DirectorID)
	}
	if upd.ProductionCompanyID != nil {
		set = append(set, "production_company_id = ?")
		args = append(args, *upd.ProductionCompanyID)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err = tx.ExecContext(ctx, "UPDATE movies SET "+strings.Join(set, ", ")+" WHERE id = ?", args...); err != nil {
			if isFKViolation(err) {
				err = ErrReferencedRowMissing
			}
			return nil, err
		}
	}

	if upd.ActorIDs != nil {
		if _, err = replaceSet(ctx, tx, id, "movie_actors", "actor_id", "actors", *upd.ActorIDs); err != nil {
			return nil, err
		}
	}
	if upd.GenreIDs != nil {
		if _, err = replaceSet(ctx, tx, id, "movie_genres", "genre_id", "genres", *upd.GenreIDs); err != nil {
			return nil, err
		}
	}

	if m, err = getMovie(ctx, tx, id); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the movie and its association rows.  Reference records
// (directors, actors, companies, genres) are never touched.  Returns
// ErrMovieNotFound when no row was deleted.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM movie_actors WHERE movie_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrMovieNotFound
		return err
	}
	return tx.Commit()
}

// DeleteAll wipes movies and their association rows.  Used by the seed and
// benchmark tools, never by the HTTP surface.
func (r *MovieRepo) DeleteAll(ctx context.Context) error {
	for _, q := range []string{
		"DELETE FROM movie_actors",
		"DELETE FROM movie_genres",
		"DELETE FROM movies",
	} {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// replaceSet swaps the movie's rows in joinTable for the resolved subset of
// ids present in refTable and returns that subset.  Ids that do not resolve
// are silently dropped.
func replaceSet(ctx context.Context, tx *sql.Tx, movieID uint64, joinTable, refCol, refTable string, ids []uint64) ([]uint64, error) {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+joinTable+" WHERE movie_id = ?", movieID); err != nil {
		return nil, err
	}
	resolved, err := resolveIDs(ctx, tx, refTable, ids)
	if err != nil {
		return nil, err
	}
	for _, refID := range resolved {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+joinTable+" (movie_id, "+refCol+") VALUES (?, ?)", movieID, refID); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func getMovie(ctx context.Context, q querier, id uint64) (*model.Movie, error) {
	m, err := scanMovie(q.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if m.ActorIDs, err = listSet(ctx, q, "movie_actors", "actor_id", id); err != nil {
		return nil, err
	}
	if m.GenreIDs, err = listSet(ctx, q, "movie_genres", "genre_id", id); err != nil {
		return nil, err
	}
	return m, nil
}

func listSet(ctx context.Context, q querier, joinTable, refCol string, movieID uint64) ([]uint64, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+refCol+" FROM "+joinTable+" WHERE movie_id = ? ORDER BY "+refCol, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MovieRepo) attachSets(ctx context.Context, joinTable, refCol string, byID map[uint64]*model.Movie, assign func(*model.Movie, uint64)) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT movie_id, "+refCol+" FROM "+joinTable+" ORDER BY movie_id, "+refCol)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var movieID, refID uint64
		if err := rows.Scan(&movieID, &refID); err != nil {
			return err
		}
		if m, ok := byID[movieID]; ok {
			assign(m, refID)
		}
	}
	return rows.Err()
}

// scanMovie reads one movie row.  Association sets start out empty and
// non-nil so an empty set serializes as [] rather than null.
func scanMovie(row interface{ Scan(dest ...any) error }) (*model.Movie, error) {
	var (
		m          model.Movie
		desc       sql.NullString
		budget     sql.NullFloat64
		boxOffice  sql.NullFloat64
		duration   sql.NullInt64
		directorID sql.NullInt64
		companyID  sql.NullInt64
	)
	if err := row.Scan(&m.ID, &m.Title, &desc, &m.ReleaseDate,
		&budget, &boxOffice, &duration, &directorID, &companyID); err != nil {
		return nil, err
	}
	if desc.Valid {
		m.Description = &desc.String
	}
	if budget.Valid {
		m.Budget = &budget.Float64
	}
	if boxOffice.Valid {
		m.BoxOffice = &boxOffice.Float64
	}
	if duration.Valid {
		d := int(duration.Int64)
		m.Duration = &d
	}
	if directorID.Valid {
		v := uint64(directorID.Int64)
		m.DirectorID = &v
	}
	if companyID.Valid {
		v := uint64(companyID.Int64)
		m.ProductionCompanyID = &v
	}
	m.ActorIDs = make([]uint64, 0)
	m.GenreIDs = make([]uint64, 0)
	return &m, nil
}
