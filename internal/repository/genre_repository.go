package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo encapsulates database access for genres.
type GenreRepo struct {
	db *sql.DB
}

func NewGenreRepo(db *sql.DB) *GenreRepo { return &GenreRepo{db: db} }

// Create inserts a genre and fills in the assigned id.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	const q = `INSERT INTO genres (name, description) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, g.Name, g.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID returns one genre or ErrGenreNotFound.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
	const q = `SELECT id, name, description FROM genres WHERE id = ?`
	g, err := scanGenre(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return g, nil
}

// ListAll returns every genre ordered by id.
func (r *GenreRepo) ListAll(ctx context.Context) ([]*model.Genre, error) {
	const q = `SELECT id, name, description FROM genres ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Genre, 0)
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAll wipes the table.  Movie association rows must be cleared first.
func (r *GenreRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM genres")
	return err
}

func scanGenre(row interface{ Scan(dest ...any) error }) (*model.Genre, error) {
	var (
		g           model.Genre
		description sql.NullString
	)
	if err := row.Scan(&g.ID, &g.Name, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		g.Description = &description.String
	}
	return &g, nil
}
