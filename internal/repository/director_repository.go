package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// DirectorRepo encapsulates database access for directors.
type DirectorRepo struct {
	db *sql.DB
}

func NewDirectorRepo(db *sql.DB) *DirectorRepo { return &DirectorRepo{db: db} }

// Create inserts a director and fills in the assigned id.
func (r *DirectorRepo) Create(ctx context.Context, d *model.Director) error {
	const q = `INSERT INTO directors (first_name, last_name, birth_date, nationality, biography)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.FirstName, d.LastName, d.BirthDate, d.Nationality, d.Biography)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID returns one director or ErrDirectorNotFound.
func (r *DirectorRepo) GetByID(ctx context.Context, id uint64) (*model.Director, error) {
	const q = `SELECT id, first_name, last_name, birth_date, nationality, biography
	           FROM directors WHERE id = ?`
	d, err := scanDirector(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListAll returns every director ordered by id.
func (r *DirectorRepo) ListAll(ctx context.Context) ([]*model.Director, error) {
	const q = `SELECT id, first_name, last_name, birth_date, nationality, biography
	           FROM directors ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Director, 0)
	for rows.Next() {
		d, err := scanDirector(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAll wipes the table.  Used by the seed and benchmark tools; callers
// must clear movies first or the FK on movies.director_id will reject it.
func (r *DirectorRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM directors")
	return err
}

func scanDirector(row interface{ Scan(dest ...any) error }) (*model.Director, error) {
	var (
		d           model.Director
		birthDate   sql.NullTime
		nationality sql.NullString
		biography   sql.NullString
	)
	if err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &birthDate, &nationality, &biography); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		d.BirthDate = &birthDate.Time
	}
	if nationality.Valid {
		d.Nationality = &nationality.String
	}
	if biography.Valid {
		d.Biography = &biography.String
	}
	return &d, nil
}
