package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ActorRepo encapsulates database access for actors.
type ActorRepo struct {
	db *sql.DB
}

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

// Create inserts an actor and fills in the assigned id.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	const q = `INSERT INTO actors (first_name, last_name, birth_date, nationality, biography)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName, a.BirthDate, a.Nationality, a.Biography)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID returns one actor or ErrActorNotFound.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	const q = `SELECT id, first_name, last_name, birth_date, nationality, biography
	           FROM actors WHERE id = ?`
	a, err := scanActor(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListAll returns every actor ordered by id.
func (r *ActorRepo) ListAll(ctx context.Context) ([]*model.Actor, error) {
	const q = `SELECT id, first_name, last_name, birth_date, nationality, biography
	           FROM actors ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Actor, 0)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAll wipes the table.  Movie association rows must be cleared first.
func (r *ActorRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM actors")
	return err
}

func scanActor(row interface{ Scan(dest ...any) error }) (*model.Actor, error) {
	var (
		a           model.Actor
		birthDate   sql.NullTime
		nationality sql.NullString
		biography   sql.NullString
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &birthDate, &nationality, &biography); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		a.BirthDate = &birthDate.Time
	}
	if nationality.Valid {
		a.Nationality = &nationality.String
	}
	if biography.Valid {
		a.Biography = &biography.String
	}
	return &a, nil
}
