package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// CompanyRepo encapsulates database access for production companies.
type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

// Create inserts a production company and fills in the assigned id.
func (r *CompanyRepo) Create(ctx context.Context, c *model.ProductionCompany) error {
	const q = `INSERT INTO production_companies (name, country, founding_date, description)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Country, c.FoundingDate, c.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID returns one production company or ErrCompanyNotFound.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.ProductionCompany, error) {
	const q = `SELECT id, name, country, founding_date, description
	           FROM production_companies WHERE id = ?`
	c, err := scanCompany(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListAll returns every production company ordered by id.
func (r *CompanyRepo) ListAll(ctx context.Context) ([]*model.ProductionCompany, error) {
	const q = `SELECT id, name, country, founding_date, description
	           FROM production_companies ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.ProductionCompany, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAll wipes the table.  Movies must be cleared first because of the
// FK on movies.production_company_id.
func (r *CompanyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM production_companies")
	return err
}

func scanCompany(row interface{ Scan(dest ...any) error }) (*model.ProductionCompany, error) {
	var (
		c            model.ProductionCompany
		country      sql.NullString
		foundingDate sql.NullTime
		description  sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &country, &foundingDate, &description); err != nil {
		return nil, err
	}
	if country.Valid {
		c.Country = &country.String
	}
	if foundingDate.Valid {
		c.FoundingDate = &foundingDate.Time
	}
	if description.Valid {
		c.Description = &description.String
	}
	return &c, nil
}
