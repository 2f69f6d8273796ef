package database

import (
	"context"
	"database/sql"
)

// schemaStatements creates the catalog tables when they do not exist yet.
// Ordered so that referenced tables come before the tables pointing at
// them.  Safe to run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS directors (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		birth_date DATE NULL,
		nationality VARCHAR(100) NULL,
		biography TEXT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS actors (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		birth_date DATE NULL,
		nationality VARCHAR(100) NULL,
		biography TEXT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS production_companies (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		country VARCHAR(100) NULL,
		founding_date DATE NULL,
		description TEXT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		release_date DATE NOT NULL,
		budget DOUBLE NULL,
		box_office DOUBLE NULL,
		duration INT NULL,
		director_id BIGINT UNSIGNED NULL,
		production_company_id BIGINT UNSIGNED NULL,
		CONSTRAINT fk_movies_director FOREIGN KEY (director_id) REFERENCES directors (id),
		CONSTRAINT fk_movies_company FOREIGN KEY (production_company_id) REFERENCES production_companies (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movie_actors (
		movie_id BIGINT UNSIGNED NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (movie_id, actor_id),
		CONSTRAINT fk_ma_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
		CONSTRAINT fk_ma_actor FOREIGN KEY (actor_id) REFERENCES actors (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (movie_id, genre_id),
		CONSTRAINT fk_mg_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
		CONSTRAINT fk_mg_genre FOREIGN KEY (genre_id) REFERENCES genres (id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing catalog tables.  The service owns its
// schema the way the original did (create-on-boot); there is no separate
// migration pipeline.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
