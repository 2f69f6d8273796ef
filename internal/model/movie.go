package model

import "time"

// Movie is the central catalog entity, one row in the `movies` table plus
// its two association sets.  Optional columns map to pointer fields so an
// absent value round-trips as SQL NULL instead of a zero value.
//
// Fields:
//  ID                  – primary key, assigned by the database.
//  Title               – required, non-empty.
//  Description         – optional free text.
//  ReleaseDate         – calendar date (time portion is always midnight UTC).
//  Budget              – optional, non-negative.
//  BoxOffice           – optional, non-negative.
//  Duration            – optional running time in minutes.
//  DirectorID          – optional FK into directors.
//  ProductionCompanyID – optional FK into production_companies.
//  ActorIDs            – movie_actors association set; order is not meaningful.
//  GenreIDs            – movie_genres association set; order is not meaningful.
type Movie struct {
	ID                  uint64
	Title               string
	Description         *string
	ReleaseDate         time.Time
	Budget              *float64
	BoxOffice           *float64
	Duration            *int
	DirectorID          *uint64
	ProductionCompanyID *uint64
	ActorIDs            []uint64
	GenreIDs            []uint64
}
