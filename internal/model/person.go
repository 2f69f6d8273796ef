package model

import "time"

// Director is a plain reference record from the `directors` table.  It has
// no behavior beyond identity; movies point at it via movies.director_id.
type Director struct {
	ID          uint64
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	Nationality *string
	Biography   *string
}

// Actor mirrors Director, persisted in the `actors` table and linked to
// movies through the movie_actors join table.
type Actor struct {
	ID          uint64
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	Nationality *string
	Biography   *string
}
