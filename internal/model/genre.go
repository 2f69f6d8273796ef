package model

// Genre is a reference record from the `genres` table, linked to movies
// through the movie_genres join table.
type Genre struct {
	ID          uint64
	Name        string
	Description *string
}
