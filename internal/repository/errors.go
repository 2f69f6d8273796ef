// Package repository contains the data access layer for the movie catalog.
// This file defines sentinel errors shared across repositories so that
// handlers can translate failures into the right HTTP status without
// inspecting driver-specific error strings.
package repository

import "errors"

// ErrMovieNotFound is returned when no movie exists for the requested id.
var ErrMovieNotFound = errors.New("movie not found")

// ErrDirectorNotFound is returned when no director exists for the requested id.
var ErrDirectorNotFound = errors.New("director not found")

// ErrActorNotFound is returned when no actor exists for the requested id.
var ErrActorNotFound = errors.New("actor not found")

// ErrCompanyNotFound is returned when no production company exists for the
// requested id.
var ErrCompanyNotFound = errors.New("production company not found")

// ErrGenreNotFound is returned when no genre exists for the requested id.
var ErrGenreNotFound = errors.New("genre not found")

// ErrReferencedRowMissing is returned when a write names a director or
// production company id that does not exist.  Handlers should translate
// this into HTTP 400.
var ErrReferencedRowMissing = errors.New("referenced record does not exist")
