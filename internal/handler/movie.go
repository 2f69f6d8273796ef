package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// MovieStore is the slice of the repository the movie handlers need.
type MovieStore interface {
	List(ctx context.Context) ([]*model.Movie, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
	Update(ctx context.Context, id uint64, upd repository.MovieUpdate) (*model.Movie, error)
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher receives catalog change events after a write commits.
// Publishing is best-effort; the publisher logs its own failures.
type EventPublisher interface {
	MovieChanged(ctx context.Context, ev queue.MovieEvent) error
}

// MovieHandler implements the movie CRUD endpoints.  Events may be nil when
// no broker is configured.
type MovieHandler struct {
	Movies MovieStore
	Events EventPublisher
}

func NewMovieHandler(movies MovieStore, events EventPublisher) *MovieHandler {
	return &MovieHandler{Movies: movies, Events: events}
}

// ----- DTOs -----

type movieCreateReq struct {
	Title               string   `json:"title"`
	Description         *string  `json:"description"`
	ReleaseDate         string   `json:"release_date"`
	Budget              *float64 `json:"budget"`
	BoxOffice           *float64 `json:"box_office"`
	Duration            *int     `json:"duration"`
	DirectorID          *uint64  `json:"director_id"`
	ProductionCompanyID *uint64  `json:"production_company_id"`
	ActorIDs            []uint64 `json:"actor_ids"`
	GenreIDs            []uint64 `json:"genre_ids"`
}

// movieUpdateReq models a partial update: a nil field was absent from the
// body and keeps its stored value.  Present actor_ids/genre_ids replace the
// whole association set.
type movieUpdateReq struct {
	Title               *string   `json:"title"`
	Description         *string   `json:"description"`
	ReleaseDate         *string   `json:"release_date"`
	Budget              *float64  `json:"budget"`
	BoxOffice           *float64  `json:"box_office"`
	Duration            *int      `json:"duration"`
	DirectorID          *uint64   `json:"director_id"`
	ProductionCompanyID *uint64   `json:"production_company_id"`
	ActorIDs            *[]uint64 `json:"actor_ids"`
	GenreIDs            *[]uint64 `json:"genre_ids"`
}

type movieResp struct {
	ID                  uint64   `json:"id"`
	Title               string   `json:"title"`
	Description         *string  `json:"description"`
	ReleaseDate         string   `json:"release_date"`
	Budget              *float64 `json:"budget"`
	BoxOffice           *float64 `json:"box_office"`
	Duration            *int     `json:"duration"`
	DirectorID          *uint64  `json:"director_id"`
	ProductionCompanyID *uint64  `json:"production_company_id"`
	ActorIDs            []uint64 `json:"actor_ids"`
	GenreIDs            []uint64 `json:"genre_ids"`
}

func newMovieResp(m *model.Movie) movieResp {
	return movieResp{
		ID:                  m.ID,
		Title:               m.Title,
		Description:         m.Description,
		ReleaseDate:         formatDate(m.ReleaseDate),
		Budget:              m.Budget,
		BoxOffice:           m.BoxOffice,
		Duration:            m.Duration,
		DirectorID:          m.DirectorID,
		ProductionCompanyID: m.ProductionCompanyID,
		ActorIDs:            m.ActorIDs,
		GenreIDs:            m.GenreIDs,
	}
}

// ----- Handlers -----

// List handles GET /movies and returns every movie with its association id
// sets.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, newMovieResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newMovieResp(m))
}

// Create handles POST /movies.  Title and a parseable release_date are
// mandatory.  Actor and genre ids that do not resolve to existing records
// are dropped from the stored set rather than rejected.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	releaseDate, err := parseDate(req.ReleaseDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
	}

	m := &model.Movie{
		Title:               req.Title,
		Description:         req.Description,
		ReleaseDate:         releaseDate,
		Budget:              req.Budget,
		BoxOffice:           req.BoxOffice,
		Duration:            req.Duration,
		DirectorID:          req.DirectorID,
		ProductionCompanyID: req.ProductionCompanyID,
		ActorIDs:            req.ActorIDs,
		GenreIDs:            req.GenreIDs,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	if err := h.Movies.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrReferencedRowMissing) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "director or production company does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
	}
	h.publish(c, queue.MovieCreated, m)
	return c.JSON(http.StatusCreated, newMovieResp(m))
}

// Update handles PUT /movies/:id with partial-update semantics.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	var req movieUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	upd := repository.MovieUpdate{
		Title:               req.Title,
		Description:         req.Description,
		Budget:              req.Budget,
		BoxOffice:           req.BoxOffice,
		Duration:            req.Duration,
		DirectorID:          req.DirectorID,
		ProductionCompanyID: req.ProductionCompanyID,
		ActorIDs:            req.ActorIDs,
		GenreIDs:            req.GenreIDs,
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must not be empty"})
	}
	if req.ReleaseDate != nil {
		releaseDate, err := parseDate(*req.ReleaseDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
		}
		upd.ReleaseDate = &releaseDate
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	m, err := h.Movies.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrReferencedRowMissing):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "director or production company does not exist"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update movie"})
		}
	}
	h.publish(c, queue.MovieUpdated, m)
	return c.JSON(http.StatusOK, newMovieResp(m))
}

// Delete handles DELETE /movies/:id.  Association rows go with the movie;
// reference records stay.  Deleting the same id twice yields 404, not an
// error cascade.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete movie"})
	}
	h.publish(c, queue.MovieDeleted, &model.Movie{ID: id})
	return c.NoContent(http.StatusNoContent)
}

// movieID parses the :id route parameter.  Non-numeric ids behave like
// unknown ids (404), matching the integer route converter of the original
// service.
func movieID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// publish emits a catalog event without letting broker trouble affect the
// response.
func (h *MovieHandler) publish(c echo.Context, eventType string, m *model.Movie) {
	if h.Events == nil {
		return
	}
	_ = h.Events.MovieChanged(c.Request().Context(), queue.MovieEvent{
		Type:       eventType,
		MovieID:    m.ID,
		Title:      m.Title,
		Identity:   currentIdentity(c),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
