package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// Stores for the reference entities movies point at.  They carry no
// behavior beyond identity, so create/read is the whole surface.
type DirectorStore interface {
	Create(ctx context.Context, d *model.Director) error
	GetByID(ctx context.Context, id uint64) (*model.Director, error)
	ListAll(ctx context.Context) ([]*model.Director, error)
}

type ActorStore interface {
	Create(ctx context.Context, a *model.Actor) error
	GetByID(ctx context.Context, id uint64) (*model.Actor, error)
	ListAll(ctx context.Context) ([]*model.Actor, error)
}

type CompanyStore interface {
	Create(ctx context.Context, c *model.ProductionCompany) error
	GetByID(ctx context.Context, id uint64) (*model.ProductionCompany, error)
	ListAll(ctx context.Context) ([]*model.ProductionCompany, error)
}

type GenreStore interface {
	Create(ctx context.Context, g *model.Genre) error
	GetByID(ctx context.Context, id uint64) (*model.Genre, error)
	ListAll(ctx context.Context) ([]*model.Genre, error)
}

// CatalogHandler serves the reference-entity endpoints.
type CatalogHandler struct {
	Directors DirectorStore
	Actors    ActorStore
	Companies CompanyStore
	Genres    GenreStore
}

func NewCatalogHandler(d DirectorStore, a ActorStore, c CompanyStore, g GenreStore) *CatalogHandler {
	return &CatalogHandler{Directors: d, Actors: a, Companies: c, Genres: g}
}

// ----- DTOs -----

// personReq covers directors and actors, whose records share a shape.
type personReq struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
	Biography   *string `json:"biography"`
}

type personResp struct {
	ID          uint64  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
	Biography   *string `json:"biography"`
}

type companyReq struct {
	Name         string  `json:"name"`
	Country      *string `json:"country"`
	FoundingDate *string `json:"founding_date"`
	Description  *string `json:"description"`
}

type companyResp struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Country      *string `json:"country"`
	FoundingDate *string `json:"founding_date"`
	Description  *string `json:"description"`
}

type genreReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type genreResp struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// validate checks the shared person fields and parses the optional birth
// date.
func (r *personReq) validate() (*model.Director, string) {
	first := strings.TrimSpace(r.FirstName)
	last := strings.TrimSpace(r.LastName)
	if first == "" || last == "" {
		return nil, "first_name and last_name are required"
	}
	d := &model.Director{
		FirstName:   first,
		LastName:    last,
		Nationality: r.Nationality,
		Biography:   r.Biography,
	}
	if r.BirthDate != nil {
		bd, err := parseDate(*r.BirthDate)
		if err != nil {
			return nil, "birth_date must be YYYY-MM-DD"
		}
		d.BirthDate = &bd
	}
	return d, ""
}

func newPersonResp(id uint64, first, last string, birth *string, nationality, bio *string) personResp {
	return personResp{ID: id, FirstName: first, LastName: last, BirthDate: birth, Nationality: nationality, Biography: bio}
}

// ----- Directors -----

func (h *CatalogHandler) CreateDirector(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	d, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	if err := h.Directors.Create(ctx, d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create director"})
	}
	return c.JSON(http.StatusCreated, newPersonResp(d.ID, d.FirstName, d.LastName, formatDatePtr(d.BirthDate), d.Nationality, d.Biography))
}

func (h *CatalogHandler) GetDirector(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "director not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	d, err := h.Directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "director not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPersonResp(d.ID, d.FirstName, d.LastName, formatDatePtr(d.BirthDate), d.Nationality, d.Biography))
}

func (h *CatalogHandler) ListDirectors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	items, err := h.Directors.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]personResp, 0, len(items))
	for _, d := range items {
		out = append(out, newPersonResp(d.ID, d.FirstName, d.LastName, formatDatePtr(d.BirthDate), d.Nationality, d.Biography))
	}
	return c.JSON(http.StatusOK, out)
}

// ----- Actors -----

func (h *CatalogHandler) CreateActor(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	d, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a := &model.Actor{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		BirthDate:   d.BirthDate,
		Nationality: d.Nationality,
		Biography:   d.Biography,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	if err := h.Actors.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create actor"})
	}
	return c.JSON(http.StatusCreated, newPersonResp(a.ID, a.FirstName, a.LastName, formatDatePtr(a.BirthDate), a.Nationality, a.Biography))
}

func (h *CatalogHandler) GetActor(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	a, err := h.Actors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPersonResp(a.ID, a.FirstName, a.LastName, formatDatePtr(a.BirthDate), a.Nationality, a.Biography))
}

func (h *CatalogHandler) ListActors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	items, err := h.Actors.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]personResp, 0, len(items))
	for _, a := range items {
		out = append(out, newPersonResp(a.ID, a.FirstName, a.LastName, formatDatePtr(a.BirthDate), a.Nationality, a.Biography))
	}
	return c.JSON(http.StatusOK, out)
}

// ----- Production companies -----

func (h *CatalogHandler) CreateCompany(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	company := &model.ProductionCompany{
		Name:        name,
		Country:     req.Country,
		Description: req.Description,
	}
	if req.FoundingDate != nil {
		fd, err := parseDate(*req.FoundingDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "founding_date must be YYYY-MM-DD"})
		}
		company.FoundingDate = &fd
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	if err := h.Companies.Create(ctx, company); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create production company"})
	}
	return c.JSON(http.StatusCreated, newCompanyResp(company))
}

func (h *CatalogHandler) GetCompany(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "production company not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	company, err := h.Companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "production company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newCompanyResp(company))
}

func (h *CatalogHandler) ListCompanies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	items, err := h.Companies.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]companyResp, 0, len(items))
	for _, company := range items {
		out = append(out, newCompanyResp(company))
	}
	return c.JSON(http.StatusOK, out)
}

func newCompanyResp(c *model.ProductionCompany) companyResp {
	return companyResp{
		ID:           c.ID,
		Name:         c.Name,
		Country:      c.Country,
		FoundingDate: formatDatePtr(c.FoundingDate),
		Description:  c.Description,
	}
}

// ----- Genres -----

func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	g := &model.Genre{Name: name, Description: req.Description}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	if err := h.Genres.Create(ctx, g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create genre"})
	}
	return c.JSON(http.StatusCreated, genreResp{ID: g.ID, Name: g.Name, Description: g.Description})
}

func (h *CatalogHandler) GetGenre(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, genreResp{ID: g.ID, Name: g.Name, Description: g.Description})
}

func (h *CatalogHandler) ListGenres(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), repoTimeout)
	defer cancel()

	items, err := h.Genres.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]genreResp, 0, len(items))
	for _, g := range items {
		out = append(out, genreResp{ID: g.ID, Name: g.Name, Description: g.Description})
	}
	return c.JSON(http.StatusOK, out)
}

// entityID parses the :id route parameter for reference entities.
func entityID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
