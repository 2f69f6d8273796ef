package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// fakeMovieStore backs the handlers with a map instead of MySQL while
// keeping the repository's semantics: unknown actor/genre ids are silently
// dropped, association sets are replaced whole, and id sets come back
// deduplicated in ascending order.
type fakeMovieStore struct {
	mu     sync.Mutex
	nextID uint64
	movies map[uint64]*model.Movie
	actors map[uint64]bool
	genres map[uint64]bool
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{
		movies: make(map[uint64]*model.Movie),
		actors: map[uint64]bool{1: true, 2: true, 3: true},
		genres: map[uint64]bool{1: true, 2: true},
	}
}

func (f *fakeMovieStore) resolve(ids []uint64, known map[uint64]bool) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := map[uint64]bool{}
	for _, id := range ids {
		if known[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (f *fakeMovieStore) List(context.Context) ([]*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMovieStore) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovieStore) Create(_ context.Context, m *model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = f.nextID
	m.ActorIDs = f.resolve(m.ActorIDs, f.actors)
	m.GenreIDs = f.resolve(m.GenreIDs, f.genres)
	cp := *m
	f.movies[m.ID] = &cp
	return nil
}

func (f *fakeMovieStore) Update(_ context.Context, id uint64, upd repository.MovieUpdate) (*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Description != nil {
		m.Description = upd.Description
	}
	if upd.ReleaseDate != nil {
		m.ReleaseDate = *upd.ReleaseDate
	}
	if upd.Budget != nil {
		m.Budget = upd.Budget
	}
	if upd.BoxOffice != nil {
		m.BoxOffice = upd.BoxOffice
	}
	if upd.Duration != nil {
		m.Duration = upd.Duration
	}
	if upd.DirectorID != nil {
		m.DirectorID = upd.DirectorID
	}
	if upd.ProductionCompanyID != nil {
		m.ProductionCompanyID = upd.ProductionCompanyID
	}
	if upd.ActorIDs != nil {
		m.ActorIDs = f.resolve(*upd.ActorIDs, f.actors)
	}
	if upd.GenreIDs != nil {
		m.GenreIDs = f.resolve(*upd.GenreIDs, f.genres)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovieStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movies[id]; !ok {
		return repository.ErrMovieNotFound
	}
	delete(f.movies, id)
	return nil
}

// newTestServer wires the real auth stack and middleware around the fake
// store and returns a valid bearer token for user1.
func newTestServer(t *testing.T) (*echo.Echo, *fakeMovieStore, string) {
	t.Helper()

	creds, err := auth.NewCredentials(map[string]string{"user1": "password1"}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	tokens := auth.NewTokenService("test-secret", time.Hour, auth.NewMemoryRevocations())

	store := newFakeMovieStore()
	ah := handler.NewAuthHandler(creds, tokens)
	mh := handler.NewMovieHandler(store, nil)

	e := echo.New()
	e.POST("/login", ah.Login)
	g := e.Group("", middleware.JWTAuth(tokens))
	g.POST("/logout", ah.Logout)
	g.GET("/movies", mh.List)
	g.POST("/movies", mh.Create)
	g.GET("/movies/:id", mh.Get)
	g.PUT("/movies/:id", mh.Update)
	g.DELETE("/movies/:id", mh.Delete)

	token, err := tokens.Issue("user1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return e, store, token
}

func doJSON(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type movieBody struct {
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

func decodeMovie(t *testing.T, rec *httptest.ResponseRecorder) movieBody {
	t.Helper()
	var m movieBody
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode movie body %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/movies", token, `{
		"title": "Inception",
		"description": "A heist inside dreams.",
		"release_date": "2010-07-16",
		"budget": 160000000,
		"duration": 148,
		"actor_ids": [1, 2],
		"genre_ids": [1]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeMovie(t, rec)
	if created.ID == 0 {
		t.Fatal("create: missing id")
	}

	rec = doJSON(e, http.MethodGet, "/movies/1", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d, body %s", rec.Code, rec.Body.String())
	}
	got := decodeMovie(t, rec)
	if got.Title != "Inception" || got.ReleaseDate != "2010-07-16" {
		t.Fatalf("get: unexpected body %+v", got)
	}
	if got.Duration == nil || *got.Duration != 148 {
		t.Fatalf("get: duration = %v", got.Duration)
	}
	if !reflect.DeepEqual(got.ActorIDs, []uint64{1, 2}) {
		t.Fatalf("get: actor_ids = %v", got.ActorIDs)
	}
	if !reflect.DeepEqual(got.GenreIDs, []uint64{1}) {
		t.Fatalf("get: genre_ids = %v", got.GenreIDs)
	}
}

func TestCreateValidation(t *testing.T) {
	e, _, token := newTestServer(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{"release_date": "2010-07-16"}`, "title is required"},
		{"blank title", `{"title": "   ", "release_date": "2010-07-16"}`, "title is required"},
		{"missing release date", `{"title": "Inception"}`, "release_date must be YYYY-MM-DD"},
		{"bad release date", `{"title": "Inception", "release_date": "16/07/2010"}`, "release_date must be YYYY-MM-DD"},
	}
	for _, tc := range cases {
		rec := doJSON(e, http.MethodPost, "/movies", token, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Errorf("%s: body %s, want message %q", tc.name, rec.Body.String(), tc.want)
		}
	}
}

func TestCreateDropsUnknownAssociationIDs(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/movies", token, `{
		"title": "Ghost Cast",
		"release_date": "2001-01-01",
		"actor_ids": [1, 999999],
		"genre_ids": [424242]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d, body %s", rec.Code, rec.Body.String())
	}
	m := decodeMovie(t, rec)
	if !reflect.DeepEqual(m.ActorIDs, []uint64{1}) {
		t.Fatalf("actor_ids = %v, want unknown ids dropped", m.ActorIDs)
	}
	if len(m.GenreIDs) != 0 {
		t.Fatalf("genre_ids = %v, want empty", m.GenreIDs)
	}
}

func TestUpdatePartial(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/movies", token, `{
		"title": "Old Title",
		"release_date": "1999-03-31",
		"duration": 136,
		"actor_ids": [1, 2]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/movies/1", token, `{"title": "New Title"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	m := decodeMovie(t, rec)
	if m.Title != "New Title" {
		t.Fatalf("title = %q", m.Title)
	}
	if m.ReleaseDate != "1999-03-31" {
		t.Fatalf("release_date changed to %q on partial update", m.ReleaseDate)
	}
	if m.Duration == nil || *m.Duration != 136 {
		t.Fatalf("duration changed to %v on partial update", m.Duration)
	}
	if !reflect.DeepEqual(m.ActorIDs, []uint64{1, 2}) {
		t.Fatalf("actor_ids changed to %v on partial update", m.ActorIDs)
	}
}

func TestUpdateReplacesAssociationSets(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/movies", token, `{
		"title": "Recast",
		"release_date": "2005-05-05",
		"actor_ids": [1]
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/movies/1", token, `{"actor_ids": [2, 3]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", rec.Code, rec.Body.String())
	}
	m := decodeMovie(t, rec)
	if !reflect.DeepEqual(m.ActorIDs, []uint64{2, 3}) {
		t.Fatalf("actor_ids = %v, want replacement set [2 3]", m.ActorIDs)
	}

	// Emptying the set is a replacement too, not an absent field.
	rec = doJSON(e, http.MethodPut, "/movies/1", token, `{"actor_ids": []}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d", rec.Code)
	}
	m = decodeMovie(t, rec)
	if len(m.ActorIDs) != 0 {
		t.Fatalf("actor_ids = %v, want empty after clearing", m.ActorIDs)
	}
}

func TestUpdateValidation(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/movies", token, `{"title": "Keep", "release_date": "2000-01-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/movies/1", token, `{"title": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title: status %d, want 400", rec.Code)
	}
	rec = doJSON(e, http.MethodPut, "/movies/1", token, `{"release_date": "not-a-date"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status %d, want 400", rec.Code)
	}
	// The rejected updates must not have touched the record.
	rec = doJSON(e, http.MethodGet, "/movies/1", token, "")
	m := decodeMovie(t, rec)
	if m.Title != "Keep" || m.ReleaseDate != "2000-01-01" {
		t.Fatalf("record changed by rejected update: %+v", m)
	}
}

func TestUpdateUnknownMovie(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPut, "/movies/42", token, `{"title": "Nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestDeleteTwice(t *testing.T) {
	e, _, token := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/movies", token, `{"title": "Short-lived", "release_date": "2020-02-02"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/movies/1", token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first delete: status %d, want 204", rec.Code)
	}
	rec = doJSON(e, http.MethodDelete, "/movies/1", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d, want 404", rec.Code)
	}
	rec = doJSON(e, http.MethodGet, "/movies/1", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestNonNumericIDBehavesLikeUnknown(t *testing.T) {
	e, _, token := newTestServer(t)

	for _, target := range []string{"/movies/abc", "/movies/1.5", "/movies/-1"} {
		rec := doJSON(e, http.MethodGet, target, token, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status %d, want 404", target, rec.Code)
		}
	}
}

func TestListReturnsAllMovies(t *testing.T) {
	e, _, token := newTestServer(t)

	for _, body := range []string{
		`{"title": "First", "release_date": "1990-01-01"}`,
		`{"title": "Second", "release_date": "1991-01-01", "genre_ids": [2]}`,
	} {
		if rec := doJSON(e, http.MethodPost, "/movies", token, body); rec.Code != http.StatusCreated {
			t.Fatalf("create: status %d", rec.Code)
		}
	}

	rec := doJSON(e, http.MethodGet, "/movies", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var movies []movieBody
	if err := json.Unmarshal(rec.Body.Bytes(), &movies); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("list returned %d movies, want 2", len(movies))
	}
	if movies[0].Title != "First" || movies[1].Title != "Second" {
		t.Fatalf("list order wrong: %q, %q", movies[0].Title, movies[1].Title)
	}
	// Association sets serialize as arrays even when empty.
	if movies[0].ActorIDs == nil {
		t.Fatal("empty actor set decoded as null")
	}
}

func TestMoviesRequireAuth(t *testing.T) {
	e, _, _ := newTestServer(t)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/movies"},
		{http.MethodPost, "/movies"},
		{http.MethodGet, "/movies/1"},
		{http.MethodPut, "/movies/1"},
		{http.MethodDelete, "/movies/1"},
	} {
		rec := doJSON(e, tc.method, tc.target, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", tc.method, tc.target, rec.Code)
		}
	}

	rec := doJSON(e, http.MethodGet, "/movies", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", rec.Code)
	}
}
