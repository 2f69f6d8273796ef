// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// Deps bundles everything the routes need.  Redis may be nil; the login
// rate limiter then degrades to a pass-through.
type Deps struct {
	Auth      *handler.AuthHandler
	Movies    *handler.MovieHandler
	Catalog   *handler.CatalogHandler
	Tokens    *auth.TokenService
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
}

// Register attaches all routes to the Echo instance.  Every route except
// /healthz and /login sits behind the JWT middleware, so token validation
// (signature, expiry, revocation) runs before any store access.
func Register(e *echo.Echo, d Deps) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/healthz", handler.Health)
	e.POST("/login", d.Auth.Login, middleware.NewTokenBucket(d.RateLimit, d.Redis))

	g := e.Group("", middleware.JWTAuth(d.Tokens))
	g.POST("/logout", d.Auth.Logout)

	g.GET("/movies", d.Movies.List)
	g.POST("/movies", d.Movies.Create)
	g.GET("/movies/:id", d.Movies.Get)
	g.PUT("/movies/:id", d.Movies.Update)
	g.DELETE("/movies/:id", d.Movies.Delete)

	g.GET("/directors", d.Catalog.ListDirectors)
	g.POST("/directors", d.Catalog.CreateDirector)
	g.GET("/directors/:id", d.Catalog.GetDirector)

	g.GET("/actors", d.Catalog.ListActors)
	g.POST("/actors", d.Catalog.CreateActor)
	g.GET("/actors/:id", d.Catalog.GetActor)

	g.GET("/companies", d.Catalog.ListCompanies)
	g.POST("/companies", d.Catalog.CreateCompany)
	g.GET("/companies/:id", d.Catalog.GetCompany)

	g.GET("/genres", d.Catalog.ListGenres)
	g.POST("/genres", d.Catalog.CreateGenre)
	g.GET("/genres/:id", d.Catalog.GetGenre)
}
