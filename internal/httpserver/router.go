package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/citiesmanager/cities-api/internal/middleware"
)

const DefaultVersion = "v1.0"

type Deps struct {
	AuthHandler *AuthHTTP
	CityHandler *CityHTTP
	JWTSecret   []byte
	Issuer      string
	Audience    string
}

// Register wires the versioned API. Handler sets are looked up by the version
// path segment; requests without a version segment get the default version.
// Account routes are the only anonymous ones, every city route sits behind
// the bearer-token gate.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerAuth(d.JWTSecret, d.Issuer, d.Audience)

	versions := map[string]func(g *echo.Group){
		"v1.0": func(g *echo.Group) { d.registerV1(g, authMW) },
		"v2.0": func(g *echo.Group) { d.registerV2(g, authMW) },
	}

	for version, register := range versions {
		register(e.Group("/api/" + version))
	}
	// unversioned alias serving the default version
	versions[DefaultVersion](e.Group("/api"))
}

func (d *Deps) registerV1(g *echo.Group, authMW *middleware.BearerAuth) {
	account := g.Group("/account")
	account.POST("/register", d.AuthHandler.Register)
	account.POST("/login", d.AuthHandler.Login)
	account.POST("/refresh", d.AuthHandler.Refresh)
	account.GET("/email-available", d.AuthHandler.EmailAvailable)
	account.GET("/logout", d.AuthHandler.Logout)

	cities := g.Group("/cities", authMW.RequireAuth)
	cities.GET("", d.CityHandler.GetCities)
	cities.GET("/search", d.CityHandler.SearchCities)
	cities.GET("/:id", d.CityHandler.GetCity)
	cities.POST("", d.CityHandler.CreateCity)
	cities.PUT("/:id", d.CityHandler.UpdateCity)
	cities.DELETE("/:id", d.CityHandler.DeleteCity)
}

func (d *Deps) registerV2(g *echo.Group, authMW *middleware.BearerAuth) {
	cities := g.Group("/cities", authMW.RequireAuth)
	cities.GET("", d.CityHandler.GetCityNames)
}
