package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/citiesmanager/cities-api/internal/logging"
)

// GetCityNames is the v2 listing: names only, ascending. A deliberate,
// additive narrowing of v1; the v1 listing is untouched.
func (h *CityHTTP) GetCityNames(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.list_names")

	names, err := h.Svc.ListNames(ctx)
	if err != nil {
		l.Error("list_city_names_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot list cities")
	}

	return c.JSON(http.StatusOK, names)
}
