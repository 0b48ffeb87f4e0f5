package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/citiesmanager/cities-api/internal/logging"
	"github.com/citiesmanager/cities-api/internal/repo"
	"github.com/citiesmanager/cities-api/internal/service"
	"github.com/citiesmanager/cities-api/internal/transport"
	"github.com/citiesmanager/cities-api/internal/util"
)

type CityHTTP struct {
	Svc *service.CityService
}

// GetCities is the v1 listing: full records, name descending.
func (h *CityHTTP) GetCities(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.list")

	cities, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_cities_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot list cities")
	}

	return c.JSON(http.StatusOK, cities)
}

func (h *CityHTTP) GetCity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "id is not a valid uuid")
	}

	city, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_city_error", "status", 404, "city_id", id)
			return apiError(http.StatusNotFound, "not_found", "city not found")
		}
		l.Error("get_city_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot get city")
	}

	return c.JSON(http.StatusOK, city)
}

func (h *CityHTTP) CreateCity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.create")

	var req transport.CreateCityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("create_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", err.Error())
	}

	city, err := h.Svc.Create(ctx, req.Name)
	if err != nil {
		l.Error("create_city_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot create city")
	}

	l.Info("create_city_success", "city_id", city.ID)
	return c.JSON(http.StatusCreated, city)
}

// UpdateCity renames a city. The path id must match the body id exactly, and
// a concurrent modification since the read comes back as 409.
func (h *CityHTTP) UpdateCity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "id is not a valid uuid")
	}

	var req transport.UpdateCityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "invalid body")
	}
	if req.ID != id {
		l.Warn("update_city_error", "status", 400, "reason", "id mismatch")
		return apiError(http.StatusBadRequest, "id_mismatch", "path id and body id must match")
	}
	if err := req.Validate(); err != nil {
		l.Warn("update_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", err.Error())
	}

	if err := h.Svc.Update(ctx, id, req.Name); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("update_city_error", "status", 404, "city_id", id)
			return apiError(http.StatusNotFound, "not_found", "city not found")
		case errors.Is(err, repo.ErrConcurrentModification):
			l.Warn("update_city_error", "status", 409, "city_id", id)
			return apiError(http.StatusConflict, "conflict", "city was modified concurrently, re-fetch and retry")
		}
		l.Error("update_city_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot update city")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CityHTTP) DeleteCity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_city_error", "status", 400, "error", err)
		return apiError(http.StatusBadRequest, "validation_error", "id is not a valid uuid")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("delete_city_error", "status", 404, "city_id", id)
			return apiError(http.StatusNotFound, "not_found", "city not found")
		}
		l.Error("delete_city_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot delete city")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CityHTTP) SearchCities(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "city.search")

	q := c.QueryParam("q")
	if q == "" {
		return apiError(http.StatusBadRequest, "validation_error", "q query parameter is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, cities, err := h.Svc.Search(ctx, q, from, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			return apiError(http.StatusServiceUnavailable, "unavailable", "search is not configured")
		}
		l.Error("search_cities_error", "status", 500, "error", err)
		return apiError(http.StatusInternalServerError, "internal_error", "cannot search cities")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "cities": cities})
}
