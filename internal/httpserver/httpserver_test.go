package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/citiesmanager/cities-api/internal/models"
	"github.com/citiesmanager/cities-api/internal/repo"
	"github.com/citiesmanager/cities-api/internal/service"
	"github.com/citiesmanager/cities-api/internal/transport"
)

const (
	testIssuer   = "cities-api-test"
	testAudience = "cities-api-test-clients"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	E     *echo.Echo
	DB    *gorm.DB
	Store *repo.GormRepo
	Auth  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.City{}))

	store := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:       store,
		JWTSecret:  testSecret,
		Issuer:     testIssuer,
		Audience:   testAudience,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	citySvc := &service.CityService{Repo: store}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: authSvc},
		CityHandler: &CityHTTP{Svc: citySvc},
		JWTSecret:   testSecret,
		Issuer:      testIssuer,
		Audience:    testAudience,
	})

	return &testEnv{E: e, DB: db, Store: store, Auth: authSvc}
}

// do drives a request through the full router, middleware included.
func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) registerUser(t *testing.T, email string) *transport.AuthenticationResponse {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/v1.0/account/register", transport.RegisterRequest{
		Email:           email,
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		PersonName:      "Ada Lovelace",
		PhoneNumber:     "5551234",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res transport.AuthenticationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return &res
}
