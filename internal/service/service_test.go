package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/citiesmanager/cities-api/internal/events"
	"github.com/citiesmanager/cities-api/internal/models"
	"github.com/citiesmanager/cities-api/internal/repo"
	"github.com/citiesmanager/cities-api/internal/transport"
)

const (
	testIssuer   = "cities-api-test"
	testAudience = "cities-api-test-clients"
)

var testSecret = []byte("test-jwt-secret")

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.City{}))

	return &repo.GormRepo{DB: db}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	return &AuthService{
		Repo:       newTestRepo(t),
		JWTSecret:  testSecret,
		Issuer:     testIssuer,
		Audience:   testAudience,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

func registerReq(email string) transport.RegisterRequest {
	return transport.RegisterRequest{
		Email:           email,
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		PersonName:      "Ada Lovelace",
		PhoneNumber:     "5551234",
	}
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	events []events.CityEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.CityEvent) error {
	p.events = append(p.events, event)
	return nil
}
