package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCityService(t *testing.T) (*CityService, *capturingPublisher) {
	t.Helper()

	pub := &capturingPublisher{}
	return &CityService{Repo: newTestRepo(t), Producer: pub}, pub
}

func TestCityService_CreatePublishesEvent(t *testing.T) {
	svc, pub := newTestCityService(t)
	ctx := context.Background()

	city, err := svc.Create(ctx, "Paris")
	require.NoError(t, err)
	require.NotNil(t, city)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "city_created", pub.events[0].Type)
	assert.Equal(t, city.ID.String(), pub.events[0].CityID)
	assert.Equal(t, "Paris", pub.events[0].Name)
}

func TestCityService_UpdatePublishesEvent(t *testing.T) {
	svc, pub := newTestCityService(t)
	ctx := context.Background()

	city, err := svc.Create(ctx, "Paris")
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, city.ID, "Paris2"))

	got, err := svc.Get(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris2", got.Name)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "city_updated", pub.events[1].Type)
	assert.Equal(t, "Paris2", pub.events[1].Name)
}

func TestCityService_UpdateUnknownCity(t *testing.T) {
	svc, _ := newTestCityService(t)

	err := svc.Update(context.Background(), uuid.New(), "Nowhere")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCityService_DeletePublishesEvent(t *testing.T) {
	svc, pub := newTestCityService(t)
	ctx := context.Background()

	city, err := svc.Create(ctx, "Paris")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, city.ID))

	_, err = svc.Get(ctx, city.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "city_deleted", pub.events[1].Type)
	assert.Equal(t, city.ID.String(), pub.events[1].CityID)
}

func TestCityService_ListOrderings(t *testing.T) {
	svc, _ := newTestCityService(t)
	ctx := context.Background()

	for _, name := range []string{"Lisbon", "Oslo", "Athens"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	cities, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 3)
	assert.Equal(t, "Oslo", cities[0].Name)
	assert.Equal(t, "Athens", cities[2].Name)

	names, err := svc.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Athens", "Lisbon", "Oslo"}, names)
}

func TestCityService_SearchWithoutBackend(t *testing.T) {
	svc, _ := newTestCityService(t)

	_, _, err := svc.Search(context.Background(), "paris", 0, 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestCityService_NoProducerIsFine(t *testing.T) {
	svc := &CityService{Repo: newTestRepo(t)}
	ctx := context.Background()

	city, err := svc.Create(ctx, "Paris")
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, city.ID, "Paris2"))
	require.NoError(t, svc.Delete(ctx, city.ID))
}
