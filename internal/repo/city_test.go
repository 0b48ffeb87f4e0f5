package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateCity_AssignsID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	city, err := r.CreateCity(ctx, "Paris")
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.NotEqual(t, uuid.Nil, city.ID)
	assert.Equal(t, "Paris", city.Name)

	got, err := r.GetCity(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, city.ID, got.ID)
	assert.Equal(t, "Paris", got.Name)
}

func TestGetCity_UnknownID(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetCity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListCities_NameDescending(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Berlin", "Tokyo", "Amsterdam", "Paris"} {
		_, err := r.CreateCity(ctx, name)
		require.NoError(t, err)
	}

	cities, err := r.ListCities(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 4)

	names := make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Tokyo", "Paris", "Berlin", "Amsterdam"}, names)
}

func TestListCityNames_Ascending(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Berlin", "Tokyo", "Amsterdam", "Paris"} {
		_, err := r.CreateCity(ctx, name)
		require.NoError(t, err)
	}

	names, err := r.ListCityNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amsterdam", "Berlin", "Paris", "Tokyo"}, names)
}

func TestUpdateCityName_PersistsNewName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	city, err := r.CreateCity(ctx, "Paris")
	require.NoError(t, err)

	require.NoError(t, r.UpdateCityName(ctx, city, "Paris2"))

	got, err := r.GetCity(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris2", got.Name)
}

func TestUpdateCityName_ConflictOnStaleSnapshot(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	city, err := r.CreateCity(ctx, "Paris")
	require.NoError(t, err)

	// someone else renames the city between our read and our write
	snapshot := *city
	require.NoError(t, r.UpdateCityName(ctx, city, "Lyon"))

	err = r.UpdateCityName(ctx, &snapshot, "Paris2")
	assert.ErrorIs(t, err, ErrConcurrentModification)

	got, err := r.GetCity(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.Name, "losing write must not overwrite")
}

func TestUpdateCityName_DeletedUnderneath(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	city, err := r.CreateCity(ctx, "Paris")
	require.NoError(t, err)

	snapshot := *city
	require.NoError(t, r.DeleteCity(ctx, city.ID))

	err = r.UpdateCityName(ctx, &snapshot, "Paris2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteCity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	city, err := r.CreateCity(ctx, "Paris")
	require.NoError(t, err)

	require.NoError(t, r.DeleteCity(ctx, city.ID))

	_, err = r.GetCity(ctx, city.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = r.DeleteCity(ctx, city.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
