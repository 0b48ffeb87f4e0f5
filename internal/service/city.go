package service

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/citiesmanager/cities-api/internal/events"
	"github.com/citiesmanager/cities-api/internal/logging"
	"github.com/citiesmanager/cities-api/internal/models"
	"github.com/citiesmanager/cities-api/internal/repo"
	"github.com/citiesmanager/cities-api/internal/search"
)

// ErrSearchUnavailable means no search backend is configured for this deploy.
var ErrSearchUnavailable = errors.New("search backend not configured")

// Publisher receives a city event after every successful mutation.
type Publisher interface {
	Publish(ctx context.Context, event events.CityEvent) error
}

// CityService wraps the city store and fans out events and index updates.
// Events and indexing are best effort: their failures are logged, never
// surfaced to the API caller.
type CityService struct {
	Repo     *repo.GormRepo
	Producer Publisher
	ES       *elasticsearch.Client
}

func (s *CityService) List(ctx context.Context) ([]models.City, error) {
	return s.Repo.ListCities(ctx)
}

func (s *CityService) ListNames(ctx context.Context) ([]string, error) {
	return s.Repo.ListCityNames(ctx)
}

func (s *CityService) Get(ctx context.Context, id uuid.UUID) (*models.City, error) {
	return s.Repo.GetCity(ctx, id)
}

func (s *CityService) Create(ctx context.Context, name string) (*models.City, error) {
	city, err := s.Repo.CreateCity(ctx, name)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "city_created", city)
	return city, nil
}

// Update renames a city. The write is guarded by the state read here, so a
// concurrent rename or delete between the read and the write surfaces as
// repo.ErrConcurrentModification instead of a silent overwrite.
func (s *CityService) Update(ctx context.Context, id uuid.UUID, name string) error {
	snapshot, err := s.Repo.GetCity(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateCityName(ctx, snapshot, name); err != nil {
		return err
	}
	snapshot.Name = name
	s.notify(ctx, "city_updated", snapshot)
	return nil
}

func (s *CityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteCity(ctx, id); err != nil {
		return err
	}
	l := logging.FromContext(ctx).With("svc", "city.delete")
	if s.Producer != nil {
		event := events.CityEvent{Type: "city_deleted", CityID: id.String(), OccurredAt: time.Now().UTC()}
		if err := s.Producer.Publish(ctx, event); err != nil {
			l.Warn("event_publish_failed", "error", err, "city_id", id)
		}
	}
	if s.ES != nil {
		if err := search.RemoveCity(ctx, s.ES, id.String()); err != nil {
			l.Warn("index_remove_failed", "error", err, "city_id", id)
		}
	}
	return nil
}

// Search queries the elasticsearch index, when one is wired in.
func (s *CityService) Search(ctx context.Context, query string, from, size int) (int64, []models.City, error) {
	if s.ES == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return search.Search(ctx, s.ES, query, from, size)
}

func (s *CityService) notify(ctx context.Context, eventType string, city *models.City) {
	l := logging.FromContext(ctx).With("svc", "city.notify")
	if s.Producer != nil {
		event := events.CityEvent{
			Type:       eventType,
			CityID:     city.ID.String(),
			Name:       city.Name,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.Producer.Publish(ctx, event); err != nil {
			l.Warn("event_publish_failed", "error", err, "city_id", city.ID)
		}
	}
	if s.ES != nil {
		if err := search.IndexCity(ctx, s.ES, city); err != nil {
			l.Warn("index_update_failed", "error", err, "city_id", city.ID)
		}
	}
}
