package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/citiesmanager/cities-api/internal/models"
)

const Index = "cities"

// Search runs a fuzzy match over city names.
func Search(ctx context.Context, es *elasticsearch.Client, query string, from, size int) (int64, []models.City, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"name": map[string]any{
					"query":     query,
					"fuzziness": "AUTO",
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(Index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.City `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	cities := make([]models.City, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		cities[i] = hit.Source
	}
	return r.Hits.Total.Value, cities, nil
}

// IndexCity upserts one city document keyed by id.
func IndexCity(ctx context.Context, es *elasticsearch.Client, city *models.City) error {
	doc, err := json.Marshal(city)
	if err != nil {
		return fmt.Errorf("index city: marshal: %w", err)
	}
	res, err := es.Index(Index, strings.NewReader(string(doc)),
		es.Index.WithDocumentID(city.ID.String()),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index city: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index city: %s", res.Status())
	}
	return nil
}

// RemoveCity deletes the document for a city that no longer exists.
func RemoveCity(ctx context.Context, es *elasticsearch.Client, id string) error {
	res, err := es.Delete(Index, id, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove city: %w", err)
	}
	defer res.Body.Close()
	// a 404 here just means the document was never indexed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove city: %s", res.Status())
	}
	return nil
}
