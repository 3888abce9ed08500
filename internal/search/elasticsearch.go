package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

type Config struct {
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
}

// Client maintains the trains full-text index. The catalog in Postgres is
// authoritative; the index only answers free-text queries with train ids.
type Client struct {
	es    *elasticsearch.Client
	index string
}

func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &Client{es: es, index: cfg.Index}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *Client) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.index},
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"number":        map[string]interface{}{"type": "keyword"},
				"name":          map[string]interface{}{"type": "text"},
				"from_state":    map[string]interface{}{"type": "keyword"},
				"from_district": map[string]interface{}{"type": "keyword"},
				"from_station":  map[string]interface{}{"type": "text"},
				"to_state":      map[string]interface{}{"type": "keyword"},
				"to_district":   map[string]interface{}{"type": "keyword"},
				"to_station":    map[string]interface{}{"type": "text"},
				"days":          map[string]interface{}{"type": "keyword"},
				"is_active":     map[string]interface{}{"type": "boolean"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.index,
		Body:  bytes.NewReader(body),
	}

	createRes, err := createReq.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("index creation returned %s", createRes.Status())
	}

	slog.Info("Created Elasticsearch index", "index", c.index)
	return nil
}

type trainDocument struct {
	Number       string   `json:"number"`
	Name         string   `json:"name"`
	FromState    string   `json:"from_state"`
	FromDistrict string   `json:"from_district"`
	FromStation  string   `json:"from_station"`
	ToState      string   `json:"to_state"`
	ToDistrict   string   `json:"to_district"`
	ToStation    string   `json:"to_station"`
	Days         []string `json:"days"`
	IsActive     bool     `json:"is_active"`
}

// IndexTrain writes or overwrites the document for a train. Called on every
// catalog create, update and soft delete.
func (c *Client) IndexTrain(ctx context.Context, train *models.Train) error {
	doc := trainDocument{
		Number:       train.Number,
		Name:         train.Name,
		FromState:    train.From.State,
		FromDistrict: train.From.District,
		FromStation:  train.From.Station,
		ToState:      train.To.State,
		ToDistrict:   train.To.District,
		ToStation:    train.To.Station,
		Days:         train.Days,
		IsActive:     train.IsActive,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: strconv.FormatInt(train.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("failed to index train: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing train %d returned %s", train.ID, res.Status())
	}
	return nil
}

// SearchIDs runs a free-text query over train names, numbers and stations
// and returns matching train ids, active trains only.
func (c *Client) SearchIDs(ctx context.Context, query string, size int) ([]int64, error) {
	if size <= 0 {
		size = 50
	}

	searchBody := map[string]interface{}{
		"size":    size,
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  query,
							"fields": []string{"name^2", "number^3", "from_station", "to_station"},
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"is_active": true},
					},
				},
			},
		},
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]int64, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
