package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestTimeout = 3 * time.Second
	bulkTimeout    = 30 * time.Second
)

// NewESClient creates an Elasticsearch client with optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// ProductDocument is the searchable projection of a product. Only fields
// that change through product writes are indexed, so filters on them stay
// in step with postgres.
type ProductDocument struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Price       float64  `json:"price"`
	InStock     bool     `json:"in_stock"`
	IsOnSale    bool     `json:"is_on_sale"`
}

// Query is free text narrowed by the catalog filters the index carries.
type Query struct {
	Text     string
	Category string
	InStock  *bool
	OnSale   *bool
	MinPrice *float64
	MaxPrice *float64
	// Size caps how many ids come back.
	Size int
}

// Result holds matching ids by relevance and the number of all matches.
type Result struct {
	IDs   []uuid.UUID
	Total int64
}

// Complete reports whether IDs holds every match.
func (r *Result) Complete() bool {
	return int64(len(r.IDs)) >= r.Total
}

// ProductIndex is the indexed full-text path for product search.
type ProductIndex interface {
	// EnsureIndex creates the index with its mapping when it does not exist.
	EnsureIndex(ctx context.Context) error
	Index(ctx context.Context, doc ProductDocument) error
	// Bulk indexes docs in one request.
	Bulk(ctx context.Context, docs []ProductDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q Query) (*Result, error)
}

type esProductIndex struct {
	es    *elasticsearch.Client
	index string
	log   *zap.Logger
}

func NewProductIndex(es *elasticsearch.Client, index string, log *zap.Logger) ProductIndex {
	return &esProductIndex{
		es:    es,
		index: index,
		log:   log.With(zap.String("component", "product_index")),
	}
}

var productMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":          map[string]any{"type": "keyword"},
			"name":        map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"tags":        map[string]any{"type": "text"},
			"category": map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword"}},
			},
			"price":      map[string]any{"type": "double"},
			"in_stock":   map[string]any{"type": "boolean"},
			"is_on_sale": map[string]any{"type": "boolean"},
		},
	},
}

func (i *esProductIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	_ = exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(productMapping)
	if err != nil {
		return err
	}
	res, err := esapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, res.Status())
	}
	i.log.Info("Created search index", zap.String("index", i.index))
	return nil
}

func (i *esProductIndex) Bulk(ctx context.Context, docs []ProductDocument) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		meta := map[string]any{"index": map[string]any{"_index": i.index, "_id": doc.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode product document: %w", err)
		}
	}

	c, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	res, err := esapi.BulkRequest{Body: &buf}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("bulk index %d products: %w", len(docs), err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("bulk index %d products: %s", len(docs), res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if parsed.Errors {
		return fmt.Errorf("bulk index %d products: some documents were rejected", len(docs))
	}
	return nil
}

func (i *esProductIndex) Index(ctx context.Context, doc ProductDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode product document: %w", err)
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(c, i.es)
	if err != nil {
		i.log.Warn("Index request failed", zap.Error(err), zap.String("product_id", doc.ID))
		return fmt.Errorf("index product %s: %w", doc.ID, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		i.log.Warn("Index response error", zap.String("status", res.Status()), zap.String("product_id", doc.ID))
		return fmt.Errorf("index product %s: %s", doc.ID, res.Status())
	}
	return nil
}

func (i *esProductIndex) Delete(ctx context.Context, id uuid.UUID) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: i.index, DocumentID: id.String()}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("delete product %s from index: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete product %s from index: %s", id, res.Status())
	}
	return nil
}

func (i *esProductIndex) Search(ctx context.Context, q Query) (*Result, error) {
	if strings.TrimSpace(q.Text) == "" {
		return &Result{}, nil
	}
	if q.Size <= 0 || q.Size > 1000 {
		q.Size = 1000
	}

	body, err := json.Marshal(buildSearch(q))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("search products: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{IDs: make([]uuid.UUID, 0, len(parsed.Hits.Hits)), Total: parsed.Hits.Total.Value}
	for _, h := range parsed.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			i.log.Debug("Skipping hit with non-uuid id", zap.String("id", h.ID))
			continue
		}
		out.IDs = append(out.IDs, id)
	}
	return out, nil
}

func buildSearch(q Query) map[string]any {
	var filters []any
	if q.Category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category.raw": q.Category}})
	}
	if q.InStock != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"in_stock": *q.InStock}})
	}
	if q.OnSale != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"is_on_sale": *q.OnSale}})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		rng := map[string]any{}
		if q.MinPrice != nil {
			rng["gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			rng["lte"] = *q.MaxPrice
		}
		filters = append(filters, map[string]any{"range": map[string]any{"price": rng}})
	}

	boolQuery := map[string]any{
		"must": []any{map[string]any{
			"multi_match": map[string]any{
				"query":    q.Text,
				"fields":   []string{"name^3", "description", "tags^2", "category"},
				"operator": "or",
			},
		}},
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	return map[string]any{
		"_source":          false,
		"size":             q.Size,
		"track_total_hits": true,
		"query":            map[string]any{"bool": boolQuery},
	}
}
