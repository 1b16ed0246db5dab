// Package search looks up entities for the endpoint pickers.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/vine/pkg/httpclient"
	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

// Provider resolves a free-text query to entity references. The returned
// sequence is lazy and may be ranged over more than once.
type Provider interface {
	Search(ctx context.Context, query string) iter.Seq2[models.Entity, error]
}

// Getter is the part of the HTTP client the provider needs.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// HTTPProvider queries an autocomplete endpoint.
type HTTPProvider struct {
	baseURL string
	client  Getter
	logger  ectologger.Logger
}

func NewHTTPProvider(baseURL string, client Getter, logger ectologger.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// result accepts both the current and the older autocomplete payloads.
type result struct {
	ID           string `json:"id"`
	BBID         string `json:"bbid"`
	Type         string `json:"type"`
	LegacyType   string `json:"_type"`
	Name         string `json:"name"`
	DefaultAlias *struct {
		Name string `json:"name"`
	} `json:"defaultAlias"`
}

func (r result) entity() models.Entity {
	e := models.Entity{ID: r.ID, Type: r.Type, Name: r.Name}
	if e.ID == "" {
		e.ID = r.BBID
	}
	if e.Type == "" {
		e.Type = r.LegacyType
	}
	if e.Name == "" && r.DefaultAlias != nil {
		e.Name = r.DefaultAlias.Name
	}
	return e
}

func (p *HTTPProvider) Search(ctx context.Context, query string) iter.Seq2[models.Entity, error] {
	return func(yield func(models.Entity, error) bool) {
		ctx, span := tracing.StartSpan(ctx, "search.HTTPProvider.Search")
		defer span.End()

		endpoint := fmt.Sprintf("%s/search/autocomplete?q=%s", p.baseURL, url.QueryEscape(query))
		body, err := p.client.Get(ctx, endpoint)
		if err != nil {
			tracing.Fail(span, err)
			yield(models.Entity{}, fmt.Errorf("entity search failed: %w", err))
			return
		}

		var results []result
		if err := json.Unmarshal(body, &results); err != nil {
			tracing.Fail(span, err)
			yield(models.Entity{}, fmt.Errorf("failed to decode search results: %w", err))
			return
		}

		for _, r := range results {
			e := r.entity()
			if e.ID == "" {
				p.logger.WithContext(ctx).WithField("query", query).Warn("dropping search result without an id")
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Collect drains seq, stopping at the first error or after limit entities.
// A limit of zero or less means no limit.
func Collect(seq iter.Seq2[models.Entity, error], limit int) ([]models.Entity, error) {
	out := []models.Entity{}
	for e, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

var _ Getter = (*httpclient.Client)(nil)
