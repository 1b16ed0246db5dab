// Package transport posts relationship sets to the entity site's
// relationship handler.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/vine/pkg/editor"
	"github.com/Ramsey-B/vine/pkg/models"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

// Poster is the part of the HTTP client the transport needs.
type Poster interface {
	PostJSON(ctx context.Context, url string, payload any) ([]byte, error)
}

var _ editor.Transport = (*HTTPTransport)(nil)

// HTTPTransport sends submissions to {base}/{type}/{id}/relationships/handler.
type HTTPTransport struct {
	baseURL string
	client  Poster
	logger  ectologger.Logger
}

func NewHTTPTransport(baseURL string, client Poster, logger ectologger.Logger) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Endpoint returns the handler URL for anchor.
func (t *HTTPTransport) Endpoint(anchor models.Entity) string {
	return fmt.Sprintf("%s/%s/%s/relationships/handler",
		t.baseURL, url.PathEscape(strings.ToLower(anchor.Type)), url.PathEscape(anchor.ID))
}

func (t *HTTPTransport) Post(ctx context.Context, anchor models.Entity, relationships []models.SubmittedRelationship) (json.RawMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "transport.HTTPTransport.Post")
	defer span.End()

	endpoint := t.Endpoint(anchor)
	body, err := t.client.PostJSON(ctx, endpoint, relationships)
	if err != nil {
		tracing.Fail(span, err)
		t.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"anchor_id": anchor.ID,
			"count":     len(relationships),
		}).Error("Failed to submit relationships")
		return nil, err
	}

	t.logger.WithContext(ctx).WithFields(map[string]any{
		"anchor_id": anchor.ID,
		"count":     len(relationships),
	}).Info("Submitted relationships")

	return json.RawMessage(body), nil
}
