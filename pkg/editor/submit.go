package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ramsey-B/vine/pkg/models"
)

// LoginPath is where the page goes when the submission endpoint reports an
// expired session by answering with an empty body.
const LoginPath = "/login"

// Transport sends a relationship set for persistence and returns the raw
// response body.
type Transport interface {
	Post(ctx context.Context, anchor models.Entity, relationships []models.SubmittedRelationship) (json.RawMessage, error)
}

// SubmitResult tells the host where to navigate after a submission.
type SubmitResult struct {
	Redirect       string
	SessionExpired bool
	Submitted      []models.SubmittedRelationship
}

type submitResponse struct {
	ID   string `json:"id"`
	BBID string `json:"bbid"`
	Type string `json:"type"`
}

// Submit sends the collection's submission set through t. The collection
// is never modified; on failure the edits stay in place for a retry.
func Submit(ctx context.Context, c *Collection, t Transport) (SubmitResult, error) {
	set := c.ExtractSubmissionSet()
	if len(set) == 0 {
		return SubmitResult{}, ErrNothingToSubmit
	}

	body, err := t.Post(ctx, c.anchor, set)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	redirect, expired := redirectFor(c.anchor, body)
	return SubmitResult{Redirect: redirect, SessionExpired: expired, Submitted: set}, nil
}

// redirectFor picks the page to navigate to from a submission response.
func redirectFor(anchor models.Entity, body json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return LoginPath, true
	}

	var resp submitResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return anchor.Link(), false
	}

	id := resp.ID
	if id == "" {
		id = resp.BBID
	}
	if id == "" {
		return anchor.Link(), false
	}

	entityType := resp.Type
	if entityType == "" {
		entityType = anchor.Type
	}
	return models.EntityLink(entityType, id), false
}
