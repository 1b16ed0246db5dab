package editor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/vine/pkg/models"
)

type fakeTransport struct {
	body  json.RawMessage
	err   error
	calls [][]models.SubmittedRelationship
}

func (f *fakeTransport) Post(_ context.Context, _ models.Entity, rels []models.SubmittedRelationship) (json.RawMessage, error) {
	f.calls = append(f.calls, rels)
	return f.body, f.err
}

func submittable(t *testing.T) *Collection {
	t.Helper()
	c := newTestCollection(t)
	require.NoError(t, c.HandleRowChanged(1, Value{Source: entp(anchor), Target: entp(e2), TypeID: intp(7)}))
	return c
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("NothingToSubmit", func(t *testing.T) {
		tr := &fakeTransport{}
		_, err := Submit(ctx, newTestCollection(t), tr)
		assert.ErrorIs(t, err, ErrNothingToSubmit)
		assert.Empty(t, tr.calls)
	})

	t.Run("RedirectFromBody", func(t *testing.T) {
		tr := &fakeTransport{body: json.RawMessage(`{"bbid":"new-id","type":"Publication"}`)}
		res, err := Submit(ctx, submittable(t), tr)
		require.NoError(t, err)
		assert.Equal(t, "/publication/new-id", res.Redirect)
		assert.False(t, res.SessionExpired)
		require.Len(t, tr.calls, 1)
		assert.Len(t, tr.calls[0], 1)
		assert.Len(t, res.Submitted, 1)
	})

	t.Run("RedirectFallsBackToAnchorType", func(t *testing.T) {
		tr := &fakeTransport{body: json.RawMessage(`{"id":"x1"}`)}
		res, err := Submit(ctx, submittable(t), tr)
		require.NoError(t, err)
		assert.Equal(t, "/work/x1", res.Redirect)
	})

	t.Run("UnrecognizedBodyRedirectsToAnchor", func(t *testing.T) {
		tr := &fakeTransport{body: json.RawMessage(`[1,2]`)}
		res, err := Submit(ctx, submittable(t), tr)
		require.NoError(t, err)
		assert.Equal(t, "/work/anchor", res.Redirect)
	})

	t.Run("EmptyObjectRedirectsToAnchor", func(t *testing.T) {
		tr := &fakeTransport{body: json.RawMessage(`{}`)}
		res, err := Submit(ctx, submittable(t), tr)
		require.NoError(t, err)
		assert.Equal(t, "/work/anchor", res.Redirect)
		assert.False(t, res.SessionExpired)
	})

	t.Run("EmptyBodyMeansLogin", func(t *testing.T) {
		for _, body := range []string{"", "null", `""`, "  "} {
			tr := &fakeTransport{body: json.RawMessage(body)}
			res, err := Submit(ctx, submittable(t), tr)
			require.NoError(t, err)
			assert.Equal(t, LoginPath, res.Redirect)
			assert.True(t, res.SessionExpired)
		}
	})

	t.Run("TransportFailureKeepsState", func(t *testing.T) {
		c := submittable(t)
		before := c.Snapshot()
		tr := &fakeTransport{err: errors.New("connection refused")}

		_, err := Submit(ctx, c, tr)
		assert.ErrorIs(t, err, ErrTransport)
		assert.Equal(t, before, c.Snapshot())
		assert.True(t, c.HasSubmittableChanges())
	})
}
